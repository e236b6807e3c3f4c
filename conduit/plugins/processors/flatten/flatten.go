package flatten

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fetchsync/fetchsync/data"
)

// ColumnName joins a parent and child name, collapsing every "__" produced by
// the join into "_" in a single left to right pass.
func ColumnName(parent, child string) string {
	return strings.ReplaceAll(parent+"_"+child, "__", "_")
}

// Record drops and expands columns of rec in place and returns it. Expand
// columns that are absent, or hold a scalar, are left alone. Once the expand
// list is done, any value that is still a map or a list is replaced by its
// JSON text so every cell is a scalar.
func Record(rec data.Record, drop, expand []string) (data.Record, error) {
	for _, col := range drop {
		delete(rec, col)
	}

	for _, col := range expand {
		switch nested := rec[col].(type) {
		case map[string]interface{}:
			delete(rec, col)
			for k, v := range nested {
				rec[ColumnName(col, k)] = v
			}
		case data.Record:
			delete(rec, col)
			for k, v := range nested {
				rec[ColumnName(col, k)] = v
			}
		case []interface{}:
			delete(rec, col)
			for i, v := range nested {
				rec[ColumnName(col, strconv.Itoa(i))] = v
			}
		}
	}

	for k, v := range rec {
		switch v.(type) {
		case map[string]interface{}, data.Record, []interface{}:
			text, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", k, err)
			}
			rec[k] = string(text)
		}
	}
	return rec, nil
}
