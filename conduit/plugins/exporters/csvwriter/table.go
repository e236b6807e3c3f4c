package csvwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/fetchsync/fetchsync/data"
)

// Table accumulates records and tracks the union of their columns. Columns
// are ordered by first appearance. Records are maps, so columns first seen in
// the same record are ordered lexically.
type Table struct {
	columns []string
	known   map[string]struct{}
	rows    []data.Record
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{known: make(map[string]struct{})}
}

// Append adds records to the end of the table.
func (t *Table) Append(records ...data.Record) {
	for _, rec := range records {
		var fresh []string
		for k := range rec {
			if _, ok := t.known[k]; !ok {
				fresh = append(fresh, k)
			}
		}
		sort.Strings(fresh)
		for _, k := range fresh {
			t.known[k] = struct{}{}
			t.columns = append(t.columns, k)
		}
		t.rows = append(t.rows, rec)
	}
}

// Columns returns the header of the table.
func (t *Table) Columns() []string {
	return t.columns
}

// Len is the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Encode renders the table as CSV, a header row followed by one row per
// record with empty cells for absent fields. An empty table renders as
// nothing at all.
func (t *Table) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if len(t.rows) == 0 {
		return buf.Bytes(), nil
	}

	w := csv.NewWriter(&buf)
	if err := w.Write(t.columns); err != nil {
		return nil, fmt.Errorf("Encode(): header: %w", err)
	}
	row := make([]string, len(t.columns))
	for i, rec := range t.rows {
		for j, col := range t.columns {
			cell, err := formatCell(rec[col])
			if err != nil {
				return nil, fmt.Errorf("Encode(): row %d column %s: %w", i, col, err)
			}
			row[j] = cell
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("Encode(): row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("Encode(): %w", err)
	}
	return buf.Bytes(), nil
}

func formatCell(v interface{}) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		return strconv.FormatBool(val), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), nil
	case int, int64, int32, uint, uint64, uint32:
		return fmt.Sprintf("%d", val), nil
	default:
		text, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(text), nil
	}
}
