package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchsync/fetchsync/data"
)

func TestColumnName(t *testing.T) {
	tests := []struct {
		parent, child, expected string
	}{
		{"a", "b", "a_b"},
		{"a", "_b", "a_b"},
		{"sellingStatus_currentPrice", "_currencyId", "sellingStatus_currentPrice_currencyId"},
		{"a_", "b", "a_b"},
		// single left to right pass
		{"a", "__b", "a__b"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, ColumnName(tc.parent, tc.child))
	}
}

func TestRecordExpandsNestedColumn(t *testing.T) {
	rec := data.Record{"a": map[string]interface{}{"b": 1, "c": 2}, "d": "x"}
	out, err := Record(rec, nil, []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, data.Record{"a_b": 1, "a_c": 2, "d": "x"}, out)
}

func TestRecordUnderscoreCollision(t *testing.T) {
	rec := data.Record{"a": map[string]interface{}{"_b": 1}}
	out, err := Record(rec, nil, []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, data.Record{"a_b": 1}, out)
}

func TestRecordDropIsIdempotent(t *testing.T) {
	rec := data.Record{"title": "camera"}
	out, err := Record(rec, []string{"secondaryCategory"}, nil)
	require.NoError(t, err)
	assert.Equal(t, data.Record{"title": "camera"}, out)

	rec = data.Record{"title": "camera", "secondaryCategory": map[string]interface{}{"categoryId": "1"}}
	out, err = Record(rec, []string{"secondaryCategory"}, nil)
	require.NoError(t, err)
	assert.Equal(t, data.Record{"title": "camera"}, out)
}

func TestRecordExpandChain(t *testing.T) {
	rec := data.Record{
		"sellingStatus": map[string]interface{}{
			"currentPrice": map[string]interface{}{"_currencyId": "USD", "value": "10.5"},
			"sellingState": "Active",
		},
	}
	out, err := Record(rec, DefaultDrop, DefaultExpand)
	require.NoError(t, err)
	assert.Equal(t, data.Record{
		"sellingStatus_currentPrice_currencyId": "USD",
		"sellingStatus_currentPrice_value":      "10.5",
		"sellingStatus_sellingState":            "Active",
	}, out)
}

func TestRecordLeavesNoStructuredValues(t *testing.T) {
	rec := data.Record{
		"galleryURL": []interface{}{"a", "b"},
		"listingInfo": map[string]interface{}{
			"gift": "false",
			"tags": map[string]interface{}{"k": "v"},
		},
		"condition": "used",
		"shippingInfo": []interface{}{
			map[string]interface{}{"type": "Flat"},
		},
	}
	out, err := Record(rec, nil, []string{"condition", "listingInfo", "shippingInfo", "missing"})
	require.NoError(t, err)
	assert.Equal(t, data.Record{
		"galleryURL":       `["a","b"]`,
		"listingInfo_gift": "false",
		"listingInfo_tags": `{"k":"v"}`,
		"condition":        "used",
		"shippingInfo_0":   `{"type":"Flat"}`,
	}, out)
}
