package list

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchsync/fetchsync/conduit"
)

var testPlugins = []conduit.Metadata{
	{Name: "zeta", Description: "last"},
	{Name: "alpha", Description: "first", Deprecated: true},
	{Name: "csv_writer", Description: "tables", SampleConfig: "name: csv_writer"},
}

func TestPrintMetadataSorted(t *testing.T) {
	var buf bytes.Buffer
	printMetadata(&buf, testPlugins)
	expected := "  [DEPRECATED] alpha - first\n" +
		"  csv_writer - tables\n" +
		"  zeta - last\n"
	assert.Equal(t, expected, buf.String())
}

func TestPrintDetails(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printDetails(&buf, "csv_writer", testPlugins))
	assert.Equal(t, "name: csv_writer\n", buf.String())

	assert.EqualError(t, printDetails(&buf, "missing", testPlugins), "plugin not found: missing")
}
