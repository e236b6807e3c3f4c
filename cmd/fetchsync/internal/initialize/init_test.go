package initialize

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/pipeline"
	_ "github.com/fetchsync/fetchsync/conduit/plugins/exporters/all"
	_ "github.com/fetchsync/fetchsync/conduit/plugins/importers/all"
	_ "github.com/fetchsync/fetchsync/conduit/plugins/processors/all"
)

func readConfig(t *testing.T, dir string) pipeline.Config {
	file := filepath.Join(dir, conduit.DefaultConfigName)
	require.FileExists(t, file)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	var cfg pipeline.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	return cfg
}

// TestInitDataDirectory tests the initialization of the data directory
func TestInitDataDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "provided_directory")
	var out bytes.Buffer
	require.NoError(t, runConduitInit(&out, dir, "", defaultProcessors, ""))
	assert.Contains(t, out.String(), "fetchsync run -d "+dir)

	cfg := readConfig(t, dir)
	assert.Equal(t, "marketplace", cfg.Importer.Name)
	assert.Equal(t, "findItemsAdvanced", cfg.Importer.Config["call-type"])
	require.Len(t, cfg.Processors, 1)
	assert.Equal(t, "flatten", cfg.Processors[0].Name)
	assert.Equal(t, "csv_writer", cfg.Exporter.Name)
	assert.Equal(t, "INFO", cfg.PipelineLogLevel)
	assert.Equal(t, "OFF", cfg.Metrics.Mode)
}

func TestInitFeedPipeline(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runConduitInit(&bytes.Buffer{}, dir, "feed", []string{"known_set"}, "object_store"))

	cfg := readConfig(t, dir)
	assert.Equal(t, "feed", cfg.Importer.Name)
	require.Len(t, cfg.Processors, 1)
	assert.Equal(t, "known_set", cfg.Processors[0].Name)
	assert.Equal(t, "recent_speeches.txt", cfg.Processors[0].Config["known-key"])
	assert.Equal(t, "object_store", cfg.Exporter.Name)
	assert.Equal(t, "speech/", cfg.Exporter.Config["name-marker"])
}

func TestInitNoProcessors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runConduitInit(&bytes.Buffer{}, dir, "file_reader", nil, "noop"))
	cfg := readConfig(t, dir)
	assert.Empty(t, cfg.Processors)
	assert.Equal(t, "file_reader", cfg.Importer.Name)
}

func TestInitUnknownPlugins(t *testing.T) {
	dir := t.TempDir()
	assert.ErrorContains(t, runConduitInit(&bytes.Buffer{}, dir, "ftp", nil, ""), "unknown importer name: ftp")
	assert.ErrorContains(t, runConduitInit(&bytes.Buffer{}, dir, "", []string{"sort"}, ""), "unknown processor name: sort")
	assert.ErrorContains(t, runConduitInit(&bytes.Buffer{}, dir, "", nil, "kafka"), "unknown exporter name: kafka")
	assert.NoFileExists(t, filepath.Join(dir, conduit.DefaultConfigName))
}
