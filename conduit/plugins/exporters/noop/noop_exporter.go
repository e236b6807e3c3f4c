package noop

import (
	"context"
	_ "embed" // used to embed config
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/plugins"
	"github.com/fetchsync/fetchsync/conduit/plugins/exporters"
	"github.com/fetchsync/fetchsync/data"
)

var implementationName = "noop"

// `noopExporter`s will function without ever erroring. This means they will also accept out of order batches
// which may or may not be desirable for different use cases--it can hide errors in actual exporters expecting in order
// batch processing.
// The `noopExporter` will maintain `Seq` state according to the sequence of the last batch it processed.
type noopExporter struct {
	seq uint64
	cfg ExporterConfig
}

// ExporterConfig is the noop exporter configuration.
type ExporterConfig struct {
	// <code>seq</code> is the sequence reported before the first batch arrives.
	Seq uint64 `yaml:"seq"`
}

//go:embed sample.yaml
var sampleConfig string

var metadata = conduit.Metadata{
	Name:         implementationName,
	Description:  "noop exporter",
	Deprecated:   false,
	SampleConfig: sampleConfig,
}

func (exp *noopExporter) Metadata() conduit.Metadata {
	return metadata
}

func (exp *noopExporter) Init(_ context.Context, _ data.InitProvider, cfg plugins.PluginConfig, _ *logrus.Logger) error {
	if err := cfg.UnmarshalConfig(&exp.cfg); err != nil {
		return fmt.Errorf("init failure in unmarshalConfig: %v", err)
	}
	exp.seq = exp.cfg.Seq
	return nil
}

func (exp *noopExporter) Config() string {
	ret, _ := yaml.Marshal(exp.cfg)
	return string(ret)
}

func (exp *noopExporter) Close() error {
	return nil
}

func (exp *noopExporter) Receive(exportData data.Batch) error {
	exp.seq = exportData.Sequence() + 1
	return nil
}

func (exp *noopExporter) Seq() uint64 {
	return exp.seq
}

func init() {
	exporters.Register(implementationName, exporters.ExporterConstructorFunc(func() exporters.Exporter {
		return &noopExporter{}
	}))
}
