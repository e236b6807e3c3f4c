package flatten

import (
	"context"
	_ "embed" // used to embed config
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/plugins"
	"github.com/fetchsync/fetchsync/conduit/plugins/processors"
	"github.com/fetchsync/fetchsync/data"
)

const implementationName = "flatten"

// package-wide init function
func init() {
	processors.Register(implementationName, processors.ProcessorConstructorFunc(func() processors.Processor {
		return &flattenProcessor{}
	}))
}

type flattenProcessor struct {
	logger *logrus.Logger
	cfg    Config
}

//go:embed sample.yaml
var sampleConfig string

var metadata = conduit.Metadata{
	Name:         implementationName,
	Description:  "Flattens nested record columns into parent_child columns.",
	Deprecated:   false,
	SampleConfig: sampleConfig,
}

func (p *flattenProcessor) Metadata() conduit.Metadata {
	return metadata
}

func (p *flattenProcessor) Config() string {
	s, _ := yaml.Marshal(p.cfg)
	return string(s)
}

func (p *flattenProcessor) Init(_ context.Context, _ data.InitProvider, cfg plugins.PluginConfig, logger *logrus.Logger) error {
	p.logger = logger
	if err := cfg.UnmarshalConfig(&p.cfg); err != nil {
		return fmt.Errorf("flatten processor init error: %w", err)
	}
	// An explicit empty list disables the step, a missing key uses the default.
	if p.cfg.Drop == nil {
		p.cfg.Drop = DefaultDrop
	}
	if p.cfg.Expand == nil {
		p.cfg.Expand = DefaultExpand
	}
	return nil
}

func (p *flattenProcessor) Close() error {
	return nil
}

func (p *flattenProcessor) Process(input data.Batch) (data.Batch, error) {
	for i, rec := range input.Records {
		flat, err := Record(rec, p.cfg.Drop, p.cfg.Expand)
		if err != nil {
			return input, fmt.Errorf("flatten: batch %d record %d: %w", input.Seq, i, err)
		}
		input.Records[i] = flat
	}
	p.logger.Debugf("flattened %d records of batch %d", len(input.Records), input.Seq)
	return input, nil
}
