package noop

import (
	"context"
	_ "embed" // used to embed config

	"github.com/sirupsen/logrus"

	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/plugins"
	"github.com/fetchsync/fetchsync/conduit/plugins/processors"
	"github.com/fetchsync/fetchsync/data"
)

const implementationName = "noop"

// package-wide init function
func init() {
	processors.Register(implementationName, processors.ProcessorConstructorFunc(func() processors.Processor {
		return &Processor{}
	}))
}

// Processor passes every batch through unchanged. It logs the shape of each
// batch at debug level to show what flows between two stages.
type Processor struct {
	logger  *logrus.Logger
	batches uint64
	records int
	links   int
}

//go:embed sample.yaml
var sampleConfig string

// Metadata noop
func (p *Processor) Metadata() conduit.Metadata {
	return conduit.Metadata{
		Name:         implementationName,
		Description:  "pass-through processor that logs batch sizes",
		Deprecated:   false,
		SampleConfig: sampleConfig,
	}
}

// Config noop
func (p *Processor) Config() string {
	return ""
}

// Init keeps the logger, a nil logger disables logging.
func (p *Processor) Init(_ context.Context, _ data.InitProvider, _ plugins.PluginConfig, logger *logrus.Logger) error {
	p.logger = logger
	return nil
}

// Close logs the totals seen during the run.
func (p *Processor) Close() error {
	if p.logger != nil && p.batches > 0 {
		p.logger.Infof("passed %d batches: %d records, %d links", p.batches, p.records, p.links)
	}
	return nil
}

// Process returns input unchanged.
func (p *Processor) Process(input data.Batch) (data.Batch, error) {
	p.batches++
	p.records += len(input.Records)
	p.links += len(input.Links)
	if p.logger != nil {
		p.logger.WithFields(logrus.Fields{
			"seq":     input.Seq,
			"records": len(input.Records),
			"links":   len(input.Links),
			"delta":   len(input.Delta),
		}).Debug("batch")
	}
	return input, nil
}
