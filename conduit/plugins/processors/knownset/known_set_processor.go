package knownset

import (
	"context"
	_ "embed" // used to embed config
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/plugins"
	"github.com/fetchsync/fetchsync/conduit/plugins/processors"
	"github.com/fetchsync/fetchsync/data"
	"github.com/fetchsync/fetchsync/objstore"
)

const implementationName = "known_set"

// package-wide init function
func init() {
	processors.Register(implementationName, processors.ProcessorConstructorFunc(func() processors.Processor {
		return &knownSetProcessor{}
	}))
}

// knownSetProcessor loads the known set once and fills Batch.Delta with the
// links that have not been synchronized yet.
type knownSetProcessor struct {
	logger *logrus.Logger
	cfg    Config
	store  objstore.Store
	known  *Set
}

//go:embed sample.yaml
var sampleConfig string

var metadata = conduit.Metadata{
	Name:         implementationName,
	Description:  "Computes the links of a batch that are absent from a stored known set.",
	Deprecated:   false,
	SampleConfig: sampleConfig,
}

func (p *knownSetProcessor) Metadata() conduit.Metadata {
	return metadata
}

func (p *knownSetProcessor) Config() string {
	s, _ := yaml.Marshal(p.cfg)
	return string(s)
}

func (p *knownSetProcessor) Init(ctx context.Context, _ data.InitProvider, cfg plugins.PluginConfig, logger *logrus.Logger) error {
	p.logger = logger
	if err := cfg.UnmarshalConfig(&p.cfg); err != nil {
		return fmt.Errorf("known_set processor init error: %w", err)
	}
	if p.cfg.KnownKey == "" {
		p.cfg.KnownKey = DefaultKnownKey
	}

	if p.store == nil {
		store, err := objstore.Open(p.cfg.Store)
		if err != nil {
			return fmt.Errorf("Init(): %w", err)
		}
		p.store = store
	}

	doc, err := p.store.Get(ctx, p.cfg.KnownKey)
	if errors.Is(err, objstore.ErrNotFound) {
		p.logger.Infof("known set %s does not exist yet, starting empty", p.cfg.KnownKey)
		doc = nil
	} else if err != nil {
		return fmt.Errorf("Init(): reading known set %s: %w", p.cfg.KnownKey, err)
	}
	p.known = Parse(doc)
	p.logger.Infof("loaded %d known entries from %s", p.known.Len(), p.cfg.KnownKey)
	return nil
}

func (p *knownSetProcessor) Close() error {
	return nil
}

func (p *knownSetProcessor) Process(input data.Batch) (data.Batch, error) {
	if p.known == nil {
		return input, fmt.Errorf("known_set processor was not initialized")
	}
	input.Delta = p.known.Delta(input.Links)
	p.logger.Infof("batch %d: %d of %d entries are new", input.Seq, len(input.Delta), len(input.Links))
	return input, nil
}
