package main

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/pipeline"
)

// namedConfig converts a typed plugin config into the generic form stored in
// a pipeline config file. A nil cfg leaves every plugin default in place.
func namedConfig(name string, cfg interface{}) (pipeline.NameConfigPair, error) {
	pair := pipeline.NameConfigPair{Name: name}
	if cfg == nil {
		return pair, nil
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return pair, fmt.Errorf("namedConfig(): %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, &pair.Config); err != nil {
		return pair, fmt.Errorf("namedConfig(): %s: %w", name, err)
	}
	return pair, nil
}

// inMemoryConfig assembles a pipeline config that doesn't live in a data
// directory, so no metadata.json is written.
func inMemoryConfig(logLevel string, importer pipeline.NameConfigPair, procs []pipeline.NameConfigPair, exporter pipeline.NameConfigPair) *pipeline.Config {
	return &pipeline.Config{
		ConduitConfig:    &conduit.Config{},
		PipelineLogLevel: logLevel,
		Importer:         importer,
		Processors:       procs,
		Exporter:         exporter,
	}
}
