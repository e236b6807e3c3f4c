package exporters

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/plugins"
	"github.com/fetchsync/fetchsync/data"
)

// Exporter defines the interface for plugins
type Exporter interface {
	// PluginMetadata implement this interface.
	conduit.PluginMetadata

	// Init will be called during initialization, before batches start going through the pipeline.
	// Typically used for things like initializing network connections.
	// The PluginConfig passed to Init will contain the Unmarhsalled config file specific to this plugin.
	// Should return an error if it fails--this will result in the process terminating.
	Init(ctx context.Context, initProvider data.InitProvider, cfg plugins.PluginConfig, logger *logrus.Logger) error

	// Config returns the configuration options used to create an Exporter.
	// Initialized during Init, it should return an empty config until then.
	Config() string

	// Close will be called during termination of the process.
	// Returns an error if it fails which will be surfaced in the logs, but the process is already terminating.
	Close() error

	// Receive is called for each batch to be processed by the exporter.
	// Should return an error on failure, which aborts the run.
	Receive(exportData data.Batch) error
}

// ExporterConstructor must be implemented by each Exporter.
// It provides a basic no-arg constructor for instances of an ExporterImpl.
type ExporterConstructor interface {
	// New should return an instantiation of an Exporter.
	// Configuration values should be passed and can be processed during `Init()`.
	New() Exporter
}

// ExporterConstructorFunc is Constructor implementation for exporters
type ExporterConstructorFunc func() Exporter

// New initializes an exporter constructor
func (f ExporterConstructorFunc) New() Exporter {
	return f()
}

// Exporters are the constructors to build exporter plugins.
var Exporters = make(map[string]ExporterConstructor)

// Register is used to register ExporterConstructor implementations. This mechanism allows
// for loose coupling between the configuration and the implementation. It is extremely similar to the way sql.DB
// drivers are configured and used.
func Register(name string, constructor ExporterConstructor) {
	Exporters[name] = constructor
}

// ExporterBuilderByName returns a Exporter constructor for the name provided
func ExporterBuilderByName(name string) (ExporterConstructor, error) {
	constructor, ok := Exporters[name]
	if !ok {
		return nil, fmt.Errorf("no Exporter Constructor for %s", name)
	}

	return constructor, nil
}

// ExporterNames returns the names of all exporters registered
func ExporterNames() []string {
	var returnValue []string
	for k := range Exporters {
		returnValue = append(returnValue, k)
	}
	sort.Strings(returnValue)
	return returnValue
}
