package processors

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/plugins"
	"github.com/fetchsync/fetchsync/data"
)

// Processor an interface that defines an object that can transform batches
type Processor interface {
	// PluginMetadata implement this interface.
	conduit.PluginMetadata

	// Config returns the configuration options used to create the Processor.
	Config() string

	// Init will be called during initialization, before batches start going through the pipeline.
	// Typically, used for things like initializing network connections.
	// The Context passed to Init() will be used for deadlines, cancel signals and other early terminations
	// The Config passed to Init() will contain the unmarshalled config file specific to this plugin.
	Init(ctx context.Context, initProvider data.InitProvider, cfg plugins.PluginConfig, logger *logrus.Logger) error

	// Close will be called during termination of the process.
	Close() error

	// Process will be called with provided optional inputs.  It is up to the plugin to check that required inputs are provided.
	Process(input data.Batch) (data.Batch, error)
}

// ProcessorConstructor must be implemented by each Processor.
// It provides a basic no-arg constructor for instances of an ProcessorImpl.
type ProcessorConstructor interface {
	// New should return an instantiation of a Processor.
	// Configuration values should be passed and can be processed during `Init()`.
	New() Processor
}

// ProcessorConstructorFunc is Constructor implementation for processors
type ProcessorConstructorFunc func() Processor

// New initializes a processor constructor
func (f ProcessorConstructorFunc) New() Processor {
	return f()
}

// Processors are the constructors to build processor plugins.
var Processors = make(map[string]ProcessorConstructor)

// Register is used to register ProcessorConstructor implementations. This mechanism allows
// for loose coupling between the configuration and the implementation. It is extremely similar to the way sql.DB
// drivers are configured and used.
func Register(name string, constructor ProcessorConstructor) {
	Processors[name] = constructor
}

// ProcessorBuilderByName returns a Processor constructor for the name provided
func ProcessorBuilderByName(name string) (ProcessorConstructor, error) {
	constructor, ok := Processors[name]
	if !ok {
		return nil, fmt.Errorf("no Processor Constructor for %s", name)
	}

	return constructor, nil
}

// ProcessorNames returns the names of all processors registered
func ProcessorNames() []string {
	var returnValue []string
	for k := range Processors {
		returnValue = append(returnValue, k)
	}
	sort.Strings(returnValue)
	return returnValue
}
