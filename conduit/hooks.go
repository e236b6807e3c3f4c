package conduit

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fetchsync/fetchsync/data"
)

// DefaultMetricsPrefix is the subsystem used for plugin collectors.
const DefaultMetricsPrefix = "fetchsync"

// OnCompleteFunc is the signature of Completed.OnComplete.
type OnCompleteFunc func(input data.Batch) error

// OnFinishFunc is the signature of Finisher.OnFinish.
type OnFinishFunc func() error

// ProvideMetricsFunc is the signature of PluginMetrics.ProvideMetrics.
type ProvideMetricsFunc func(subsystem string) []prometheus.Collector

// Completed is implemented by plugins that want to observe every batch.
type Completed interface {
	// OnComplete will be called by the Conduit framework when the pipeline
	// finishes processing a batch. It can be used for things like finalizing
	// state.
	OnComplete(input data.Batch) error
}

// Finisher is implemented by plugins that hold results until the run is over.
type Finisher interface {
	// OnFinish is called once, after the importer reports that it has no more
	// batches and every batch went through the exporter. It is never called
	// when the run aborts.
	OnFinish() error
}

// PluginMetrics is implemented by plugins that expose prometheus collectors.
type PluginMetrics interface {
	ProvideMetrics(subsystem string) []prometheus.Collector
}
