package metrics

import "github.com/prometheus/client_golang/prometheus"

// RegisterPrometheusMetrics register all prometheus metrics with the global
// metrics handler.
func RegisterPrometheusMetrics(subsystem string) {
	for _, c := range collectors(subsystem) {
		_ = prometheus.Register(c)
	}
}

// Prometheus metric names broken out for reuse.
const (
	BatchImportTimeName = "batch_import_time_sec"
	ImporterTimeName    = "importer_time_sec"
	ProcessorTimeName   = "processor_time_sec"
	ExporterTimeName    = "exporter_time_sec"
	ImportedRecordsName = "imported_records_per_batch"
	ImportedLinksName   = "imported_links_per_batch"
	CurrentSequenceName = "current_sequence"
	CompletedRunsName   = "completed_runs"
	FailedRunsName      = "failed_runs"
)

// AllMetricNames is a reference for all the custom metric names.
var AllMetricNames = []string{
	BatchImportTimeName,
	ImporterTimeName,
	ProcessorTimeName,
	ExporterTimeName,
	ImportedRecordsName,
	ImportedLinksName,
	CurrentSequenceName,
	CompletedRunsName,
	FailedRunsName,
}

// Initialize the prometheus objects.
var (
	BatchImportTimeSeconds  prometheus.Summary
	ImporterTimeSeconds     prometheus.Summary
	ProcessorTimeSeconds    *prometheus.SummaryVec
	ExporterTimeSeconds     prometheus.Summary
	ImportedRecordsPerBatch prometheus.Summary
	ImportedLinksPerBatch   prometheus.Summary
	CurrentSequenceGauge    prometheus.Gauge
	CompletedRuns           prometheus.Counter
	FailedRuns              prometheus.Counter
)

func init() {
	collectors("fetchsync")
}

// collectors (re)builds the collectors under the given subsystem.
func collectors(subsystem string) []prometheus.Collector {
	BatchImportTimeSeconds = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Subsystem: subsystem,
			Name:      BatchImportTimeName,
			Help:      "Total batch processing and export time in seconds.",
		})

	ImporterTimeSeconds = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Subsystem: subsystem,
			Name:      ImporterTimeName,
			Help:      "Time spent in the importer fetching a batch, in seconds.",
		})

	ProcessorTimeSeconds = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Subsystem: subsystem,
			Name:      ProcessorTimeName,
			Help:      "Time spent in each processor, in seconds.",
		}, []string{"processor_name"})

	ExporterTimeSeconds = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Subsystem: subsystem,
			Name:      ExporterTimeName,
			Help:      "Time spent in the exporter, in seconds.",
		})

	ImportedRecordsPerBatch = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Subsystem: subsystem,
			Name:      ImportedRecordsName,
			Help:      "Records per imported batch.",
		})

	ImportedLinksPerBatch = prometheus.NewSummary(
		prometheus.SummaryOpts{
			Subsystem: subsystem,
			Name:      ImportedLinksName,
			Help:      "Feed entries per imported batch.",
		})

	CurrentSequenceGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Subsystem: subsystem,
			Name:      CurrentSequenceName,
			Help:      "The most recent batch sequence exported.",
		})

	CompletedRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      CompletedRunsName,
			Help:      "Runs that reached the end of their input.",
		})

	FailedRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      FailedRunsName,
			Help:      "Runs aborted by an error.",
		})

	return []prometheus.Collector{
		BatchImportTimeSeconds,
		ImporterTimeSeconds,
		ProcessorTimeSeconds,
		ExporterTimeSeconds,
		ImportedRecordsPerBatch,
		ImportedLinksPerBatch,
		CurrentSequenceGauge,
		CompletedRuns,
		FailedRuns,
	}
}
