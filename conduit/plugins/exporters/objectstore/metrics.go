package objectstore

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fetchsync/fetchsync/conduit"
)

// Prometheus metric names.
const (
	DownloadTimeName     = "document_download_time_sec"
	UploadedDocumentName = "uploaded_documents_total"
)

var (
	downloadTimeSeconds = initDownloadTimeSeconds(conduit.DefaultMetricsPrefix)
	uploadedDocuments   = initUploadedDocuments(conduit.DefaultMetricsPrefix)
)

func initDownloadTimeSeconds(subsystem string) prometheus.Summary {
	return prometheus.NewSummary(
		prometheus.SummaryOpts{
			Subsystem: subsystem,
			Name:      DownloadTimeName,
			Help:      "Time spent downloading a document in seconds.",
		})
}

func initUploadedDocuments(subsystem string) prometheus.Counter {
	return prometheus.NewCounter(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      UploadedDocumentName,
			Help:      "Documents stored by the object store exporter.",
		})
}
