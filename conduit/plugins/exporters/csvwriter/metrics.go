package csvwriter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fetchsync/fetchsync/conduit"
)

// bufferedRows is the number of rows waiting to be written.
var bufferedRows = initBufferedRows(conduit.DefaultMetricsPrefix)

func initBufferedRows(subsystem string) prometheus.Gauge {
	return prometheus.NewGauge(
		prometheus.GaugeOpts{
			Subsystem: subsystem,
			Name:      "csv_buffered_rows",
			Help:      "Rows accumulated by the CSV exporter.",
		})
}
