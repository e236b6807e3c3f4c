package marketplace

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fetchsync/fetchsync/conduit"
)

// getPageTimeSeconds is used to record how long it took to fetch a page.
var getPageTimeSeconds = initGetPageTimeSeconds(conduit.DefaultMetricsPrefix)

func initGetPageTimeSeconds(subsystem string) prometheus.Summary {
	return prometheus.NewSummary(
		prometheus.SummaryOpts{
			Subsystem: subsystem,
			Name:      "get_marketplace_page_time_sec",
			Help:      "Total response time from the marketplace search endpoint in seconds.",
		})
}
