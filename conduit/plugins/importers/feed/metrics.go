package feedimporter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fetchsync/fetchsync/conduit"
)

// getFeedTimeSeconds is used to record how long it took to fetch the feed.
var getFeedTimeSeconds = initGetFeedTimeSeconds(conduit.DefaultMetricsPrefix)

func initGetFeedTimeSeconds(subsystem string) prometheus.Summary {
	return prometheus.NewSummary(
		prometheus.SummaryOpts{
			Subsystem: subsystem,
			Name:      "get_feed_time_sec",
			Help:      "Total response time of the feed endpoint in seconds.",
		})
}
