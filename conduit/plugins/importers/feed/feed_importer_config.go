package feedimporter

import "time"

//Name: conduit_importers_feed

// Config specific to the feed importer
type Config struct {
	// <code>url</code> of the RSS or Atom feed.
	URL string `yaml:"url"`
	// <code>mode</code> is "rss" to take item links from the parsed feed, or
	// "markers" to scan the raw text between open-marker and close-marker.
	Mode string `yaml:"mode"`
	// <code>open-marker</code> precedes each entry in markers mode.
	OpenMarker string `yaml:"open-marker"`
	// <code>close-marker</code> follows each entry in markers mode.
	CloseMarker string `yaml:"close-marker"`
	// <code>timeout</code> bounds the feed request.
	Timeout time.Duration `yaml:"timeout"`
}
