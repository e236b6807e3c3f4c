package feedimporter

import (
	"context"
	_ "embed" // used to embed config
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/plugins"
	"github.com/fetchsync/fetchsync/conduit/plugins/importers"
	"github.com/fetchsync/fetchsync/data"
	"github.com/fetchsync/fetchsync/util"
)

const importerName = "feed"

const (
	// ModeRSS parses the feed.
	ModeRSS = "rss"
	// ModeMarkers scans the raw feed text for literal markers.
	ModeMarkers = "markers"
)

// Defaults for the Federal Reserve speeches feed.
const (
	DefaultURL         = "https://www.federalreserve.gov/feeds/speeches.xml"
	DefaultOpenMarker  = "<link><![CDATA["
	DefaultCloseMarker = "]]></link>"
)

type feedImporter struct {
	client *http.Client
	logger *logrus.Logger
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc
}

//go:embed sample.yaml
var sampleConfig string

var metadata = conduit.Metadata{
	Name:         importerName,
	Description:  "Importer producing one batch with the entry links of a remote feed.",
	Deprecated:   false,
	SampleConfig: sampleConfig,
}

// New initializes a feed importer
func New() importers.Importer {
	return &feedImporter{}
}

func (imp *feedImporter) Metadata() conduit.Metadata {
	return metadata
}

// package-wide init function
func init() {
	importers.Register(importerName, importers.ImporterConstructorFunc(func() importers.Importer {
		return &feedImporter{}
	}))
}

func (imp *feedImporter) Init(ctx context.Context, cfg plugins.PluginConfig, logger *logrus.Logger) error {
	imp.ctx, imp.cancel = context.WithCancel(ctx)
	imp.logger = logger
	if err := cfg.UnmarshalConfig(&imp.cfg); err != nil {
		return fmt.Errorf("connect failure in unmarshalConfig: %v", err)
	}

	if imp.cfg.URL == "" {
		imp.cfg.URL = DefaultURL
	}
	switch imp.cfg.Mode {
	case "":
		imp.cfg.Mode = ModeRSS
	case ModeRSS:
	case ModeMarkers:
		if imp.cfg.OpenMarker == "" {
			imp.cfg.OpenMarker = DefaultOpenMarker
		}
		if imp.cfg.CloseMarker == "" {
			imp.cfg.CloseMarker = DefaultCloseMarker
		}
	default:
		return fmt.Errorf("feed importer was set to a mode (%s) that wasn't supported", imp.cfg.Mode)
	}
	if imp.client == nil {
		imp.client = util.NewHTTPClient(imp.cfg.Timeout)
	}
	return nil
}

func (imp *feedImporter) Config() string {
	s, _ := yaml.Marshal(imp.cfg)
	return string(s)
}

func (imp *feedImporter) Close() error {
	if imp.cancel != nil {
		imp.cancel()
	}
	return nil
}

// GetBatch fetches the feed for the first sequence; a feed is a single batch.
func (imp *feedImporter) GetBatch(seq uint64) (data.Batch, error) {
	if seq != 1 {
		return data.Batch{}, importers.ErrNoMoreBatches
	}

	start := time.Now()
	body, err := util.FetchURL(imp.ctx, imp.client, imp.cfg.URL)
	getFeedTimeSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		return data.Batch{}, fmt.Errorf("GetBatch(): %w", err)
	}

	var entries []string
	if imp.cfg.Mode == ModeMarkers {
		entries, err = ExtractBetweenMarkers(string(body), imp.cfg.OpenMarker, imp.cfg.CloseMarker)
	} else {
		entries, err = ExtractItemLinks(string(body))
	}
	if err != nil {
		return data.Batch{}, fmt.Errorf("GetBatch(): %s: %w", imp.cfg.URL, err)
	}

	links := dedupe(entries)
	if len(links) != len(entries) {
		imp.logger.Infof("dropped %d duplicate feed entries", len(entries)-len(links))
	}
	imp.logger.Infof("feed %s lists %d entries", imp.cfg.URL, len(links))
	return data.Batch{Seq: seq, Links: links}, nil
}

func (imp *feedImporter) ProvideMetrics(subsystem string) []prometheus.Collector {
	getFeedTimeSeconds = initGetFeedTimeSeconds(subsystem)
	return []prometheus.Collector{
		getFeedTimeSeconds,
	}
}
