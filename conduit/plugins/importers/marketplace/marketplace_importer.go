package marketplace

import (
	"context"
	_ "embed" // used to embed config
	"errors"
	"fmt"
	"net/http"
	"strings"
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

const importerName = "marketplace"

// DefaultPageBudget is the page cap when the configuration has none.
const DefaultPageBudget = 100

type marketplaceImporter struct {
	client *http.Client
	logger *logrus.Logger
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc

	request    searchRequest
	totalPages uint64
	firstPage  []data.Record
	// firstServed is set once the page fetched by Init was handed out.
	firstServed bool
}

//go:embed sample.yaml
var sampleConfig string

var marketplaceImporterMetadata = conduit.Metadata{
	Name:         importerName,
	Description:  "Importer paging through a marketplace Finding API search.",
	Deprecated:   false,
	SampleConfig: sampleConfig,
}

// New initializes a marketplace importer
func New() importers.Importer {
	return &marketplaceImporter{}
}

func (imp *marketplaceImporter) Metadata() conduit.Metadata {
	return marketplaceImporterMetadata
}

// package-wide init function
func init() {
	importers.Register(importerName, importers.ImporterConstructorFunc(func() importers.Importer {
		return &marketplaceImporter{}
	}))
}

func (imp *marketplaceImporter) Init(ctx context.Context, cfg plugins.PluginConfig, logger *logrus.Logger) error {
	imp.ctx, imp.cancel = context.WithCancel(ctx)
	imp.logger = logger
	if err := cfg.UnmarshalConfig(&imp.cfg); err != nil {
		return fmt.Errorf("connect failure in unmarshalConfig: %v", err)
	}

	if imp.cfg.AppID == "" {
		return fmt.Errorf("marketplace importer requires an app-id")
	}
	if !supported(imp.cfg.CallType) {
		return fmt.Errorf("marketplace importer call-type (%s) is not one of %s", imp.cfg.CallType, strings.Join(SupportedCallTypes, ", "))
	}
	if imp.cfg.Keywords == "" {
		return fmt.Errorf("marketplace importer requires keywords")
	}
	if imp.cfg.PageBudget == 0 {
		imp.cfg.PageBudget = DefaultPageBudget
	}
	if imp.cfg.Endpoint == "" {
		imp.cfg.Endpoint = DefaultEndpoint
	}
	if imp.client == nil {
		imp.client = util.NewHTTPClient(imp.cfg.Timeout)
	}

	imp.request = searchRequest{Keywords: imp.cfg.Keywords, PageNumber: 1}
	page, err := imp.fetch()
	if err != nil {
		var transportErr *util.TransportError
		if errors.As(err, &transportErr) {
			return &importers.ConnectionError{Source: imp.cfg.Endpoint, Err: transportErr.Err}
		}
		return fmt.Errorf("Init(): first page: %w", err)
	}
	imp.totalPages = page.TotalPages
	imp.firstPage = page.Items
	imp.logger.Infof("%s for %q reports %d page(s), fetching %d", imp.cfg.CallType, imp.cfg.Keywords, imp.totalPages, imp.lastPage())
	return nil
}

func (imp *marketplaceImporter) Config() string {
	s, _ := yaml.Marshal(imp.cfg)
	return string(s)
}

func (imp *marketplaceImporter) Close() error {
	if imp.cancel != nil {
		imp.cancel()
	}
	return nil
}

// lastPage is the number of pages the run will serve.
func (imp *marketplaceImporter) lastPage() uint64 {
	if imp.totalPages < imp.cfg.PageBudget {
		return imp.totalPages
	}
	return imp.cfg.PageBudget
}

// fetch issues the current search request.
func (imp *marketplaceImporter) fetch() (resultPage, error) {
	u, err := buildURL(imp.cfg, imp.request)
	if err != nil {
		return resultPage{}, err
	}
	start := time.Now()
	body, err := util.FetchURL(imp.ctx, imp.client, u)
	getPageTimeSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		return resultPage{}, err
	}
	return decodePage(imp.cfg.CallType, body)
}

// GetBatch returns page seq of the search results.
func (imp *marketplaceImporter) GetBatch(seq uint64) (data.Batch, error) {
	if seq == 0 || seq > imp.lastPage() {
		return data.Batch{}, importers.ErrNoMoreBatches
	}
	if seq == 1 && !imp.firstServed {
		imp.firstServed = true
		records := imp.firstPage
		imp.firstPage = nil
		return data.Batch{Seq: seq, Records: records}, nil
	}

	imp.request.PageNumber = seq
	imp.logger.Infof("fetching page %d of %d", seq, imp.lastPage())
	page, err := imp.fetch()
	if err != nil {
		return data.Batch{}, fmt.Errorf("GetBatch(): page %d: %w", seq, err)
	}
	return data.Batch{Seq: seq, Records: page.Items}, nil
}

func (imp *marketplaceImporter) ProvideMetrics(subsystem string) []prometheus.Collector {
	getPageTimeSeconds = initGetPageTimeSeconds(subsystem)
	return []prometheus.Collector{
		getPageTimeSeconds,
	}
}
