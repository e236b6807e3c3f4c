package objectstore

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
	"github.com/fetchsync/fetchsync/conduit/plugins/exporters"
	"github.com/fetchsync/fetchsync/conduit/plugins/processors/knownset"
	"github.com/fetchsync/fetchsync/data"
	"github.com/fetchsync/fetchsync/objstore"
	"github.com/fetchsync/fetchsync/util"
)

const exporterName = "object_store"

// objectStoreExporter downloads every delta link of a batch into the store,
// then rewrites the known set with every link it saw once the run finishes.
type objectStoreExporter struct {
	ctx    context.Context
	cfg    Config
	logger *logrus.Logger
	client *http.Client
	store  objstore.Store
	links  []string
	stored int
}

//go:embed sample.yaml
var sampleFile string

var metadata = conduit.Metadata{
	Name:         exporterName,
	Description:  "Exporter copying new documents into an object store and recording them in a known set.",
	Deprecated:   false,
	SampleConfig: sampleFile,
}

func (exp *objectStoreExporter) Metadata() conduit.Metadata {
	return metadata
}

func (exp *objectStoreExporter) Init(ctx context.Context, _ data.InitProvider, cfg plugins.PluginConfig, logger *logrus.Logger) error {
	exp.ctx = ctx
	exp.logger = logger
	exp.cfg.NameMarker = DefaultNameMarker
	if err := cfg.UnmarshalConfig(&exp.cfg); err != nil {
		return fmt.Errorf("connect failure in unmarshalConfig: %w", err)
	}
	if exp.cfg.KnownKey == "" {
		exp.cfg.KnownKey = DefaultKnownKey
	}
	if exp.cfg.Folder == "" {
		exp.cfg.Folder = DefaultFolder
	}
	if exp.client == nil {
		exp.client = util.NewHTTPClient(exp.cfg.FetchTimeout)
	}
	if exp.store == nil {
		store, err := objstore.Open(exp.cfg.Store)
		if err != nil {
			return fmt.Errorf("Init(): %w", err)
		}
		exp.store = store
	}
	exp.links = make([]string, 0)
	return nil
}

func (exp *objectStoreExporter) Config() string {
	ret, _ := yaml.Marshal(exp.cfg)
	return string(ret)
}

func (exp *objectStoreExporter) Close() error {
	if exp.logger != nil {
		exp.logger.Infof("stored %d documents", exp.stored)
	}
	return nil
}

// Receive stores each delta link in order. The first failure stops the batch,
// documents stored before it stay in place.
func (exp *objectStoreExporter) Receive(exportData data.Batch) error {
	if exp.store == nil {
		return fmt.Errorf("exporter not initialized")
	}
	for _, link := range exportData.Delta {
		if err := exp.copyDocument(link); err != nil {
			return fmt.Errorf("Receive(): %w", err)
		}
	}
	exp.links = append(exp.links, exportData.Links...)
	return nil
}

func (exp *objectStoreExporter) copyDocument(link string) error {
	name, err := DocumentName(link, exp.cfg.NameMarker)
	if err != nil {
		return err
	}

	start := time.Now()
	body, err := util.FetchURL(exp.ctx, exp.client, link)
	downloadTimeSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}

	key := ObjectKey(exp.cfg.Folder, name)
	if err := exp.store.Put(exp.ctx, key, body, http.DetectContentType(body)); err != nil {
		return fmt.Errorf("storing %s as %s: %w", link, key, err)
	}
	exp.stored++
	uploadedDocuments.Inc()
	exp.logger.Infof("stored %s as %s (%d bytes)", link, key, len(body))
	return nil
}

// OnFinish overwrites the known set with every link observed during the run.
func (exp *objectStoreExporter) OnFinish() error {
	if exp.store == nil {
		return fmt.Errorf("exporter not initialized")
	}
	if err := exp.store.Put(exp.ctx, exp.cfg.KnownKey, knownset.Serialize(exp.links), "text/plain"); err != nil {
		return fmt.Errorf("OnFinish(): rewriting known set %s: %w", exp.cfg.KnownKey, err)
	}
	exp.logger.Infof("known set %s now lists %d entries", exp.cfg.KnownKey, len(exp.links))
	return nil
}

func (exp *objectStoreExporter) ProvideMetrics(subsystem string) []prometheus.Collector {
	downloadTimeSeconds = initDownloadTimeSeconds(subsystem)
	uploadedDocuments = initUploadedDocuments(subsystem)
	return []prometheus.Collector{
		downloadTimeSeconds,
		uploadedDocuments,
	}
}

func init() {
	exporters.Register(exporterName, exporters.ExporterConstructorFunc(func() exporters.Exporter {
		return &objectStoreExporter{}
	}))
}
