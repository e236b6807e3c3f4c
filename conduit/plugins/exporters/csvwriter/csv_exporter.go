package csvwriter

import (
	"context"
	_ "embed" // used to embed config
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/plugins"
	"github.com/fetchsync/fetchsync/conduit/plugins/exporters"
	"github.com/fetchsync/fetchsync/data"
	"github.com/fetchsync/fetchsync/util"
)

const (
	exporterName = "csv_writer"
	// TimestampLayout formats the run start time in the output file name.
	TimestampLayout = "20060102150405"
)

// csvExporter buffers every record of the run and writes a single table once
// the importer is exhausted. Nothing is written when the run aborts.
type csvExporter struct {
	cfg    Config
	logger *logrus.Logger
	start  time.Time
	table  *Table
}

//go:embed sample.yaml
var sampleFile string

var metadata = conduit.Metadata{
	Name:         exporterName,
	Description:  "Exporter accumulating records into one CSV table written at the end of the run.",
	Deprecated:   false,
	SampleConfig: sampleFile,
}

// FileName builds <target-dir>/<filename>_<call-type>_<search-term>_<timestamp>.csv.
// Path separators in the name parts are replaced so the file stays in target-dir.
func FileName(cfg Config, start time.Time) string {
	clean := strings.NewReplacer("/", "-", "\\", "-")
	name := fmt.Sprintf("%s_%s_%s_%s.csv",
		clean.Replace(cfg.Filename),
		clean.Replace(cfg.CallType),
		clean.Replace(cfg.SearchTerm),
		start.Format(TimestampLayout))
	return path.Join(cfg.TargetDir, name)
}

func (exp *csvExporter) Metadata() conduit.Metadata {
	return metadata
}

func (exp *csvExporter) Init(_ context.Context, initProvider data.InitProvider, cfg plugins.PluginConfig, logger *logrus.Logger) error {
	exp.logger = logger
	if err := cfg.UnmarshalConfig(&exp.cfg); err != nil {
		return fmt.Errorf("connect failure in unmarshalConfig: %w", err)
	}
	if exp.cfg.TargetDir == "" {
		exp.cfg.TargetDir = cfg.DataDir
	}
	if exp.cfg.TargetDir == "" {
		return fmt.Errorf("Init(): no target-dir or data directory was provided")
	}
	if exp.cfg.Filename == "" {
		return fmt.Errorf("Init(): filename is required")
	}
	exp.start = initProvider.StartTime()
	exp.table = NewTable()
	return nil
}

func (exp *csvExporter) Config() string {
	ret, _ := yaml.Marshal(exp.cfg)
	return string(ret)
}

func (exp *csvExporter) Close() error {
	return nil
}

func (exp *csvExporter) Receive(exportData data.Batch) error {
	if exp.table == nil {
		return fmt.Errorf("exporter not initialized")
	}
	exp.table.Append(exportData.Records...)
	bufferedRows.Set(float64(exp.table.Len()))
	exp.logger.Infof("batch %d: buffered %d records, %d total", exportData.Sequence(), len(exportData.Records), exp.table.Len())
	return nil
}

// OnFinish writes the accumulated table.
func (exp *csvExporter) OnFinish() error {
	if exp.table == nil {
		return fmt.Errorf("exporter not initialized")
	}
	body, err := exp.table.Encode()
	if err != nil {
		return fmt.Errorf("OnFinish(): %w", err)
	}
	if err := os.MkdirAll(exp.cfg.TargetDir, 0755); err != nil {
		return fmt.Errorf("OnFinish(): %w", err)
	}
	filename := FileName(exp.cfg, exp.start)
	if err := util.WriteFileAtomic(filename, body, 0644); err != nil {
		return fmt.Errorf("OnFinish(): %w", err)
	}
	exp.logger.Infof("Wrote %d rows and %d columns to %s", exp.table.Len(), len(exp.table.Columns()), filename)
	return nil
}

func (exp *csvExporter) ProvideMetrics(subsystem string) []prometheus.Collector {
	bufferedRows = initBufferedRows(subsystem)
	return []prometheus.Collector{
		bufferedRows,
	}
}

func init() {
	exporters.Register(exporterName, exporters.ExporterConstructorFunc(func() exporters.Exporter {
		return &csvExporter{}
	}))
}
