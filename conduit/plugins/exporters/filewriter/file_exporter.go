package filewriter

import (
	"context"
	_ "embed" // used to embed config
	"fmt"
	"os"
	"path"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/plugins"
	"github.com/fetchsync/fetchsync/conduit/plugins/exporters"
	"github.com/fetchsync/fetchsync/data"
	"github.com/fetchsync/fetchsync/util"
)

const (
	exporterName = "file_writer"
	// FilePattern is used to name the output files.
	FilePattern = "%[1]d_batch.json"
)

type fileExporter struct {
	seq    uint64
	cfg    Config
	logger *logrus.Logger
}

//go:embed sample.yaml
var sampleFile string

var metadata = conduit.Metadata{
	Name:         exporterName,
	Description:  "Exporter for writing raw batches to JSON files.",
	Deprecated:   false,
	SampleConfig: sampleFile,
}

func (exp *fileExporter) Metadata() conduit.Metadata {
	return metadata
}

func (exp *fileExporter) Init(_ context.Context, initProvider data.InitProvider, cfg plugins.PluginConfig, logger *logrus.Logger) error {
	exp.logger = logger
	err := cfg.UnmarshalConfig(&exp.cfg)
	if err != nil {
		return fmt.Errorf("connect failure in unmarshalConfig: %w", err)
	}
	if exp.cfg.FilenamePattern == "" {
		exp.cfg.FilenamePattern = FilePattern
	}
	// default to the data directory if no override provided.
	if exp.cfg.BatchesDir == "" {
		exp.cfg.BatchesDir = cfg.DataDir
	}
	if exp.cfg.BatchesDir == "" {
		return fmt.Errorf("Init(): no batch-dir or data directory was provided")
	}
	if err := os.MkdirAll(exp.cfg.BatchesDir, 0755); err != nil {
		return fmt.Errorf("Init() error: %w", err)
	}
	exp.seq = initProvider.NextSequence()
	return nil
}

func (exp *fileExporter) Config() string {
	ret, _ := yaml.Marshal(exp.cfg)
	return string(ret)
}

func (exp *fileExporter) Close() error {
	if exp.logger != nil {
		exp.logger.Infof("latest batch on file: %d", exp.seq)
	}
	return nil
}

func (exp *fileExporter) Receive(exportData data.Batch) error {
	if exp.logger == nil {
		return fmt.Errorf("exporter not initialized")
	}
	if exportData.Sequence() != exp.seq {
		return fmt.Errorf("Receive(): wrong batch: received batch %d, expected batch %d", exportData.Sequence(), exp.seq)
	}

	batchFile := path.Join(exp.cfg.BatchesDir, fmt.Sprintf(exp.cfg.FilenamePattern, exportData.Sequence()))
	err := util.EncodeToFile(batchFile, exportData, true)
	if err != nil {
		return fmt.Errorf("Receive(): failed to write file %s: %w", batchFile, err)
	}
	exp.logger.Infof("Wrote batch %d to %s", exportData.Sequence(), batchFile)

	exp.seq++
	return nil
}

func init() {
	exporters.Register(exporterName, exporters.ExporterConstructorFunc(func() exporters.Exporter {
		return &fileExporter{}
	}))
}
