package fileimporter

import (
	"context"
	_ "embed" // used to embed config
	"errors"
	"fmt"
	"io/fs"
	"path"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/plugins"
	"github.com/fetchsync/fetchsync/conduit/plugins/exporters/filewriter"
	"github.com/fetchsync/fetchsync/conduit/plugins/importers"
	"github.com/fetchsync/fetchsync/data"
	"github.com/fetchsync/fetchsync/util"
)

const importerName = "file_reader"

type fileReader struct {
	logger *logrus.Logger
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc
}

// New initializes a file importer
func New() importers.Importer {
	return &fileReader{}
}

//go:embed sample.yaml
var sampleConfig string

var metadata = conduit.Metadata{
	Name:         importerName,
	Description:  "Importer replaying batches from files in a directory created by the 'file_writer' plugin.",
	Deprecated:   false,
	SampleConfig: sampleConfig,
}

func (r *fileReader) Metadata() conduit.Metadata {
	return metadata
}

// package-wide init function
func init() {
	importers.Register(importerName, importers.ImporterConstructorFunc(func() importers.Importer {
		return &fileReader{}
	}))
}

func (r *fileReader) Init(ctx context.Context, cfg plugins.PluginConfig, logger *logrus.Logger) error {
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.logger = logger
	err := cfg.UnmarshalConfig(&r.cfg)
	if err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	if r.cfg.FilenamePattern == "" {
		r.cfg.FilenamePattern = filewriter.FilePattern
	}
	if r.cfg.BatchesDir == "" {
		r.cfg.BatchesDir = cfg.DataDir
	}
	if !util.IsDir(r.cfg.BatchesDir) {
		return fmt.Errorf("Init(): batch directory (%s) was not valid", r.cfg.BatchesDir)
	}
	return nil
}

func (r *fileReader) Config() string {
	s, _ := yaml.Marshal(r.cfg)
	return string(s)
}

func (r *fileReader) Close() error {
	if r.cancel != nil {
		r.cancel()
	}
	return nil
}

// GetBatch reads the file for seq. A file still missing after the configured
// retries marks the end of the input.
func (r *fileReader) GetBatch(seq uint64) (data.Batch, error) {
	attempts := r.cfg.RetryCount
	for {
		filename := path.Join(r.cfg.BatchesDir, fmt.Sprintf(r.cfg.FilenamePattern, seq))
		var batch data.Batch
		start := time.Now()
		err := util.DecodeFromFile(filename, &batch)
		if err != nil && errors.Is(err, fs.ErrNotExist) {
			// If the file read failed because the file didn't exist, wait before trying again
			if attempts == 0 {
				r.logger.Infof("batch %d not found after (%d) attempts, input exhausted", seq, r.cfg.RetryCount)
				return data.Batch{}, importers.ErrNoMoreBatches
			}
			attempts--

			select {
			case <-time.After(r.cfg.RetryDuration):
			case <-r.ctx.Done():
				return data.Batch{}, fmt.Errorf("GetBatch() context finished: %w", r.ctx.Err())
			}
		} else if err != nil {
			// Other error, return error to pipeline
			return data.Batch{}, fmt.Errorf("GetBatch(): unable to read batch file '%s': %w", filename, err)
		} else {
			r.logger.Infof("Batch %d read time: %s", seq, time.Since(start))
			batch.Seq = seq
			return batch, nil
		}
	}
}
