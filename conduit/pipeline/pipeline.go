package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/plugins"
	"github.com/fetchsync/fetchsync/conduit/plugins/exporters"
	"github.com/fetchsync/fetchsync/conduit/plugins/importers"
	"github.com/fetchsync/fetchsync/conduit/plugins/processors"
	"github.com/fetchsync/fetchsync/config"
	"github.com/fetchsync/fetchsync/data"
	"github.com/fetchsync/fetchsync/util"
	"github.com/fetchsync/fetchsync/util/metrics"
)

func init() {
	viper.SetConfigType("yaml")
}

// NameConfigPair is a generic structure used across plugin configuration ser/de
type NameConfigPair struct {
	Name   string                 `yaml:"name"`
	Config map[string]interface{} `yaml:"config"`
}

// Metrics configs for turning on Prometheus endpoint /metrics
type Metrics struct {
	Mode   string `yaml:"mode"`
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// Config stores configuration specific to the conduit pipeline
type Config struct {
	ConduitConfig *conduit.Config

	CPUProfile  string `yaml:"cpu-profile"`
	PIDFilePath string `yaml:"pid-filepath"`

	LogFile          string `yaml:"log-file"`
	PipelineLogLevel string `yaml:"log-level"`
	// Store a local copy to access parent variables
	Importer   NameConfigPair   `yaml:"importer"`
	Processors []NameConfigPair `yaml:"processors"`
	Exporter   NameConfigPair   `yaml:"exporter"`
	Metrics    Metrics          `yaml:"metrics"`
}

// Valid validates pipeline config
func (cfg *Config) Valid() error {
	if cfg.ConduitConfig == nil {
		return fmt.Errorf("Config.Valid(): conduit configuration was nil")
	}

	if _, err := log.ParseLevel(cfg.PipelineLogLevel); err != nil {
		return fmt.Errorf("Config.Valid(): pipeline log level (%s) was invalid: %w", cfg.PipelineLogLevel, err)
	}

	if cfg.Importer.Name == "" {
		return fmt.Errorf("Config.Valid(): importer name was empty")
	}

	if cfg.Exporter.Name == "" {
		return fmt.Errorf("Config.Valid(): exporter name was empty")
	}

	if cfg.Metrics.Mode == "ON" && cfg.Metrics.Addr == "" {
		return fmt.Errorf("Config.Valid(): metrics are ON but no address was given")
	}

	return nil
}

// MakePipelineConfig creates a pipeline configuration
func MakePipelineConfig(logger *log.Logger, cfg *conduit.Config) (*Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MakePipelineConfig(): empty conduit config")
	}

	// double check that it is valid
	if err := cfg.Valid(); err != nil {
		return nil, fmt.Errorf("MakePipelineConfig(): %w", err)
	}
	pCfg := Config{PipelineLogLevel: logger.Level.String(), ConduitConfig: cfg}

	// Search for pipeline configuration in data directory
	autoloadParamConfigPath, err := util.GetConfigFromDataDir(cfg.ConduitDataDir, config.FileName, config.FileTypes[:])
	if err != nil {
		return nil, fmt.Errorf("MakePipelineConfig(): %w", err)
	}
	if autoloadParamConfigPath == "" {
		return nil, fmt.Errorf("MakePipelineConfig(): could not find %s in data directory (%s)", conduit.DefaultConfigName, cfg.ConduitDataDir)
	}

	logger.Infof("Auto-loading Conduit Configuration: %s", autoloadParamConfigPath)

	file, err := os.ReadFile(autoloadParamConfigPath)
	if err != nil {
		return nil, fmt.Errorf("MakePipelineConfig(): reading config error: %w", err)
	}
	err = yaml.Unmarshal(file, &pCfg)
	if err != nil {
		return nil, fmt.Errorf("MakePipelineConfig(): config file (%s) was mal-formed yaml: %w", autoloadParamConfigPath, err)
	}

	if err := pCfg.Valid(); err != nil {
		return nil, fmt.Errorf("MakePipelineConfig(): config file (%s) had mal-formed schema: %w", autoloadParamConfigPath, err)
	}

	return &pCfg, nil
}

// Pipeline is a struct that orchestrates the entire
// sequence of events, taking in importers, processors and
// exporters and generating the result
type Pipeline interface {
	Init() error
	Start()
	Stop()
	Error() error
	Wait()
}

type pipelineImpl struct {
	ctx      context.Context
	cf       context.CancelFunc
	wg       sync.WaitGroup
	cfg      *Config
	logger   *log.Logger
	profFile *os.File
	err      error
	mu       sync.RWMutex

	initProvider data.InitProvider

	importer         importers.Importer
	processors       []processors.Processor
	exporter         exporters.Exporter
	completeCallback []conduit.OnCompleteFunc
	finishCallback   []conduit.OnFinishFunc
	metricsCallback  []conduit.ProvideMetricsFunc

	metricsServer *http.Server

	pipelineMetadata state
}

// state is the progress record written to metadata.json. It is informational,
// a new run always begins at the first sequence.
type state struct {
	StartTime    time.Time `json:"start-time"`
	NextSequence uint64    `json:"next-sequence"`
	Finished     bool      `json:"finished"`
}

func (p *pipelineImpl) Error() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

func (p *pipelineImpl) setError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// plugins returns every configured plugin, importer first.
func (p *pipelineImpl) plugins() []interface{} {
	all := []interface{}{p.importer}
	for _, processor := range p.processors {
		all = append(all, processor)
	}
	return append(all, p.exporter)
}

func (p *pipelineImpl) registerLifecycleCallbacks() {
	for _, plugin := range p.plugins() {
		if v, ok := plugin.(conduit.Completed); ok {
			p.completeCallback = append(p.completeCallback, v.OnComplete)
		}
		if v, ok := plugin.(conduit.Finisher); ok {
			p.finishCallback = append(p.finishCallback, v.OnFinish)
		}
	}
}

func (p *pipelineImpl) registerPluginMetricsCallbacks() {
	for _, plugin := range p.plugins() {
		if v, ok := plugin.(conduit.PluginMetrics); ok {
			p.metricsCallback = append(p.metricsCallback, v.ProvideMetrics)
		}
	}
}

func (p *pipelineImpl) pluginConfig(pair NameConfigPair) (plugins.PluginConfig, error) {
	configs, err := yaml.Marshal(pair.Config)
	if err != nil {
		return plugins.PluginConfig{}, fmt.Errorf("could not serialize %s config: %w", pair.Name, err)
	}
	return plugins.PluginConfig{
		DataDir: p.cfg.ConduitConfig.ConduitDataDir,
		Config:  string(configs),
	}, nil
}

// Init prepares the pipeline for processing batches
func (p *pipelineImpl) Init() error {
	p.logger.Infof("Starting Pipeline Initialization")

	if p.cfg.CPUProfile != "" {
		p.logger.Infof("Creating CPU Profile file at %s", p.cfg.CPUProfile)
		profFile, err := os.Create(p.cfg.CPUProfile)
		if err != nil {
			p.logger.WithError(err).Errorf("%s: create, %v", p.cfg.CPUProfile, err)
			return err
		}
		p.profFile = profFile
		err = pprof.StartCPUProfile(profFile)
		if err != nil {
			p.logger.WithError(err).Errorf("%s: start pprof, %v", p.cfg.CPUProfile, err)
			return err
		}
	}

	if p.cfg.PIDFilePath != "" {
		err := util.CreatePidFile(p.logger, p.cfg.PIDFilePath)
		if err != nil {
			return err
		}
	}

	// Initialize Importer
	importerName := p.importer.Metadata().Name
	importerLogger := makePluginLogger(p.logger, plugins.Importer, importerName)
	cfg, err := p.pluginConfig(p.cfg.Importer)
	if err != nil {
		return fmt.Errorf("Pipeline.Init(): %w", err)
	}
	if err := p.importer.Init(p.ctx, cfg, importerLogger); err != nil {
		return fmt.Errorf("Pipeline.Init(): could not initialize importer (%s): %w", importerName, err)
	}
	p.logger.Infof("Initialized Importer: %s", importerName)

	// Every run starts from the beginning of its source.
	p.pipelineMetadata = state{StartTime: time.Now(), NextSequence: 1}
	if p.cfg.ConduitConfig.NextSequenceOverride > 0 {
		p.logger.Infof("Overriding default next sequence from %d to %d.", p.pipelineMetadata.NextSequence, p.cfg.ConduitConfig.NextSequenceOverride)
		p.pipelineMetadata.NextSequence = p.cfg.ConduitConfig.NextSequenceOverride
	}
	p.initProvider = conduit.MakePipelineInitProvider(p.pipelineMetadata.StartTime, &p.pipelineMetadata.NextSequence)

	// Initialize Processors
	for idx, processor := range p.processors {
		processorName := processor.Metadata().Name
		processorLogger := makePluginLogger(p.logger, plugins.Processor, processorName)
		cfg, err := p.pluginConfig(p.cfg.Processors[idx])
		if err != nil {
			return fmt.Errorf("Pipeline.Init(): %w", err)
		}
		if err := processor.Init(p.ctx, p.initProvider, cfg, processorLogger); err != nil {
			return fmt.Errorf("Pipeline.Init(): could not initialize processor (%s): %w", processorName, err)
		}
		p.logger.Infof("Initialized Processor: %s", processorName)
	}

	// Initialize Exporter
	exporterName := p.exporter.Metadata().Name
	exporterLogger := makePluginLogger(p.logger, plugins.Exporter, exporterName)
	cfg, err = p.pluginConfig(p.cfg.Exporter)
	if err != nil {
		return fmt.Errorf("Pipeline.Init(): %w", err)
	}
	if err := p.exporter.Init(p.ctx, p.initProvider, cfg, exporterLogger); err != nil {
		return fmt.Errorf("Pipeline.Init(): could not initialize Exporter (%s): %w", exporterName, err)
	}
	p.logger.Infof("Initialized Exporter: %s", exporterName)

	// Register callbacks.
	p.registerLifecycleCallbacks()

	// start metrics server
	if p.cfg.Metrics.Mode == "ON" {
		prefix := p.cfg.Metrics.Prefix
		if prefix == "" {
			prefix = conduit.DefaultMetricsPrefix
		}
		metrics.RegisterPrometheusMetrics(prefix)
		p.registerPluginMetricsCallbacks()
		for _, cb := range p.metricsCallback {
			for _, c := range cb(prefix) {
				_ = prometheus.Register(c)
			}
		}
		p.startMetricsServer()
	}

	return nil
}

func (p *pipelineImpl) Stop() {
	p.cf()
	p.wg.Wait()

	if p.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := p.metricsServer.Shutdown(ctx); err != nil {
			p.logger.WithError(err).Errorf("Pipeline.Stop(): metrics server shutdown")
		}
		cancel()
	}

	if p.profFile != nil {
		pprof.StopCPUProfile()
		if err := p.profFile.Close(); err != nil {
			p.logger.WithError(err).Errorf("%s: could not close CPUProf file", p.profFile.Name())
		}
	}

	if p.cfg.PIDFilePath != "" {
		if err := os.Remove(p.cfg.PIDFilePath); err != nil {
			p.logger.WithError(err).Errorf("%s: could not remove pid file", p.cfg.PIDFilePath)
		}
	}

	if err := p.importer.Close(); err != nil {
		// Log and continue on closing the rest of the pipeline
		p.logger.Errorf("Pipeline.Stop(): Importer (%s) error on close: %v", p.importer.Metadata().Name, err)
	}

	for _, processor := range p.processors {
		if err := processor.Close(); err != nil {
			// Log and continue on closing the rest of the pipeline
			p.logger.Errorf("Pipeline.Stop(): Processor (%s) error on close: %v", processor.Metadata().Name, err)
		}
	}

	if err := p.exporter.Close(); err != nil {
		p.logger.Errorf("Pipeline.Stop(): Exporter (%s) error on close: %v", p.exporter.Metadata().Name, err)
	}
}

func (p *pipelineImpl) addMetrics(batch data.Batch, batchTime time.Duration) {
	metrics.BatchImportTimeSeconds.Observe(batchTime.Seconds())
	metrics.ImportedRecordsPerBatch.Observe(float64(len(batch.Records)))
	metrics.ImportedLinksPerBatch.Observe(float64(len(batch.Links)))
	metrics.CurrentSequenceGauge.Set(float64(batch.Sequence()))
}

// runBatch pushes a single batch through the processors and the exporter.
func (p *pipelineImpl) runBatch(seq uint64) error {
	importStart := time.Now()
	batch, err := p.importer.GetBatch(seq)
	if err != nil {
		return err
	}
	metrics.ImporterTimeSeconds.Observe(time.Since(importStart).Seconds())

	start := time.Now()
	for _, proc := range p.processors {
		processorStart := time.Now()
		batch, err = proc.Process(batch)
		if err != nil {
			return fmt.Errorf("processor (%s) failed on batch %d: %w", proc.Metadata().Name, seq, err)
		}
		metrics.ProcessorTimeSeconds.WithLabelValues(proc.Metadata().Name).Observe(time.Since(processorStart).Seconds())
	}

	exporterStart := time.Now()
	if err := p.exporter.Receive(batch); err != nil {
		return fmt.Errorf("exporter (%s) failed on batch %d: %w", p.exporter.Metadata().Name, seq, err)
	}
	metrics.ExporterTimeSeconds.Observe(time.Since(exporterStart).Seconds())

	for _, cb := range p.completeCallback {
		if err := cb(batch); err != nil {
			return fmt.Errorf("completion callback failed on batch %d: %w", seq, err)
		}
	}
	p.addMetrics(batch, time.Since(start))
	return nil
}

// finish runs the end-of-input callbacks in registration order.
func (p *pipelineImpl) finish() error {
	for _, cb := range p.finishCallback {
		if err := cb(); err != nil {
			return fmt.Errorf("finish callback failed: %w", err)
		}
	}
	return nil
}

func (p *pipelineImpl) abort(err error) {
	p.logger.Errorf("%v", err)
	p.setError(err)
	metrics.FailedRuns.Inc()
}

// Start pushes batches through the pipeline until the importer runs dry or
// the first error occurs.
func (p *pipelineImpl) Start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		// We need to add a separate recover function here since it launches its own go-routine
		defer HandlePanic(p.logger, p.setError)
		for {
			select {
			case <-p.ctx.Done():
				p.abort(fmt.Errorf("Pipeline.Start(): run interrupted at batch %d: %w", p.pipelineMetadata.NextSequence, p.ctx.Err()))
				return
			default:
			}

			seq := p.pipelineMetadata.NextSequence
			p.logger.Infof("Pipeline batch: %d", seq)
			err := p.runBatch(seq)
			if errors.Is(err, importers.ErrNoMoreBatches) {
				p.logger.Infof("Importer exhausted after %d batch(es)", seq-1)
				if err := p.finish(); err != nil {
					p.abort(fmt.Errorf("Pipeline.Start(): %w", err))
					return
				}
				p.pipelineMetadata.Finished = true
				p.saveMetadata()
				metrics.CompletedRuns.Inc()
				return
			}
			if err != nil {
				p.abort(fmt.Errorf("Pipeline.Start(): %w", err))
				return
			}

			p.pipelineMetadata.NextSequence++
			p.saveMetadata()
		}
	}()
}

func (p *pipelineImpl) Wait() {
	p.wg.Wait()
}

func metadataPath(dataDir string) string {
	return path.Join(dataDir, "metadata.json")
}

// saveMetadata writes the progress record when the pipeline owns a data dir.
func (p *pipelineImpl) saveMetadata() {
	if p.cfg.ConduitConfig.ConduitDataDir == "" {
		return
	}
	if err := p.encodeMetadataToFile(); err != nil {
		p.logger.WithError(err).Warn("could not record pipeline progress")
	}
}

func (p *pipelineImpl) encodeMetadataToFile() error {
	pipelineMetadataFilePath := metadataPath(p.cfg.ConduitConfig.ConduitDataDir)
	if err := util.EncodeToFile(pipelineMetadataFilePath, p.pipelineMetadata, false); err != nil {
		return fmt.Errorf("encodeMetadataToFile(): %w", err)
	}
	return nil
}

// start a http server serving /metrics
func (p *pipelineImpl) startMetricsServer() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	p.metricsServer = &http.Server{
		Addr:              p.cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		p.logger.Infof("conduit metrics serving on %s", p.cfg.Metrics.Addr)
		if err := p.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.logger.WithError(err).Error("metrics server stopped")
		}
	}()
}

// MakePipeline creates a Pipeline
func MakePipeline(ctx context.Context, cfg *Config, logger *log.Logger) (Pipeline, error) {

	if cfg == nil {
		return nil, fmt.Errorf("MakePipeline(): pipeline config was empty")
	}

	if err := cfg.Valid(); err != nil {
		return nil, fmt.Errorf("MakePipeline(): %w", err)
	}

	if logger == nil {
		return nil, fmt.Errorf("MakePipeline(): logger was empty")
	}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
		if err != nil {
			return nil, fmt.Errorf("MakePipeline(): %w", err)
		}
		logger.SetOutput(f)
	}

	logLevel, err := log.ParseLevel(cfg.PipelineLogLevel)
	if err != nil {
		// Belt and suspenders.  Valid() should have caught this
		return nil, fmt.Errorf("MakePipeline(): config had mal-formed log level: %w", err)
	}
	logger.SetLevel(logLevel)

	cancelContext, cancelFunc := context.WithCancel(ctx)

	pipeline := &pipelineImpl{
		ctx:        cancelContext,
		cf:         cancelFunc,
		cfg:        cfg,
		logger:     logger,
		processors: []processors.Processor{},
	}

	importerName := cfg.Importer.Name

	importerBuilder, err := importers.ImporterBuilderByName(importerName)
	if err != nil {
		return nil, fmt.Errorf("MakePipeline(): could not find importer builder with name: %s", importerName)
	}

	pipeline.importer = importerBuilder.New()
	logger.Infof("Found Importer: %s", importerName)

	// ---

	for _, processorConfig := range cfg.Processors {
		processorName := processorConfig.Name

		processorBuilder, err := processors.ProcessorBuilderByName(processorName)
		if err != nil {
			return nil, fmt.Errorf("MakePipeline(): could not find processor builder with name: %s", processorName)
		}

		pipeline.processors = append(pipeline.processors, processorBuilder.New())
		logger.Infof("Found Processor: %s", processorName)
	}

	// ---

	exporterName := cfg.Exporter.Name

	exporterBuilder, err := exporters.ExporterBuilderByName(exporterName)
	if err != nil {
		return nil, fmt.Errorf("MakePipeline(): could not find exporter builder with name: %s", exporterName)
	}

	pipeline.exporter = exporterBuilder.New()
	logger.Infof("Found Exporter: %s", exporterName)

	return pipeline, nil
}
