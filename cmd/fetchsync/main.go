package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fetchsync/fetchsync/cmd/fetchsync/internal/initialize"
	"github.com/fetchsync/fetchsync/cmd/fetchsync/internal/list"
	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/pipeline"
	"github.com/fetchsync/fetchsync/config"
	"github.com/fetchsync/fetchsync/loggers"
	"github.com/fetchsync/fetchsync/version"
)

import (
	// We need to import these so that the package wide init() function gets called
	_ "github.com/fetchsync/fetchsync/conduit/plugins/exporters/all"
	_ "github.com/fetchsync/fetchsync/conduit/plugins/importers/all"
	_ "github.com/fetchsync/fetchsync/conduit/plugins/processors/all"
)

var (
	loggerManager *loggers.LoggerManager
	logger        *log.Logger
)

// init() function for main package
func init() {
	loggerManager = loggers.MakeLoggerManager(os.Stdout)
	// the root logger is reconfigured by each command once its flags are parsed
	logger, _ = loggerManager.MakeRootLogger(log.InfoLevel, "")
}

// configureLogger applies the log level and log file flags to the root logger.
func configureLogger(level, logFile string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("configureLogger(): %w", err)
	}
	l, err := loggerManager.MakeRootLogger(lvl, logFile)
	if err != nil {
		return fmt.Errorf("configureLogger(): %w", err)
	}
	logger = l
	return nil
}

// runPipeline builds the pipeline described by pCfg and blocks until it is done.
func runPipeline(ctx context.Context, pCfg *pipeline.Config) error {
	p, err := pipeline.MakePipeline(ctx, pCfg, logger)
	if err != nil {
		return fmt.Errorf("pipeline creation error: %w", err)
	}
	// Make sure to call this so we can shutdown if there is an error
	defer p.Stop()

	if err := p.Init(); err != nil {
		return fmt.Errorf("pipeline init error: %w", err)
	}
	p.Start()
	p.Wait()
	return p.Error()
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runConduitCmdWithConfig run the main logic with a supplied conduit config
func runConduitCmdWithConfig(cfg *conduit.Config, logLevel, logFile string) error {
	config.BindFlagSet(cfg.Flags)
	if err := configureLogger(logLevel, logFile); err != nil {
		return err
	}

	logger.Info(cfg)

	if err := cfg.Valid(); err != nil {
		return err
	}

	pCfg, err := pipeline.MakePipelineConfig(logger, cfg)
	if err != nil {
		return err
	}

	logger.Info("Conduit configuration is valid")

	ctx, cancel := signalContext()
	defer cancel()
	return runPipeline(ctx, pCfg)
}

// makeRunCmd runs a pipeline described by a data directory.
func makeRunCmd() *cobra.Command {
	cfg := &conduit.Config{}
	var logLevel, logFile string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run the pipeline described by a data directory",
		Long:  "run the pipeline described by <data-dir>/" + conduit.DefaultConfigName + ".",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConduitCmdWithConfig(cfg, logLevel, logFile)
		},
		SilenceUsage: true,
	}

	cfg.Flags = cmd.Flags()
	cfg.Flags.StringVarP(&cfg.ConduitDataDir, "data-dir", "d", "", "set the data directory for the pipeline")
	cfg.Flags.Uint64VarP(&cfg.NextSequenceOverride, "next-sequence-override", "r", 0, "set the starting sequence. Overrides the default of 1.")
	cfg.Flags.StringVarP(&logLevel, "log-level", "l", "info", "verbosity of logs: [error, warn, info, debug, trace]")
	cfg.Flags.StringVarP(&logFile, "log-file", "f", "", "file to write logs to, if unset logs are written to standard out")
	return cmd
}

func rootCmd() *cobra.Command {
	var doVersion bool
	cmd := &cobra.Command{
		Use:   "fetchsync",
		Short: "fetch remote listings and documents into local tables and object storage",
		Long: `fetchsync runs small import pipelines. "catalog" pages through a marketplace
search and writes a CSV table, "feedsync" copies new documents of a feed into
an object store, and "run" executes any pipeline described in a data directory.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if doVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.LongVersion())
				return
			}
			//If no arguments passed, we should fallback to help
			cmd.HelpFunc()(cmd, args)
		},
		SilenceUsage: true,
		// the error is logged by main
		SilenceErrors: true,
	}
	cmd.Flags().BoolVarP(&doVersion, "version", "v", false, "print version and exit")

	cmd.AddCommand(makeRunCmd())
	cmd.AddCommand(makeCatalogCmd())
	cmd.AddCommand(makeFeedSyncCmd())
	cmd.AddCommand(initialize.InitCommand)
	cmd.AddCommand(list.Command)
	return cmd
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	os.Exit(0)
}
