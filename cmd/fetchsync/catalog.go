package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fetchsync/fetchsync/conduit/pipeline"
	"github.com/fetchsync/fetchsync/conduit/plugins/exporters/csvwriter"
	"github.com/fetchsync/fetchsync/conduit/plugins/importers"
	"github.com/fetchsync/fetchsync/conduit/plugins/importers/marketplace"
	"github.com/fetchsync/fetchsync/config"
)

type catalogOptions struct {
	targetDir  string
	filename   string
	callType   string
	searchTerm string

	appID      string
	pageBudget uint64
	endpoint   string
	logLevel   string
	logFile    string
}

// pipelineConfig wires marketplace -> flatten -> csv_writer.
func (opts catalogOptions) pipelineConfig() (*pipeline.Config, error) {
	importer, err := namedConfig("marketplace", marketplace.Config{
		AppID:      opts.appID,
		CallType:   opts.callType,
		Keywords:   opts.searchTerm,
		PageBudget: opts.pageBudget,
		Endpoint:   opts.endpoint,
	})
	if err != nil {
		return nil, err
	}
	flatten, err := namedConfig("flatten", nil)
	if err != nil {
		return nil, err
	}
	exporter, err := namedConfig("csv_writer", csvwriter.Config{
		TargetDir:  opts.targetDir,
		Filename:   opts.filename,
		CallType:   opts.callType,
		SearchTerm: opts.searchTerm,
	})
	if err != nil {
		return nil, err
	}
	return inMemoryConfig(opts.logLevel, importer, []pipeline.NameConfigPair{flatten}, exporter), nil
}

func runCatalog(opts catalogOptions) error {
	if err := configureLogger(opts.logLevel, opts.logFile); err != nil {
		return err
	}
	pCfg, err := opts.pipelineConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	err = runPipeline(ctx, pCfg)

	var connErr *importers.ConnectionError
	if errors.As(err, &connErr) {
		// An unreachable search service is reported but isn't a failed run.
		logger.WithError(connErr).Errorf("could not connect to %s, no table was written", connErr.Source)
		return nil
	}
	return err
}

func makeCatalogCmd() *cobra.Command {
	var opts catalogOptions
	cmd := &cobra.Command{
		Use:   "catalog <target_dir> <filename> <call_type> <search_term>",
		Short: "export marketplace search results to a CSV table",
		Long: fmt.Sprintf(`Pages through a marketplace search, flattens the nested listing fields and
writes every listing to <target_dir>/<filename>_<call_type>_<search_term>_<YYYYmmddHHMMSS>.csv.

call_type is one of %v. Flags can be set with FETCHSYNC_<FLAG> environment
variables, e.g. %s.`, marketplace.SupportedCallTypes, config.EnvName("app-id")),
		Example: `fetchsync catalog ./out ebay findCompletedItems "film camera" --app-id MyApp-1234`,
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.BindFlagSet(cmd.Flags())
			if opts.pageBudget == 0 {
				return fmt.Errorf("--page-budget must be at least 1")
			}
			opts.targetDir, opts.filename, opts.callType, opts.searchTerm = args[0], args[1], args[2], args[3]
			return runCatalog(opts)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&opts.appID, "app-id", "", "application id issued by the marketplace developer program")
	cmd.Flags().Uint64Var(&opts.pageBudget, "page-budget", marketplace.DefaultPageBudget, "maximum number of result pages to fetch, at least 1")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "override the search service URL")
	cmd.Flags().StringVarP(&opts.logLevel, "log-level", "l", "info", "verbosity of logs: [error, warn, info, debug, trace]")
	cmd.Flags().StringVarP(&opts.logFile, "log-file", "f", "", "file to write logs to, if unset logs are written to standard out")
	return cmd
}
