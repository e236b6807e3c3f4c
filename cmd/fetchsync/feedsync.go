package main

import (
	"github.com/spf13/cobra"

	"github.com/fetchsync/fetchsync/conduit/pipeline"
	"github.com/fetchsync/fetchsync/conduit/plugins/exporters/objectstore"
	feedimporter "github.com/fetchsync/fetchsync/conduit/plugins/importers/feed"
	"github.com/fetchsync/fetchsync/conduit/plugins/processors/knownset"
	"github.com/fetchsync/fetchsync/config"
	"github.com/fetchsync/fetchsync/objstore"
)

type feedSyncOptions struct {
	feedURL    string
	mode       string
	store      objstore.Config
	knownKey   string
	folder     string
	nameMarker string
	logLevel   string
	logFile    string
}

// pipelineConfig wires feed -> known_set -> object_store. Both store plugins
// share the same store settings.
func (opts feedSyncOptions) pipelineConfig() (*pipeline.Config, error) {
	importer, err := namedConfig("feed", feedimporter.Config{
		URL:  opts.feedURL,
		Mode: opts.mode,
	})
	if err != nil {
		return nil, err
	}
	known, err := namedConfig("known_set", knownset.Config{
		Store:    opts.store,
		KnownKey: opts.knownKey,
	})
	if err != nil {
		return nil, err
	}
	exporter, err := namedConfig("object_store", objectstore.Config{
		Store:      opts.store,
		KnownKey:   opts.knownKey,
		Folder:     opts.folder,
		NameMarker: opts.nameMarker,
	})
	if err != nil {
		return nil, err
	}
	return inMemoryConfig(opts.logLevel, importer, []pipeline.NameConfigPair{known}, exporter), nil
}

func runFeedSync(opts feedSyncOptions) error {
	if err := configureLogger(opts.logLevel, opts.logFile); err != nil {
		return err
	}
	pCfg, err := opts.pipelineConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	return runPipeline(ctx, pCfg)
}

func makeFeedSyncCmd() *cobra.Command {
	var opts feedSyncOptions
	cmd := &cobra.Command{
		Use:   "feedsync",
		Short: "copy documents that are new in a feed into an object store",
		Long: `Reads the known set of already copied links from the object store, fetches
the feed, downloads every link that isn't known yet into <folder>/<name> and
finally rewrites the known set with every link of the feed.

Every flag can be set with a FETCHSYNC_<FLAG> environment variable, e.g.
` + config.EnvName("bucket") + `.`,
		Example: "fetchsync feedsync --bucket my-bucket --credentials-file ~/.aws/credentials",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.BindFlagSet(cmd.Flags())
			return runFeedSync(opts)
		},
		SilenceUsage: true,
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.feedURL, "feed-url", feedimporter.DefaultURL, "RSS or Atom feed listing the documents")
	flags.StringVar(&opts.mode, "mode", feedimporter.ModeRSS, "entry extraction: \"rss\" parses the feed, \"markers\" scans for literal link markers")
	flags.StringVar(&opts.store.Kind, "store", objstore.KindS3, "object store backend: \"s3\" or \"file\"")
	flags.StringVar(&opts.store.Dir, "store-dir", "", "root directory of the \"file\" store")
	flags.StringVar(&opts.store.Bucket, "bucket", "", "S3 bucket")
	flags.StringVar(&opts.store.Region, "region", objstore.DefaultRegion, "S3 region")
	flags.StringVar(&opts.store.Endpoint, "endpoint", "", "S3 compatible endpoint, path style addressing is used when set")
	flags.StringVar(&opts.store.CredentialsFile, "credentials-file", "", "AWS shared credentials file, the SDK default chain is used when empty")
	flags.StringVar(&opts.store.Profile, "profile", objstore.DefaultProfile, "section of the credentials file")
	flags.StringVar(&opts.knownKey, "known-key", knownset.DefaultKnownKey, "key of the newline delimited list of copied links")
	flags.StringVar(&opts.folder, "folder", objectstore.DefaultFolder, "key prefix of the copied documents")
	flags.StringVar(&opts.nameMarker, "name-marker", objectstore.DefaultNameMarker, "document names are the text after this marker in the link")
	flags.StringVarP(&opts.logLevel, "log-level", "l", "info", "verbosity of logs: [error, warn, info, debug, trace]")
	flags.StringVarP(&opts.logFile, "log-file", "f", "", "file to write logs to, if unset logs are written to standard out")
	return cmd
}
