package initialize

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/pipeline"
)

// InitCommand is the init command to embed in a root cobra command.
var InitCommand = makeInitCmd()

const defaultDataDirectory = "data"

// Plugins used when no flag selects others.
const (
	defaultImporter = "marketplace"
	defaultExporter = "csv_writer"
)

var defaultProcessors = []string{"flatten"}

//go:embed fetchsync.yml.example
var sampleConfig string

// indent prefixes every non empty line of obj with prefix.
func indent(obj, prefix string) string {
	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimRight(obj, "\n"), "\n") {
		if line != "" {
			sb.WriteString(prefix)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatArrayObject(obj string) string {
	var ret string
	lines := strings.Split(strings.TrimRight(obj, "\n"), "\n")
	for i, line := range lines {
		if i == 0 {
			ret += "  - "
		} else if line != "" {
			ret += "    "
		}
		ret += line + "\n"
	}
	return ret
}

func sampleFor(name string, plugins []conduit.Metadata) (string, bool) {
	for _, metadata := range plugins {
		if metadata.Name == name {
			return metadata.SampleConfig, true
		}
	}
	return "", false
}

// renderConfig assembles a pipeline file from the sample configs of the selected plugins.
func renderConfig(importerFlag string, processorsFlag []string, exporterFlag string) (string, error) {
	if importerFlag == "" {
		importerFlag = defaultImporter
	}
	importer, ok := sampleFor(importerFlag, pipeline.ImporterMetadata())
	if !ok {
		return "", fmt.Errorf("runConduitInit(): unknown importer name: %v", importerFlag)
	}

	if exporterFlag == "" {
		exporterFlag = defaultExporter
	}
	exporter, ok := sampleFor(exporterFlag, pipeline.ExporterMetadata())
	if !ok {
		return "", fmt.Errorf("runConduitInit(): unknown exporter name: %v", exporterFlag)
	}

	var processors string
	for _, processorName := range processorsFlag {
		sample, ok := sampleFor(processorName, pipeline.ProcessorMetadata())
		if !ok {
			return "", fmt.Errorf("runConduitInit(): unknown processor name: %v", processorName)
		}
		processors += formatArrayObject(sample)
	}

	return fmt.Sprintf(sampleConfig, indent(importer, "  "), processors, indent(exporter, "  ")), nil
}

func runConduitInit(out io.Writer, path string, importerFlag string, processorsFlag []string, exporterFlag string) error {
	var location string
	if path == "" {
		path = defaultDataDirectory
		location = "in the current working directory"
	} else {
		location = fmt.Sprintf("at '%s'", path)
	}

	config, err := renderConfig(importerFlag, processorsFlag, exporterFlag)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("runConduitInit(): %w", err)
	}

	configFilePath := filepath.Join(path, conduit.DefaultConfigName)
	if err := os.WriteFile(configFilePath, []byte(config), 0644); err != nil {
		return fmt.Errorf("runConduitInit(): failed to write sample config: %w", err)
	}

	fmt.Fprintf(out, "A data directory has been created %s.\n", location)
	fmt.Fprintf(out, "\nBefore it can be used, the config file needs to be updated with\n")
	fmt.Fprintf(out, "values for the selected import, export and processor modules. For example,\n")
	fmt.Fprintf(out, "if the default marketplace importer was used, set the app-id and the keywords.\n")
	fmt.Fprintf(out, "\nOnce the config file is updated, start the pipeline with:\n")
	fmt.Fprintf(out, "  fetchsync run -d %s\n", path)
	return nil
}

// makeInitCmd creates a sample data directory.
func makeInitCmd() *cobra.Command {
	var data string
	var importer string
	var exporter string
	var processors []string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "initializes a fetchsync data directory",
		Long: `Initializes a data directory and ` + conduit.DefaultConfigName + ` file. By default
the config file uses the marketplace importer, the flatten processor and
the csv writer exporter. The plugin templates can be changed using the
different flags.

Once initialized the ` + conduit.DefaultConfigName + ` file needs to be modified. Refer to the file
comments for details.

Once configured, launch the pipeline with 'fetchsync run -d /path/to/data'.`,
		Example: "fetchsync init -d /path/to/data -i feed -p known_set -e object_store",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConduitInit(cmd.OutOrStdout(), data, importer, processors, exporter)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "Full path to new data directory. If not set, a directory named 'data' will be created in the current directory.")
	cmd.Flags().StringVarP(&importer, "importer", "i", "", "data importer name.")
	cmd.Flags().StringSliceVarP(&processors, "processors", "p", defaultProcessors, "comma-separated list of processors.")
	cmd.Flags().StringVarP(&exporter, "exporter", "e", "", "data exporter name.")
	return cmd
}
