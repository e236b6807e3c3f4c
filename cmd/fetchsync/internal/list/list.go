package list

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/pipeline"
)

// Command is the list command to embed in a root cobra command.
var Command = &cobra.Command{
	Use:   "list",
	Short: "lists all plugins available to fetchsync",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printAll(cmd.OutOrStdout())
		return nil
	},
	// Silence errors because our logger will catch and print any errors
	SilenceErrors: true,
}

func makeDetailsCommand(use string, data func() []conduit.Metadata) *cobra.Command {
	return &cobra.Command{
		Use:     use + "s",
		Aliases: []string{use},
		Short:   fmt.Sprintf("usage detail for %s plugins", use),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				printMetadata(cmd.OutOrStdout(), data())
				return nil
			}
			return printDetails(cmd.OutOrStdout(), args[0], data())
		},
		SilenceUsage: true,
	}
}

func init() {
	Command.AddCommand(makeDetailsCommand("importer", pipeline.ImporterMetadata))
	Command.AddCommand(makeDetailsCommand("processor", pipeline.ProcessorMetadata))
	Command.AddCommand(makeDetailsCommand("exporter", pipeline.ExporterMetadata))
}

func printDetails(w io.Writer, name string, plugins []conduit.Metadata) error {
	for _, data := range plugins {
		if data.Name == name {
			fmt.Fprintln(w, data.SampleConfig)
			return nil
		}
	}

	return fmt.Errorf("plugin not found: %s", name)
}

func printMetadata(w io.Writer, plugins []conduit.Metadata) {
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Name < plugins[j].Name
	})

	for _, data := range plugins {
		fmtString := "%s - %s\n"

		if data.Deprecated {
			fmtString = "[DEPRECATED] " + fmtString
		}

		fmt.Fprintf(w, "  "+fmtString, data.Name, data.Description)
	}
}

func printAll(w io.Writer) {
	fmt.Fprint(w, "Importers:\n")
	printMetadata(w, pipeline.ImporterMetadata())
	fmt.Fprint(w, "\nProcessors:\n")
	printMetadata(w, pipeline.ProcessorMetadata())
	fmt.Fprint(w, "\nExporters:\n")
	printMetadata(w, pipeline.ExporterMetadata())
}
