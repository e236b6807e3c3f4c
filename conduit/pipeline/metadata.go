package pipeline

import (
	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/plugins/exporters"
	"github.com/fetchsync/fetchsync/conduit/plugins/importers"
	"github.com/fetchsync/fetchsync/conduit/plugins/processors"
)

// AllMetadata gets a slice with metadata from all registered plugins.
func AllMetadata() (results []conduit.Metadata) {
	results = append(results, ImporterMetadata()...)
	results = append(results, ProcessorMetadata()...)
	results = append(results, ExporterMetadata()...)
	return
}

// ImporterMetadata gets a slice with metadata for all importers.Importer plugins.
func ImporterMetadata() (results []conduit.Metadata) {
	for _, name := range importers.ImporterNames() {
		plugin := importers.Importers[name].New()
		results = append(results, plugin.Metadata())
	}
	return
}

// ProcessorMetadata gets a slice with metadata for all processors.Processor plugins.
func ProcessorMetadata() (results []conduit.Metadata) {
	for _, name := range processors.ProcessorNames() {
		plugin := processors.Processors[name].New()
		results = append(results, plugin.Metadata())
	}
	return
}

// ExporterMetadata gets a slice with metadata for all exporters.Exporter plugins.
func ExporterMetadata() (results []conduit.Metadata) {
	for _, name := range exporters.ExporterNames() {
		plugin := exporters.Exporters[name].New()
		results = append(results, plugin.Metadata())
	}
	return
}
