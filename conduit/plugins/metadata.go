package plugins

// PluginType is defined for each plugin category
type PluginType string

const (
	// Exporter PluginType
	Exporter PluginType = "exporter"

	// Processor PluginType
	Processor PluginType = "processor"

	// Importer PluginType
	Importer PluginType = "importer"
)
