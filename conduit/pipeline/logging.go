package pipeline

import (
	log "github.com/sirupsen/logrus"

	"github.com/fetchsync/fetchsync/conduit/plugins"
)

// PluginLogFormatter formats the log message with special conduit tags
type PluginLogFormatter struct {
	Formatter *log.JSONFormatter
	Type      string
	Name      string
}

// Format allows this to be used as a logrus formatter
func (f PluginLogFormatter) Format(entry *log.Entry) ([]byte, error) {
	// Underscores force these to be in the front in order type -> name
	entry.Data["__type"] = f.Type
	entry.Data["_name"] = f.Name
	return f.Formatter.Format(entry)
}

// MakePluginLogFormatter builds the formatter used for plugin and root loggers.
func MakePluginLogFormatter(pluginType string, pluginName string) PluginLogFormatter {
	return PluginLogFormatter{
		Formatter: &log.JSONFormatter{
			DisableHTMLEscape: true,
		},
		Type: pluginType,
		Name: pluginName,
	}
}

// makePluginLogger returns a logger for one plugin that shares the root
// logger's writer and level.
func makePluginLogger(root *log.Logger, pluginType plugins.PluginType, pluginName string) *log.Logger {
	pluginLogger := log.New()
	// Make sure we are thread-safe
	pluginLogger.SetOutput(root.Out)
	pluginLogger.SetLevel(root.GetLevel())
	pluginLogger.SetFormatter(MakePluginLogFormatter(string(pluginType), pluginName))
	return pluginLogger
}
