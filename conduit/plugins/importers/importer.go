package importers

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/plugins"
	"github.com/fetchsync/fetchsync/data"
)

// ErrNoMoreBatches is returned by GetBatch once the source is exhausted.
var ErrNoMoreBatches = errors.New("no more batches")

// ConnectionError is returned when an importer cannot reach its source at all.
// The pipeline treats it as "nothing to do" instead of a failed run.
type ConnectionError struct {
	Source string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("unable to connect to %s: %v", e.Source, e.Err)
}

// Unwrap exposes the transport error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Importer defines the interface for importer plugins
type Importer interface {
	// PluginMetadata implement this interface.
	conduit.PluginMetadata

	// Init will initialize each importer with a given config. This config will contain the Unmarhsalled config file specific to this plugin.
	// It is called during initialization of an importer plugin such as setting up network connections, file buffers etc.
	Init(ctx context.Context, cfg plugins.PluginConfig, logger *logrus.Logger) error

	// Config returns the configuration options used to create an Importer. Initialized during Init.
	Config() string

	// Close function is used for closing network connections, files, flushing buffers etc.
	Close() error

	// GetBatch fetches the batch at the given 1-based sequence.
	// It returns ErrNoMoreBatches once the source has nothing left to offer.
	GetBatch(seq uint64) (data.Batch, error)
}
