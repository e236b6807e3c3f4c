package conduit

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/fetchsync/fetchsync/util"
)

// DefaultConfigName is the default conduit configuration filename.
const DefaultConfigName = "fetchsync.yml"

// Config configuration for conduit running
type Config struct {
	Flags          *pflag.FlagSet
	ConduitDataDir string
	// NextSequenceOverride starts the importer at this sequence instead of 1.
	NextSequenceOverride uint64
}

func (cfg *Config) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Data Directory: %s ", cfg.ConduitDataDir)

	return sb.String()
}

// Valid validates a supplied configuration
func (cfg *Config) Valid() error {

	if cfg.ConduitDataDir == "" {
		return fmt.Errorf("supplied data directory was empty")
	}

	if !util.IsDir(cfg.ConduitDataDir) {
		return fmt.Errorf("supplied data directory (%s) was not valid", cfg.ConduitDataDir)
	}

	return nil
}
