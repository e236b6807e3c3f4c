package knownset

import "github.com/fetchsync/fetchsync/objstore"

//Name: conduit_processors_known_set

// Config configuration for the known_set processor
type Config struct {
	// Store locates the object store holding the known set document.
	Store objstore.Config `yaml:",inline"`
	// <code>known-key</code> is the key of the newline delimited known set document.
	KnownKey string `yaml:"known-key"`
}

// DefaultKnownKey is used when no known-key is configured.
const DefaultKnownKey = "recent_speeches.txt"
