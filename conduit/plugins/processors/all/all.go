package all

import (
	// Call package wide init function
	_ "github.com/fetchsync/fetchsync/conduit/plugins/processors/flatten"
	_ "github.com/fetchsync/fetchsync/conduit/plugins/processors/knownset"
	_ "github.com/fetchsync/fetchsync/conduit/plugins/processors/noop"
)
