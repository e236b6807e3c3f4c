package all

import (
	// Call package wide init function
	_ "github.com/fetchsync/fetchsync/conduit/plugins/importers/feed"
	_ "github.com/fetchsync/fetchsync/conduit/plugins/importers/filereader"
	_ "github.com/fetchsync/fetchsync/conduit/plugins/importers/marketplace"
)
