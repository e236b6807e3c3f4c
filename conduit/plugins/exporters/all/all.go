package all

import (
	// Call package wide init function
	_ "github.com/fetchsync/fetchsync/conduit/plugins/exporters/csvwriter"
	_ "github.com/fetchsync/fetchsync/conduit/plugins/exporters/filewriter"
	_ "github.com/fetchsync/fetchsync/conduit/plugins/exporters/noop"
	_ "github.com/fetchsync/fetchsync/conduit/plugins/exporters/objectstore"
)
