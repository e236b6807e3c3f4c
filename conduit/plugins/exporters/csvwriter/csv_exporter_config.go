package csvwriter

//Name: conduit_exporters_csvwriter

// Config specific to the csv exporter
type Config struct {
	/* <code>target-dir</code> is the directory receiving the table.<br/>
	It is created if it doesn't exist. The plugin data directory is used when empty.
	*/
	TargetDir string `yaml:"target-dir"`
	// <code>filename</code> is the leading part of the output file name.
	Filename string `yaml:"filename"`
	// <code>call-type</code> names the search operation in the output file name.
	CallType string `yaml:"call-type"`
	// <code>search-term</code> names the searched keywords in the output file name.
	SearchTerm string `yaml:"search-term"`
}
