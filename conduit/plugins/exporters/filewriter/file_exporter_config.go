package filewriter

//Name: conduit_exporters_filewriter

// Config specific to the file exporter
type Config struct {
	/* <code>batch-dir</code> is an optional path to a directory where batch data should be
	stored.<br/>
	The directory is created if it doesn't exist.<br/>
	If no directory is provided the default plugin data directory is used.
	*/
	BatchesDir string `yaml:"batch-dir"`
	/* <code>filename-pattern</code> is the format used to write batch files. It uses go
	string formatting and should accept one number for the sequence.<br/>
	If the file has a '.gz' extension, batches will be gzipped.
	Default:

		"%[1]d_batch.json"
	*/
	FilenamePattern string `yaml:"filename-pattern"`
}
