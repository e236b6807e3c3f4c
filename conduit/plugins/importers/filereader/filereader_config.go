package fileimporter

import "time"

// Config specific to the file importer
type Config struct {
	// BatchesDir is the directory holding the batch files. Defaults to the
	// plugin data directory.
	BatchesDir string `yaml:"batch-dir"`
	// RetryDuration controls the delay between checks for a batch file that
	// is not there yet.
	RetryDuration time.Duration `yaml:"retry-duration"`
	// RetryCount controls the number of times to check for a missing batch
	// before treating the input as exhausted.
	RetryCount uint64 `yaml:"retry-count"`
	// FilenamePattern is the format used to find batch files. It uses go string formatting and should accept one number for the sequence.
	FilenamePattern string `yaml:"filename-pattern"`
}
