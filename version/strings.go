package version

import (
	"fmt"
)

// These are targets for compiling in build information, e.g.
//
//	go build -ldflags "-X github.com/fetchsync/fetchsync/version.ReleaseVersion=1.2.0" ./cmd/fetchsync
var (
	// Hash Git commit hash. Output of `git log -n 1 --pretty="%H"`
	Hash string

	// CompileTime YYYY-mm-ddTHH:MM:SS+ZZZZ
	CompileTime string

	// ReleaseVersion is set using -ldflags during build.
	ReleaseVersion string
)

// UnknownVersion is used when the version is not known.
const UnknownVersion = "(unknown version)"

// Version the binary version.
func Version() string {
	if ReleaseVersion == "" {
		return UnknownVersion
	}
	return ReleaseVersion
}

// LongVersion the long form of the binary version.
func LongVersion() string {
	tagVersion := Version()
	if tagVersion == UnknownVersion {
		tagVersion = "dev"
	}
	hash := Hash
	if hash == "" {
		hash = "unknown"
	}
	compiled := CompileTime
	if compiled == "" {
		compiled = "unknown time"
	}
	return fmt.Sprintf("fetchsync %s compiled at %s from git hash %s", tagVersion, compiled, hash)
}
