package objectstore

import (
	"time"

	"github.com/fetchsync/fetchsync/objstore"
)

//Name: conduit_exporters_object_store

// Config specific to the object store exporter
type Config struct {
	// Store locates the destination object store.
	Store objstore.Config `yaml:",inline"`
	// <code>known-key</code> is rewritten with every link of the run once all uploads succeed.
	KnownKey string `yaml:"known-key"`
	// <code>folder</code> is the key prefix of uploaded documents.
	Folder string `yaml:"folder"`
	/* <code>name-marker</code> derives a document name from its link: the text after the
	first occurrence of the marker. Links without the marker use their last path segment.<br/>
	Default: "speech/"
	*/
	NameMarker string `yaml:"name-marker"`
	// <code>fetch-timeout</code> bounds each document download.
	FetchTimeout time.Duration `yaml:"fetch-timeout"`
}

// Defaults for the Federal Reserve speeches layout.
const (
	DefaultKnownKey   = "recent_speeches.txt"
	DefaultFolder     = "speeches"
	DefaultNameMarker = "speech/"
)
