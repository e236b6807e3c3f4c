// Package objstore holds the small key/value object storage abstraction used
// by the feed synchronization plugins, with an S3 backend and a local
// directory backend.
package objstore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("object not found")

// ErrInvalidKey is returned for keys a backend cannot store safely.
var ErrInvalidKey = errors.New("invalid object key")

// Store reads and writes whole objects by key.
type Store interface {
	// Get returns the object body, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put creates or fully overwrites the object at key.
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

const (
	// KindS3 selects the S3 backend.
	KindS3 = "s3"
	// KindFile selects the local directory backend.
	KindFile = "file"
)

// DefaultTimeout bounds every request made by the S3 backend.
const DefaultTimeout = 60 * time.Second

// Config selects and configures a Store backend.
type Config struct {
	// <code>kind</code> is either "s3" (default) or "file".
	Kind string `yaml:"kind"`
	// <code>bucket</code> is the S3 bucket name.
	Bucket string `yaml:"bucket"`
	// <code>region</code> is the S3 region, "us-east-1" when empty.
	Region string `yaml:"region"`
	// <code>endpoint</code> overrides the S3 endpoint, for S3 compatible services.
	// Path style addressing is used whenever it is set.
	Endpoint string `yaml:"endpoint"`
	// <code>credentials-file</code> is an AWS shared credentials file. When empty the
	// SDK default credential chain is used.
	CredentialsFile string `yaml:"credentials-file"`
	// <code>profile</code> is the section of the credentials file, "default" when empty.
	Profile string `yaml:"profile"`
	// <code>dir</code> is the root directory of the file backend.
	Dir string `yaml:"dir"`
	// <code>timeout</code> bounds each S3 request.
	Timeout time.Duration `yaml:"timeout"`
}

// Open builds the Store described by cfg.
func Open(cfg Config) (Store, error) {
	switch cfg.Kind {
	case "", KindS3:
		return NewS3Store(cfg)
	case KindFile:
		return NewFileStore(cfg.Dir)
	default:
		return nil, fmt.Errorf("Open(): unknown object store kind %q", cfg.Kind)
	}
}
