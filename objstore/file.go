package objstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fetchsync/fetchsync/util"
)

// FileStore keeps objects as files below a root directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the root directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("NewFileStore(): directory was empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("NewFileStore(): %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// path maps key below the root directory. Keys that resolve to the root or
// outside of it are rejected.
func (s *FileStore) path(key string) (string, error) {
	target := filepath.Join(s.dir, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.dir, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q is outside %s", ErrInvalidKey, key, s.dir)
	}
	return target, nil
}

// Get implements Store.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := s.path(key)
	if err != nil {
		return nil, fmt.Errorf("FileStore.Get(): %w", err)
	}
	body, err := os.ReadFile(target)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("FileStore.Get(%s): %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("FileStore.Get(%s): %w", key, err)
	}
	return body, nil
}

// Put implements Store.
func (s *FileStore) Put(ctx context.Context, key string, body []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := s.path(key)
	if err != nil {
		return fmt.Errorf("FileStore.Put(): %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("FileStore.Put(%s): %w", key, err)
	}
	if err := util.WriteFileAtomic(target, body, 0644); err != nil {
		return fmt.Errorf("FileStore.Put(%s): %w", key, err)
	}
	return nil
}
