package mediastore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yanqian/media-album/internal/domain/media"
)

// FSStore keeps media objects on the local filesystem under a base directory.
// It is the default backend when no S3 endpoint is configured.
type FSStore struct {
	baseDir string
}

// NewFSStore constructs the adapter, creating the base directory if needed.
func NewFSStore(baseDir string) (*FSStore, error) {
	if baseDir == "" {
		baseDir = "data/media"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &FSStore{baseDir: baseDir}, nil
}

// Put writes the object to disk.
func (s *FSStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Get opens the object for reading.
func (s *FSStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Delete removes the object. Missing objects are not an error.
func (s *FSStore) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolve maps a key to a path inside baseDir, rejecting traversal.
func (s *FSStore) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.baseDir, clean), nil
}

var _ media.ObjectStorage = (*FSStore)(nil)
