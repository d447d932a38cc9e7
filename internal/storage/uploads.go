// Package storage persists uploaded design files.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileStore saves uploaded files and returns where they ended up.
type FileStore interface {
	Save(name string, r io.Reader) (string, error)
	Remove(path string) error
}

// DiskStore writes uploads into a single directory of an afero filesystem.
type DiskStore struct {
	fs  afero.Fs
	dir string
}

// NewDiskStore creates dir if needed and returns a store rooted there.
func NewDiskStore(fs afero.Fs, dir string) (*DiskStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &DiskStore{fs: fs, dir: dir}, nil
}

// Save writes r to dir/name. name must already be a bare file name.
func (s *DiskStore) Save(name string, r io.Reader) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid upload file name %q", name)
	}
	path := filepath.Join(s.dir, name)
	f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = s.fs.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// Remove deletes a file previously returned by Save.
func (s *DiskStore) Remove(path string) error {
	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
