package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amterp/kanboard/internal/config"
)

// FileStore keeps each key in its own file under the data directory.
// Writes go to a temp file first and are renamed into place.
type FileStore struct {
	paths *config.Paths
}

// NewFileStore creates a file store, creating the data directory if needed.
func NewFileStore(paths *config.Paths) (*FileStore, error) {
	if err := os.MkdirAll(paths.DataDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{paths: paths}, nil
}

// Dir returns the directory holding the value files.
func (s *FileStore) Dir() string {
	return s.paths.DataDir()
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.paths.ValuePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	path := s.paths.ValuePath(key)

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.paths.ValuePath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
