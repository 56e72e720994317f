package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	apperrors "github.com/perf-stats/pkg/errors"
)

// LocalStorage reads reports from the local filesystem.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage resolving relative keys against
// basePath. An empty basePath means the working directory.
func NewLocalStorage(basePath string) *LocalStorage {
	if basePath == "" {
		basePath = "."
	}
	return &LocalStorage{basePath: basePath}
}

// Open opens the report file for reading.
func (s *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath := s.getFullPath(key)
	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.CodeSourceNotFound, fmt.Sprintf("report not found: %s", fullPath), err)
		}
		return nil, apperrors.Wrap(apperrors.CodeIOError, fmt.Sprintf("failed to stat %s", fullPath), err)
	}
	if info.IsDir() {
		return nil, apperrors.Newf(apperrors.CodeInvalidInput, "%s is a directory", fullPath)
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, fmt.Sprintf("failed to open %s", fullPath), err)
	}
	return file, nil
}

// Exists checks if a regular file exists at the specified key.
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	info, err := os.Stat(s.getFullPath(key))
	if err == nil {
		return !info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// GetURL returns the local file path for the specified key.
func (s *LocalStorage) GetURL(key string) string {
	return s.getFullPath(key)
}

// GetBasePath returns the base directory for relative keys.
func (s *LocalStorage) GetBasePath() string {
	return s.basePath
}

func (s *LocalStorage) getFullPath(key string) string {
	if filepath.IsAbs(key) {
		return filepath.Clean(key)
	}
	return filepath.Join(s.basePath, key)
}
