// Package storage opens profiler reports from local disk or object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/perf-stats/pkg/config"
	apperrors "github.com/perf-stats/pkg/errors"
)

// Storage is a read-only report source.
type Storage interface {
	// Open returns the raw report stream stored under key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists checks if a report exists at the specified key.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the URL for the specified key (if applicable).
	GetURL(key string) string
}

// StorageType represents the type of storage backend.
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeCOS   StorageType = "cos"
)

// cosScheme prefixes report locations that live in the configured bucket.
const cosScheme = "cos://"

// NewStorage creates a new Storage instance based on the configuration.
func NewStorage(cfg *config.StorageConfig) (Storage, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	switch StorageType(cfg.Type) {
	case StorageTypeCOS:
		return NewCOSStorage(&COSConfig{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
			Domain:    cfg.Domain,
			Scheme:    cfg.Scheme,
		})
	default:
		return NewLocalStorage(cfg.LocalPath), nil
	}
}

// ValidateConfig validates the storage configuration.
func ValidateConfig(cfg *config.StorageConfig) error {
	if cfg == nil {
		return fmt.Errorf("storage config is nil")
	}

	storageType := StorageType(cfg.Type)
	if storageType == "" {
		storageType = StorageTypeLocal
	}

	switch storageType {
	case StorageTypeCOS:
		if cfg.Bucket == "" {
			return fmt.Errorf("COS bucket is required")
		}
		if cfg.Region == "" {
			return fmt.Errorf("COS region is required")
		}
		if cfg.SecretID == "" || cfg.SecretKey == "" {
			return fmt.Errorf("COS credentials are required")
		}
	case StorageTypeLocal:
		if cfg.LocalPath == "" {
			return fmt.Errorf("local storage path is required")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}

	return nil
}

// ParseLocation splits a report location into its backend and key.
// "cos://reports/a.txt" is remote with key "reports/a.txt"; anything else
// is a local path.
func ParseLocation(location string) (StorageType, string) {
	if key, ok := strings.CutPrefix(location, cosScheme); ok {
		return StorageTypeCOS, strings.TrimLeft(key, "/")
	}
	return StorageTypeLocal, location
}

// Sources routes report locations to the local disk or the remote bucket.
type Sources struct {
	local  Storage
	remote Storage
}

// NewSources builds the report sources for cfg. Local paths are always
// readable; cos:// locations need storage.type=cos.
func NewSources(cfg *config.StorageConfig) (*Sources, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is nil")
	}

	local := NewLocalStorage(cfg.LocalPath)
	if StorageType(cfg.Type) != StorageTypeCOS {
		return NewSourcesWith(local, nil), nil
	}

	remote, err := NewStorage(cfg)
	if err != nil {
		return nil, err
	}
	return NewSourcesWith(local, remote), nil
}

// NewSourcesWith combines existing backends. remote may be nil.
func NewSourcesWith(local, remote Storage) *Sources {
	return &Sources{local: local, remote: remote}
}

// Open opens the report at location.
func (s *Sources) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	backend, key, err := s.resolve(location)
	if err != nil {
		return nil, err
	}
	return backend.Open(ctx, key)
}

// Exists checks whether the report at location exists.
func (s *Sources) Exists(ctx context.Context, location string) (bool, error) {
	backend, key, err := s.resolve(location)
	if err != nil {
		return false, err
	}
	return backend.Exists(ctx, key)
}

// Describe returns the resolved URL or path of location, used as the
// snapshot source.
func (s *Sources) Describe(location string) string {
	backend, key, err := s.resolve(location)
	if err != nil {
		return location
	}
	return backend.GetURL(key)
}

func (s *Sources) resolve(location string) (Storage, string, error) {
	if strings.TrimSpace(location) == "" {
		return nil, "", apperrors.New(apperrors.CodeInvalidInput, "report location is empty")
	}

	typ, key := ParseLocation(location)
	if typ == StorageTypeCOS {
		if s.remote == nil {
			return nil, "", apperrors.Newf(apperrors.CodeConfigError, "remote storage is not configured for %s", location)
		}
		if key == "" {
			return nil, "", apperrors.New(apperrors.CodeInvalidInput, "object key is empty")
		}
		return s.remote, key, nil
	}
	if s.local == nil {
		return nil, "", apperrors.New(apperrors.CodeConfigError, "local storage is not configured")
	}
	return s.local, key, nil
}
