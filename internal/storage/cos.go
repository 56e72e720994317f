package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tencentyun/cos-go-sdk-v5"

	apperrors "github.com/perf-stats/pkg/errors"
)

// COSConfig holds the configuration for Tencent Cloud COS.
type COSConfig struct {
	Bucket    string
	Region    string
	SecretID  string
	SecretKey string
	Domain    string // e.g., "myqcloud.com"
	Scheme    string // e.g., "https"
}

// COSStorage reads reports from a Tencent Cloud COS bucket.
type COSStorage struct {
	client *cos.Client
	config *COSConfig
}

// NewCOSStorage creates a new COSStorage instance.
func NewCOSStorage(cfg *COSConfig) (*COSStorage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("bucket and region are required")
	}
	if cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("credentials are required")
	}

	if cfg.Domain == "" {
		cfg.Domain = "myqcloud.com"
	}
	if cfg.Scheme == "" {
		cfg.Scheme = "https"
	}

	bucketURL, err := url.Parse(fmt.Sprintf("%s://%s.cos.%s.%s", cfg.Scheme, cfg.Bucket, cfg.Region, cfg.Domain))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bucket URL: %w", err)
	}
	serviceURL, err := url.Parse(fmt.Sprintf("%s://cos.%s.%s", cfg.Scheme, cfg.Region, cfg.Domain))
	if err != nil {
		return nil, fmt.Errorf("failed to parse service URL: %w", err)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: bucketURL, ServiceURL: serviceURL}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})

	return &COSStorage{client: client, config: cfg}, nil
}

// Open streams the object body. The caller must close it.
func (s *COSStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.client.Object.Get(ctx, key, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.Wrap(apperrors.CodeSourceNotFound, fmt.Sprintf("object not found: %s", key), err)
		}
		return nil, apperrors.Wrap(apperrors.CodeIOError, fmt.Sprintf("failed to get object %s", key), err)
	}
	return resp.Body, nil
}

// Exists checks if an object exists at the specified key.
func (s *COSStorage) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.Object.IsExist(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return ok, nil
}

// GetURL returns the URL for the specified key.
func (s *COSStorage) GetURL(key string) string {
	return fmt.Sprintf("%s://%s.cos.%s.%s/%s", s.config.Scheme, s.config.Bucket, s.config.Region, s.config.Domain, key)
}

func isNotFound(err error) bool {
	var respErr *cos.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return respErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}
