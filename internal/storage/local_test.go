package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perf-stats/pkg/config"
	apperrors "github.com/perf-stats/pkg/errors"
)

func TestNewLocalStorage(t *testing.T) {
	t.Run("EmptyPathDefaultsToWorkingDir", func(t *testing.T) {
		assert.Equal(t, ".", NewLocalStorage("").GetBasePath())
	})

	t.Run("KeepsBasePath", func(t *testing.T) {
		assert.Equal(t, "/data/reports", NewLocalStorage("/data/reports").GetBasePath())
	})
}

func TestLocalStorage_Open(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "2024"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "2024", "flat.txt"), []byte("report"), 0o644))

	storage := NewLocalStorage(tempDir)
	ctx := context.Background()

	t.Run("RelativeKey", func(t *testing.T) {
		r, err := storage.Open(ctx, "2024/flat.txt")
		require.NoError(t, err)
		defer r.Close()

		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "report", string(data))
	})

	t.Run("AbsoluteKeyIgnoresBase", func(t *testing.T) {
		r, err := NewLocalStorage("/nonexistent").Open(ctx, filepath.Join(tempDir, "2024", "flat.txt"))
		require.NoError(t, err)
		r.Close()
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := storage.Open(ctx, "missing.txt")
		require.Error(t, err)
		assert.True(t, apperrors.IsSourceNotFound(err))
	})

	t.Run("Directory", func(t *testing.T) {
		_, err := storage.Open(ctx, "2024")
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetErrorCode(err))
	})

	t.Run("CanceledContext", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := storage.Open(canceled, "2024/flat.txt")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLocalStorage_Exists(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "flat.txt"), []byte("x"), 0o644))

	storage := NewLocalStorage(tempDir)
	ctx := context.Background()

	exists, err := storage.Exists(ctx, "flat.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = storage.Exists(ctx, "nope.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = storage.Exists(ctx, ".")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_GetURL(t *testing.T) {
	tempDir := t.TempDir()
	storage := NewLocalStorage(tempDir)

	assert.Equal(t, filepath.Join(tempDir, "path/to/file.txt"), storage.GetURL("path/to/file.txt"))
	assert.Equal(t, "/abs/file.txt", storage.GetURL("/abs/../abs/file.txt"))
}

func TestNewStorage_Local(t *testing.T) {
	tempDir := t.TempDir()
	storage, err := NewStorage(&config.StorageConfig{
		Type:      string(StorageTypeLocal),
		LocalPath: tempDir,
	})
	require.NoError(t, err)

	_, ok := storage.(*LocalStorage)
	assert.True(t, ok)
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		location string
		wantType StorageType
		wantKey  string
	}{
		{"cos://reports/flat.txt", StorageTypeCOS, "reports/flat.txt"},
		{"cos:///reports/flat.txt", StorageTypeCOS, "reports/flat.txt"},
		{"/tmp/flat.txt", StorageTypeLocal, "/tmp/flat.txt"},
		{"flat.txt", StorageTypeLocal, "flat.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			typ, key := ParseLocation(tt.location)
			assert.Equal(t, tt.wantType, typ)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}
