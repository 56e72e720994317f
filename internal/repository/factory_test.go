package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perf-stats/pkg/config"
)

func TestNewGormDB_UnsupportedType(t *testing.T) {
	db, err := NewGormDB(&config.HistoryConfig{Type: "oracle"})
	assert.Nil(t, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestOpen_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	repos, err := Open(&config.HistoryConfig{Type: "sqlite", Path: path})
	require.NoError(t, err)
	require.NotNil(t, repos.History)
	assert.NotNil(t, repos.GormDB())

	assert.NoError(t, repos.HealthCheck(context.Background()))
	assert.True(t, repos.GormDB().Migrator().HasTable(&LoadEventRecord{}))
	assert.NoError(t, repos.Close())
}

func TestRepositories_CloseWithoutDB(t *testing.T) {
	repos := &Repositories{}
	assert.NoError(t, repos.Close())
}

func TestNewRepositories(t *testing.T) {
	repos := NewRepositories(setupTestDB(t))
	_, ok := repos.History.(*GormHistoryRepository)
	assert.True(t, ok)
}
