package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/perf-stats/pkg/config"
	apperrors "github.com/perf-stats/pkg/errors"
	"github.com/perf-stats/pkg/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := NewGormDB(&config.HistoryConfig{Type: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newEvent(snapshotID string, status model.LoadStatus, startedAt time.Time) *model.LoadEvent {
	return &model.LoadEvent{
		SnapshotID: snapshotID,
		Source:     "/tmp/" + snapshotID + ".txt",
		FormatKey:  "async-flat",
		Status:     status,
		Records:    8,
		StartedAt:  startedAt,
		Duration:   1500 * time.Millisecond,
	}
}

func TestGormHistoryRepository_SaveEvent(t *testing.T) {
	repo := NewGormHistoryRepository(setupTestDB(t))
	ctx := context.Background()

	t.Run("AssignsID", func(t *testing.T) {
		event := newEvent("snap-1", model.LoadStatusInstalled, time.Now().UTC())
		require.NoError(t, repo.SaveEvent(ctx, event))
		assert.NotZero(t, event.ID)
	})

	t.Run("NilEvent", func(t *testing.T) {
		err := repo.SaveEvent(ctx, nil)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetErrorCode(err))
	})
}

func TestGormHistoryRepository_RecentEvents(t *testing.T) {
	repo := NewGormHistoryRepository(setupTestDB(t))
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		events, err := repo.RecentEvents(ctx, 10)
		require.NoError(t, err)
		assert.NotNil(t, events)
		assert.Empty(t, events)
	})

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	failed := newEvent("snap-2", model.LoadStatusFailed, base.Add(time.Second))
	failed.Error = "[IO_ERROR] report read failed"
	failed.Records = 0

	require.NoError(t, repo.SaveEvent(ctx, newEvent("snap-1", model.LoadStatusInstalled, base)))
	require.NoError(t, repo.SaveEvent(ctx, failed))
	require.NoError(t, repo.SaveEvent(ctx, newEvent("snap-3", model.LoadStatusSuperseded, base.Add(2*time.Second))))

	t.Run("NewestFirstWithLimit", func(t *testing.T) {
		events, err := repo.RecentEvents(ctx, 2)
		require.NoError(t, err)
		require.Len(t, events, 2)

		assert.Equal(t, "snap-3", events[0].SnapshotID)
		assert.Equal(t, model.LoadStatusSuperseded, events[0].Status)

		assert.Equal(t, "snap-2", events[1].SnapshotID)
		assert.Equal(t, model.LoadStatusFailed, events[1].Status)
		assert.Equal(t, "[IO_ERROR] report read failed", events[1].Error)
		assert.Zero(t, events[1].Records)
		assert.Equal(t, 1500*time.Millisecond, events[1].Duration)
		assert.True(t, events[1].StartedAt.Equal(base.Add(time.Second)))
	})

	t.Run("NonPositiveLimitUsesDefault", func(t *testing.T) {
		events, err := repo.RecentEvents(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, events, 3)
	})
}

func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormHistoryRepository_Postgres(t *testing.T) {
	ctx := context.Background()

	t.Run("SaveEvent_Success", func(t *testing.T) {
		db, mock := newMockGormDB(t)
		repo := NewGormHistoryRepository(db)

		mock.ExpectQuery(`INSERT INTO "load_events"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

		event := newEvent("snap-1", model.LoadStatusInstalled, time.Now())
		require.NoError(t, repo.SaveEvent(ctx, event))
		assert.Equal(t, int64(42), event.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SaveEvent_DatabaseError", func(t *testing.T) {
		db, mock := newMockGormDB(t)
		repo := NewGormHistoryRepository(db)

		mock.ExpectQuery(`INSERT INTO "load_events"`).
			WillReturnError(errors.New("connection refused"))

		err := repo.SaveEvent(ctx, newEvent("snap-1", model.LoadStatusInstalled, time.Now()))
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeDatabaseError, apperrors.GetErrorCode(err))
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("RecentEvents_Success", func(t *testing.T) {
		db, mock := newMockGormDB(t)
		repo := NewGormHistoryRepository(db)

		startedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows([]string{
			"id", "snapshot_id", "source", "format_key", "status",
			"records", "error_message", "started_at", "duration_ms",
		}).AddRow(int64(7), "snap-7", "cos://r/flat.txt", "async-flat", int64(1), int64(8), "", startedAt, int64(250))

		mock.ExpectQuery(`SELECT \* FROM "load_events" ORDER BY started_at DESC,id DESC`).WillReturnRows(rows)

		events, err := repo.RecentEvents(ctx, 5)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, int64(7), events[0].ID)
		assert.Equal(t, model.LoadStatusInstalled, events[0].Status)
		assert.Equal(t, 250*time.Millisecond, events[0].Duration)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RecentEvents_DatabaseError", func(t *testing.T) {
		db, mock := newMockGormDB(t)
		repo := NewGormHistoryRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "load_events"`).WillReturnError(errors.New("relation does not exist"))

		events, err := repo.RecentEvents(ctx, 5)
		assert.Nil(t, events)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeDatabaseError, apperrors.GetErrorCode(err))
	})
}
