package repository

import (
	"context"

	"gorm.io/gorm"

	apperrors "github.com/perf-stats/pkg/errors"
	"github.com/perf-stats/pkg/model"
)

// GormHistoryRepository implements HistoryRepository using GORM.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GormHistoryRepository.
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// SaveEvent inserts the event and stores the generated ID back into it.
func (r *GormHistoryRepository) SaveEvent(ctx context.Context, event *model.LoadEvent) error {
	if event == nil {
		return apperrors.New(apperrors.CodeInvalidInput, "load event is nil")
	}

	record := newLoadEventRecord(event)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "failed to save load event", err)
	}

	event.ID = record.ID
	return nil
}

// RecentEvents retrieves the newest load events.
func (r *GormHistoryRepository) RecentEvents(ctx context.Context, limit int) ([]model.LoadEvent, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	var records []LoadEventRecord
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to query load events", err)
	}

	events := make([]model.LoadEvent, len(records))
	for i := range records {
		events[i] = records[i].ToModel()
	}
	return events, nil
}
