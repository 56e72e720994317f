package repository

import (
	"time"

	"github.com/perf-stats/pkg/model"
)

// LoadEventRecord represents the load_events table.
type LoadEventRecord struct {
	ID             int64            `gorm:"column:id;primaryKey;autoIncrement"`
	SnapshotID     string           `gorm:"column:snapshot_id;type:varchar(64);index"`
	Source         string           `gorm:"column:source;type:varchar(1024)"`
	FormatKey      string           `gorm:"column:format_key;type:varchar(64)"`
	Status         model.LoadStatus `gorm:"column:status"`
	Records        int              `gorm:"column:records"`
	ErrorMessage   string           `gorm:"column:error_message;type:text"`
	StartedAt      time.Time        `gorm:"column:started_at;index"`
	DurationMillis int64            `gorm:"column:duration_ms"`
}

// TableName returns the table name for LoadEventRecord.
func (LoadEventRecord) TableName() string {
	return "load_events"
}

// ToModel converts LoadEventRecord to model.LoadEvent.
func (r *LoadEventRecord) ToModel() model.LoadEvent {
	return model.LoadEvent{
		ID:         r.ID,
		SnapshotID: r.SnapshotID,
		Source:     r.Source,
		FormatKey:  r.FormatKey,
		Status:     r.Status,
		Records:    r.Records,
		Error:      r.ErrorMessage,
		StartedAt:  r.StartedAt,
		Duration:   time.Duration(r.DurationMillis) * time.Millisecond,
	}
}

func newLoadEventRecord(e *model.LoadEvent) *LoadEventRecord {
	return &LoadEventRecord{
		SnapshotID:     e.SnapshotID,
		Source:         e.Source,
		FormatKey:      e.FormatKey,
		Status:         e.Status,
		Records:        e.Records,
		ErrorMessage:   e.Error,
		StartedAt:      e.StartedAt,
		DurationMillis: e.Duration.Milliseconds(),
	}
}
