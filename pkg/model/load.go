package model

import (
	"time"
)

// LoadStatus represents the outcome of a snapshot load attempt.
type LoadStatus int

const (
	LoadStatusRunning    LoadStatus = 0 // Started, not finished
	LoadStatusInstalled  LoadStatus = 1 // Parsed and installed as current snapshot
	LoadStatusFailed     LoadStatus = 2 // I/O or source failure, previous snapshot kept
	LoadStatusRejected   LoadStatus = 3 // Unknown format key, nothing read
	LoadStatusSuperseded LoadStatus = 4 // Parsed but a newer load was installed first
)

// String returns the string representation of LoadStatus.
func (s LoadStatus) String() string {
	switch s {
	case LoadStatusRunning:
		return "running"
	case LoadStatusInstalled:
		return "installed"
	case LoadStatusFailed:
		return "failed"
	case LoadStatusRejected:
		return "rejected"
	case LoadStatusSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// SnapshotInfo describes an installed statistics snapshot.
type SnapshotInfo struct {
	ID          string    `json:"id" yaml:"id"`
	Generation  uint64    `json:"generation" yaml:"generation"`
	Source      string    `json:"source" yaml:"source"`
	FormatKey   string    `json:"format_key" yaml:"format_key"`
	Records     int       `json:"records" yaml:"records"`
	References  int       `json:"references" yaml:"references"`
	LoadedAt    time.Time `json:"loaded_at" yaml:"loaded_at"`
	ParseMillis int64     `json:"parse_ms" yaml:"parse_ms"`
}

// IsEmpty reports whether no report has been installed yet.
func (s SnapshotInfo) IsEmpty() bool {
	return s.Generation == 0
}

// LoadEvent is one entry of the load history.
type LoadEvent struct {
	ID         int64         `json:"id" yaml:"id"`
	SnapshotID string        `json:"snapshot_id" yaml:"snapshot_id"`
	Source     string        `json:"source" yaml:"source"`
	FormatKey  string        `json:"format_key" yaml:"format_key"`
	Status     LoadStatus    `json:"status" yaml:"status"`
	Records    int           `json:"records" yaml:"records"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// NewLoadEvent creates a running load event.
func NewLoadEvent(snapshotID, source, formatKey string) *LoadEvent {
	return &LoadEvent{
		SnapshotID: snapshotID,
		Source:     source,
		FormatKey:  formatKey,
		Status:     LoadStatusRunning,
		StartedAt:  time.Now(),
	}
}

// Finish records the final status of the event.
func (e *LoadEvent) Finish(status LoadStatus, records int, err error) {
	e.Status = status
	e.Records = records
	if err != nil {
		e.Error = err.Error()
	}
	e.Duration = time.Since(e.StartedAt)
}
