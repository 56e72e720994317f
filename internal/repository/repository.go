// Package repository persists the load history of perf-stats.
package repository

import (
	"context"

	"github.com/perf-stats/pkg/model"
)

// DefaultRecentLimit bounds RecentEvents when no positive limit is given.
const DefaultRecentLimit = 20

// HistoryRepository defines the interface for load history operations.
type HistoryRepository interface {
	// SaveEvent stores a finished load attempt. The event ID is filled in.
	SaveEvent(ctx context.Context, event *model.LoadEvent) error

	// RecentEvents returns the newest events first.
	RecentEvents(ctx context.Context, limit int) ([]model.LoadEvent, error)
}
