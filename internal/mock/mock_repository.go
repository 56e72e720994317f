package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/perf-stats/pkg/model"
)

// MockHistoryRepository is a mock implementation of the HistoryRepository interface.
type MockHistoryRepository struct {
	mock.Mock
}

// SaveEvent mocks the SaveEvent method.
func (m *MockHistoryRepository) SaveEvent(ctx context.Context, event *model.LoadEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// RecentEvents mocks the RecentEvents method.
func (m *MockHistoryRepository) RecentEvents(ctx context.Context, limit int) ([]model.LoadEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LoadEvent), args.Error(1)
}

// ExpectSaveEvent sets up an expectation for SaveEvent.
func (m *MockHistoryRepository) ExpectSaveEvent(err error) *mock.Call {
	return m.On("SaveEvent", mock.Anything, mock.Anything).Return(err)
}
