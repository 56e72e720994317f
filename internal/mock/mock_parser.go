// Package mock provides mock implementations for testing.
package mock

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/perf-stats/pkg/model"
)

// MockParser is a mock implementation of the SnapshotParser interface.
type MockParser struct {
	mock.Mock
}

// FormatKey mocks the FormatKey method.
func (m *MockParser) FormatKey() string {
	args := m.Called()
	return args.String(0)
}

// DisplayName mocks the DisplayName method.
func (m *MockParser) DisplayName() string {
	args := m.Called()
	return args.String(0)
}

// ParseStream mocks the ParseStream method.
func (m *MockParser) ParseStream(ctx context.Context, reader io.Reader) ([]model.TimeRecord, error) {
	args := m.Called(ctx, reader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TimeRecord), args.Error(1)
}

// ExpectFormat sets up expectations for FormatKey and DisplayName.
func (m *MockParser) ExpectFormat(key, displayName string) {
	m.On("FormatKey").Return(key).Maybe()
	m.On("DisplayName").Return(displayName).Maybe()
}

// ExpectParseStream sets up an expectation for ParseStream.
func (m *MockParser) ExpectParseStream(records []model.TimeRecord, err error) *mock.Call {
	return m.On("ParseStream", mock.Anything, mock.Anything).Return(records, err)
}
