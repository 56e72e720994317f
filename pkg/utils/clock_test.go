package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClock_Now(t *testing.T) {
	clock := NewRealClock()

	before := time.Now()
	actual := clock.Now()
	after := time.Now()

	assert.True(t, actual.After(before) || actual.Equal(before))
	assert.True(t, actual.Before(after) || actual.Equal(after))
}

func TestRealClock_Since(t *testing.T) {
	clock := NewRealClock()

	past := time.Now().Add(-1 * time.Second)
	duration := clock.Since(past)

	assert.True(t, duration >= 1*time.Second)
}

func TestMockClock_Now(t *testing.T) {
	startTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(startTime)

	assert.Equal(t, startTime, clock.Now())
	assert.Equal(t, startTime, clock.Now())
}

func TestMockClock_Advance(t *testing.T) {
	startTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(startTime)

	clock.Advance(1 * time.Hour)

	assert.Equal(t, startTime.Add(1*time.Hour), clock.Now())
	assert.Equal(t, 1*time.Hour, clock.Since(startTime))
}

func TestMockClock_Set(t *testing.T) {
	clock := NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	newTime := time.Date(2025, 6, 15, 8, 30, 0, 0, time.UTC)
	clock.Set(newTime)

	assert.Equal(t, newTime, clock.Now())
}

func TestMockClock_Step(t *testing.T) {
	startTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(startTime)
	clock.SetStep(5 * time.Millisecond)

	first := clock.Now()
	second := clock.Now()

	assert.Equal(t, startTime, first)
	assert.Equal(t, 5*time.Millisecond, second.Sub(first))
	assert.Equal(t, 10*time.Millisecond, clock.Since(first))
}

func TestClock_Interface(t *testing.T) {
	var _ Clock = (*RealClock)(nil)
	var _ Clock = (*MockClock)(nil)
}
