package model

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePercent(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-1, 0},
		{0, 0},
		{9.65, 0.0965},
		{50, 0.5},
		{100, 1},
		{100.01, 1},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		got := NormalizePercent(tt.in)
		assert.InDelta(t, tt.want, got, 1e-12, "percent %v", tt.in)
		assert.True(t, got >= 0 && got <= 1)
	}
}

func TestNewTimeRecord(t *testing.T) {
	rec := NewTimeRecord(MustCodeReference("com.comitative.pt.MainKt", "main"), 9.65, 8420496037, 842)

	assert.InDelta(t, 0.0965, rec.RelativeTime, 1e-12)
	assert.InDelta(t, 9.65, rec.Percent(), 1e-9)
	assert.Equal(t, int64(8420496037), rec.AbsoluteTimeNanos)
	assert.Equal(t, int64(842), rec.SampleCount)
}

func TestNewTimeRecord_ClampsNegativeCounts(t *testing.T) {
	rec := NewTimeRecord(MustCodeReference("A", "b"), 1, -5, -1)
	assert.Zero(t, rec.AbsoluteTimeNanos)
	assert.Zero(t, rec.SampleCount)
}

func TestLoadEvent_Finish(t *testing.T) {
	event := NewLoadEvent("", "/tmp/flat.txt", "async-flat")
	assert.Equal(t, LoadStatusRunning, event.Status)

	event.Finish(LoadStatusFailed, 0, errors.New("boom"))
	assert.Equal(t, LoadStatusFailed, event.Status)
	assert.Equal(t, "boom", event.Error)
	assert.GreaterOrEqual(t, event.Duration.Nanoseconds(), int64(0))
}

func TestLoadStatus_String(t *testing.T) {
	assert.Equal(t, "installed", LoadStatusInstalled.String())
	assert.Equal(t, "superseded", LoadStatusSuperseded.String())
	assert.Equal(t, "unknown", LoadStatus(42).String())
}

func TestSnapshotInfo_IsEmpty(t *testing.T) {
	assert.True(t, SnapshotInfo{}.IsEmpty())
	assert.False(t, SnapshotInfo{ID: "x", Generation: 1}.IsEmpty())
}
