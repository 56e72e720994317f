package model

import "math"

// TimeRecord is one timing observation for a code reference.
type TimeRecord struct {
	Reference CodeReference `json:"reference" yaml:"reference"`

	// RelativeTime is the fraction of the profiled time, in [0.0, 1.0].
	RelativeTime float64 `json:"relative_time" yaml:"relative_time"`

	// AbsoluteTimeNanos is the time attributed to the reference in nanoseconds.
	AbsoluteTimeNanos int64 `json:"absolute_time_ns" yaml:"absolute_time_ns"`

	// SampleCount is the number of samples attributed to the reference.
	SampleCount int64 `json:"sample_count" yaml:"sample_count"`
}

// NewTimeRecord creates a record from a percentage value (0..100), clamping
// it into the normalized relative time range.
func NewTimeRecord(ref CodeReference, percent float64, absoluteNanos, samples int64) TimeRecord {
	if absoluteNanos < 0 {
		absoluteNanos = 0
	}
	if samples < 0 {
		samples = 0
	}
	return TimeRecord{
		Reference:         ref,
		RelativeTime:      NormalizePercent(percent),
		AbsoluteTimeNanos: absoluteNanos,
		SampleCount:       samples,
	}
}

// NormalizePercent converts a percentage into [0.0, 1.0].
// Negative values and NaN become 0, values above 100 become 1.
func NormalizePercent(p float64) float64 {
	switch {
	case p < 0 || math.IsNaN(p):
		return 0
	case p > 100:
		return 1
	default:
		return p / 100.0
	}
}

// Percent returns the relative time scaled back to a percentage.
func (r TimeRecord) Percent() float64 {
	return r.RelativeTime * 100.0
}
