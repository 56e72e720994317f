package statistics

import (
	"sort"

	"github.com/perf-stats/pkg/model"
)

// DefaultTopN is the number of entries returned when no limit is configured.
const DefaultTopN = 15

// TopCalculator ranks the references of an index by time spent.
type TopCalculator struct {
	topN int
}

// TopOption configures the TopCalculator.
type TopOption func(*TopCalculator)

// WithTopN sets the number of entries to return. Non-positive values keep
// the default.
func WithTopN(n int) TopOption {
	return func(c *TopCalculator) {
		if n > 0 {
			c.topN = n
		}
	}
}

// NewTopCalculator creates a new TopCalculator.
func NewTopCalculator(opts ...TopOption) *TopCalculator {
	c := &TopCalculator{topN: DefaultTopN}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TopEntry is one reference with its records summed up.
type TopEntry struct {
	Reference         model.CodeReference `json:"reference" yaml:"reference"`
	RelativeTime      float64             `json:"relative_time" yaml:"relative_time"`
	AbsoluteTimeNanos int64               `json:"absolute_time_ns" yaml:"absolute_time_ns"`
	SampleCount       int64               `json:"sample_count" yaml:"sample_count"`
	Records           int                 `json:"records" yaml:"records"`
	Impact            ImpactLevel         `json:"impact" yaml:"impact"`
	Summary           string              `json:"summary" yaml:"summary"`
}

// Calculate returns the top references of idx ordered by relative time,
// then sample count, then reference string.
func (c *TopCalculator) Calculate(idx *Index) []TopEntry {
	entries := make([]TopEntry, 0, len(idx.order))
	idx.Groups(func(ref model.CodeReference, records []model.TimeRecord) {
		var total model.TimeRecord
		for _, rec := range records {
			total.RelativeTime += rec.RelativeTime
			total.AbsoluteTimeNanos += rec.AbsoluteTimeNanos
			total.SampleCount += rec.SampleCount
		}
		// Summed fractions can drift past 1 on corrupt reports.
		if total.RelativeTime > 1 {
			total.RelativeTime = 1
		}
		entries = append(entries, TopEntry{
			Reference:         ref,
			RelativeTime:      total.RelativeTime,
			AbsoluteTimeNanos: total.AbsoluteTimeNanos,
			SampleCount:       total.SampleCount,
			Records:           len(records),
			Impact:            ClassifyImpact(total.RelativeTime),
			Summary:           Summary(total),
		})
	})

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.RelativeTime != b.RelativeTime {
			return a.RelativeTime > b.RelativeTime
		}
		if a.SampleCount != b.SampleCount {
			return a.SampleCount > b.SampleCount
		}
		return a.Reference.String() < b.Reference.String()
	})

	if c.topN < len(entries) {
		entries = entries[:c.topN]
	}
	return entries
}
