package statistics

import (
	"fmt"

	"github.com/perf-stats/pkg/model"
)

// ImpactLevel grades how much of the profiled time a record accounts for.
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// Upper bounds (inclusive) of the low and medium levels, as relative time.
const (
	LowImpactThreshold    = 0.10
	MediumImpactThreshold = 0.40
)

// ClassifyImpact returns the impact level of a relative time.
func ClassifyImpact(relativeTime float64) ImpactLevel {
	switch {
	case relativeTime <= LowImpactThreshold:
		return ImpactLow
	case relativeTime <= MediumImpactThreshold:
		return ImpactMedium
	default:
		return ImpactHigh
	}
}

// Summary renders a record as "9.65% (842 samples)".
func Summary(rec model.TimeRecord) string {
	unit := "samples"
	if rec.SampleCount == 1 {
		unit = "sample"
	}
	return fmt.Sprintf("%.2f%% (%d %s)", rec.Percent(), rec.SampleCount, unit)
}
