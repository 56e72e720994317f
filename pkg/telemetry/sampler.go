package telemetry

import (
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/sdk/trace"
)

// createSampler creates a trace sampler based on configuration.
// Unknown or empty sampler names sample everything.
func createSampler(cfg *Config) trace.Sampler {
	name := strings.ToLower(cfg.Sampler)
	name, parentBased := strings.CutPrefix(name, "parentbased_")

	var sampler trace.Sampler
	switch name {
	case "always_off":
		sampler = trace.NeverSample()
	case "traceidratio":
		sampler = trace.TraceIDRatioBased(parseRatio(cfg.SamplerArg))
	default:
		sampler = trace.AlwaysSample()
	}

	if parentBased {
		return trace.ParentBased(sampler)
	}
	return sampler
}

// parseRatio parses a sampling ratio, clamped to [0, 1].
// Empty or malformed input means full sampling.
func parseRatio(s string) float64 {
	ratio, err := strconv.ParseFloat(s, 64)
	switch {
	case err != nil:
		return 1.0
	case ratio < 0:
		return 0
	case ratio > 1:
		return 1.0
	default:
		return ratio
	}
}
