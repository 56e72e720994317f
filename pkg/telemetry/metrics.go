package telemetry

import (
	"context"
	"sort"
	"strings"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// CounterPoint is the current value of one counter series.
type CounterPoint struct {
	Name       string            `json:"name" yaml:"name"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Value      int64             `json:"value" yaml:"value"`
}

// Counters returns the int64 counters recorded so far, ordered by name and
// then by attributes.
func (t *Telemetry) Counters(ctx context.Context) ([]CounterPoint, error) {
	if t == nil || t.reader == nil {
		return nil, nil
	}
	return CollectCounters(ctx, t.reader)
}

// CollectCounters reads the int64 sums currently held by reader.
func CollectCounters(ctx context.Context, reader sdkmetric.Reader) ([]CounterPoint, error) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return nil, err
	}

	var points []CounterPoint
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				point := CounterPoint{Name: m.Name, Value: dp.Value}
				if dp.Attributes.Len() > 0 {
					point.Attributes = make(map[string]string, dp.Attributes.Len())
					for _, kv := range dp.Attributes.ToSlice() {
						point.Attributes[string(kv.Key)] = kv.Value.Emit()
					}
				}
				points = append(points, point)
			}
		}
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Name != points[j].Name {
			return points[i].Name < points[j].Name
		}
		return attrKey(points[i].Attributes) < attrKey(points[j].Attributes)
	})
	return points, nil
}

func attrKey(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(attrs[k])
		sb.WriteByte(',')
	}
	return sb.String()
}
