package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// meterReport is the meter provider installed when metrics.enabled is set.
// Nothing is exported; the collected totals are printed when the run ends.
type meterReport struct {
	provider *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader
}

func newMeterReport() *meterReport {
	reader := sdkmetric.NewManualReader()
	return &meterReport{
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		reader:   reader,
	}
}

// Lines collects every instrument and renders one sorted line per data
// point: counters as name{attrs} = total, histograms as count and sum.
func (r *meterReport) Lines(ctx context.Context) ([]string, error) {
	var rm metricdata.ResourceMetrics
	if err := r.reader.Collect(ctx, &rm); err != nil {
		return nil, err
	}
	var lines []string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%s%s = %d", m.Name, formatAttrs(dp.Attributes.ToSlice()), dp.Value))
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%s%s count=%d sum=%g%s",
						m.Name, formatAttrs(dp.Attributes.ToSlice()), dp.Count, dp.Sum, m.Unit))
				}
			}
		}
	}
	sort.Strings(lines)
	return lines, nil
}

func (r *meterReport) Shutdown(ctx context.Context) error {
	return r.provider.Shutdown(ctx)
}

func formatAttrs(kvs []attribute.KeyValue) string {
	if len(kvs) == 0 {
		return ""
	}
	parts := make([]string, len(kvs))
	for i, kv := range kvs {
		parts[i] = string(kv.Key) + "=" + kv.Value.Emit()
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// printMetrics writes the report to w, one "[metrics]" line per data point.
func printMetrics(ctx context.Context, w io.Writer, r *meterReport) error {
	if r == nil {
		return nil
	}
	lines, err := r.Lines(ctx)
	if err != nil {
		return fmt.Errorf("collecting metrics: %w", err)
	}
	for _, line := range lines {
		fmt.Fprintf(w, "[metrics] %s\n", line)
	}
	return r.Shutdown(ctx)
}
