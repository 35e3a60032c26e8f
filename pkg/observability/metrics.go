package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cqfn/patternika-sub000/pkg/matcher"
)

const (
	metricRunsTotal     = "treematch.runs.total"
	metricRunDuration   = "treematch.run.duration.seconds"
	metricNodesMapped   = "treematch.nodes.mapped"
	metricNodesUnmapped = "treematch.nodes.unmapped"
	metricNodesPruned   = "treematch.nodes.pruned"
	metricErrorsTotal   = "treematch.errors.total"

	attrStrategy = "strategy"
	attrOp       = "op"
)

// durationBucketBoundaries covers 100µs to 30s.
//
//nolint:gochecknoglobals // Read-only bucket layout.
var durationBucketBoundaries = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30}

// MatchMetrics holds the instruments describing mapping runs.
type MatchMetrics struct {
	runsTotal     metric.Int64Counter
	runDuration   metric.Float64Histogram
	nodesMapped   metric.Int64Counter
	nodesUnmapped metric.Int64Counter
	nodesPruned   metric.Int64Counter
	errorsTotal   metric.Int64Counter
}

// NewMatchMetrics creates the instruments from meter.
func NewMatchMetrics(meter metric.Meter) (*MatchMetrics, error) {
	var (
		metrics MatchMetrics
		err     error
	)

	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
		unit        string
	}{
		{&metrics.runsTotal, metricRunsTotal, "Completed mapping runs", "{run}"},
		{&metrics.nodesMapped, metricNodesMapped, "Left nodes with a partner", "{node}"},
		{&metrics.nodesUnmapped, metricNodesUnmapped, "Nodes of either tree without a partner", "{node}"},
		{&metrics.nodesPruned, metricNodesPruned, "Connections removed as weak", "{node}"},
		{&metrics.errorsTotal, metricErrorsTotal, "Failed operations", "{error}"},
	}

	for _, counter := range counters {
		*counter.target, err = meter.Int64Counter(counter.name,
			metric.WithDescription(counter.description),
			metric.WithUnit(counter.unit),
		)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", counter.name, err)
		}
	}

	metrics.runDuration, err = meter.Float64Histogram(metricRunDuration,
		metric.WithDescription("Mapping run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunDuration, err)
	}

	return &metrics, nil
}

// RecordRun records one finished mapping run.
func (mm *MatchMetrics) RecordRun(ctx context.Context, strategy string, stats matcher.Stats) {
	attrs := metric.WithAttributes(attribute.String(attrStrategy, strategy))

	unmapped := stats.LeftSize + stats.RightSize - 2*stats.Mapped

	mm.runsTotal.Add(ctx, 1, attrs)
	mm.runDuration.Record(ctx, stats.Duration.Seconds(), attrs)
	mm.nodesMapped.Add(ctx, int64(stats.Mapped), attrs)
	mm.nodesUnmapped.Add(ctx, int64(max(unmapped, 0)), attrs)
	mm.nodesPruned.Add(ctx, int64(stats.Pruned), attrs)
}

// RecordError counts a failed operation such as loading an input file.
func (mm *MatchMetrics) RecordError(ctx context.Context, op string) {
	mm.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
}
