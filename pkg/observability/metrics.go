package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/nsmigrate/pkg/migrate"
)

const (
	metricFilesTotal     = "nsmigrate.files"
	metricDecisionsTotal = "nsmigrate.decisions"
	metricFileDuration   = "nsmigrate.file.duration"

	attrOutcome = "outcome"
	attrKind    = "kind"
	attrReason  = "reason"
)

// File outcomes.
const (
	OutcomeChanged   = "changed"
	OutcomeMoved     = "moved"
	OutcomeUnchanged = "unchanged"
	OutcomeGated     = "gated"
	OutcomeFailed    = "failed"
)

// durationBucketBoundaries covers 1ms to 10s per file.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 10}

// MigrationMetrics holds the OTel instruments of a run.
type MigrationMetrics struct {
	filesTotal     metric.Int64Counter
	decisionsTotal metric.Int64Counter
	fileDuration   metric.Float64Histogram
}

// NewMigrationMetrics creates the run instruments from the given meter.
func NewMigrationMetrics(mt metric.Meter) (*MigrationMetrics, error) {
	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Files processed by outcome"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	decisions, err := mt.Int64Counter(metricDecisionsTotal,
		metric.WithDescription("Rewrite decisions by kind and reason"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricDecisionsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricFileDuration,
		metric.WithDescription("Time spent on one file in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFileDuration, err)
	}

	return &MigrationMetrics{
		filesTotal:     files,
		decisionsTotal: decisions,
		fileDuration:   duration,
	}, nil
}

// RecordFile records one processed file and the decisions taken in it.
func (mm *MigrationMetrics) RecordFile(ctx context.Context, outcome string, stats migrate.FileStats, duration time.Duration) {
	mm.filesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOutcome, outcome)))
	mm.fileDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String(attrOutcome, outcome)))

	mm.addDecisions(ctx, migrate.DecisionKind(migrate.ReplaceNode{}), "", stats.Replaced)
	mm.addDecisions(ctx, migrate.DecisionKind(migrate.RelocateDeclaration{}), "", stats.Relocated)

	for reason, n := range stats.Reasons {
		mm.addDecisions(ctx, migrate.DecisionKind(migrate.NoChange{}), reason, n)
	}
}

func (mm *MigrationMetrics) addDecisions(ctx context.Context, kind, reason string, n int) {
	if n == 0 {
		return
	}

	mm.decisionsTotal.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String(attrKind, kind),
		attribute.String(attrReason, reason),
	))
}
