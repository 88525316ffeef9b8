package processing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/thebtf/collate/pkg/models"
)

const meterName = "github.com/thebtf/collate/internal/processing"

// pipelineMetrics instruments grouping runs through the global meter
// provider. Without a configured provider these are no-ops.
type pipelineMetrics struct {
	runs     metric.Int64Counter
	answers  metric.Int64Counter
	duration metric.Float64Histogram
}

func newPipelineMetrics() *pipelineMetrics {
	meter := otel.Meter(meterName)
	m := &pipelineMetrics{}
	var err error

	m.runs, err = meter.Int64Counter("collate.surveys.processed",
		metric.WithDescription("Pipeline runs by result status"))
	if err != nil {
		otel.Handle(err)
	}
	m.answers, err = meter.Int64Counter("collate.answers.clustered",
		metric.WithDescription("Raw answers placed into groups"))
	if err != nil {
		otel.Handle(err)
	}
	m.duration, err = meter.Float64Histogram("collate.processing.duration",
		metric.WithDescription("Wall time of a pipeline run"),
		metric.WithUnit("ms"))
	if err != nil {
		otel.Handle(err)
	}
	return m
}

func (m *pipelineMetrics) observeRun(ctx context.Context, result *models.GroupedResult, elapsed time.Duration) {
	status := metric.WithAttributes(attribute.String("status", string(result.Status)))
	m.runs.Add(ctx, 1, status)
	m.answers.Add(ctx, int64(result.TotalAnswers()))
	m.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond), status)
}
