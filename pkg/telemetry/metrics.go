package telemetry

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	metricsOnce        sync.Once
	metricsInitErr     error
	computationCounter metric.Int64Counter
	failureCounter     metric.Int64Counter
	durationHistogram  metric.Float64Histogram
	textLengthHist     metric.Int64Histogram
)

// Computation captures the fields recorded for one engine invocation.
type Computation struct {
	Mode       string
	Modulus    int
	Outcome    string
	TextLength int
	Duration   time.Duration
}

// RecordComputation emits the counters and histograms describing one
// cipher engine call.
func RecordComputation(ctx context.Context, c Computation) {
	if err := ensureMetrics(); err != nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("cipher.mode", c.Mode),
		attribute.String("cipher.modulus", strconv.Itoa(c.Modulus)),
		attribute.String("cipher.outcome", c.Outcome),
	}

	computationCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
	textLengthHist.Record(ctx, int64(c.TextLength), metric.WithAttributes(attrs...))

	if c.Duration > 0 {
		durationHistogram.Record(ctx, float64(c.Duration)/float64(time.Millisecond), metric.WithAttributes(attrs...))
	}
}

// RecordValidationFailure counts a rejected request by failure kind.
func RecordValidationFailure(ctx context.Context, kind string) {
	if err := ensureMetrics(); err != nil {
		return
	}

	failureCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cipher.error_kind", kind),
	))
}

func ensureMetrics() error {
	metricsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter("cipher.engine")

		computationCounter, metricsInitErr = meter.Int64Counter(
			"cipher.computations_total",
			metric.WithDescription("Cipher engine invocations partitioned by mode, modulus and outcome"),
			metric.WithUnit("{count}"),
		)
		if metricsInitErr != nil {
			return
		}

		failureCounter, metricsInitErr = meter.Int64Counter(
			"cipher.validation_failures_total",
			metric.WithDescription("Rejected cipher requests partitioned by validation error kind"),
			metric.WithUnit("{count}"),
		)
		if metricsInitErr != nil {
			return
		}

		durationHistogram, metricsInitErr = meter.Float64Histogram(
			"cipher.compute.duration",
			metric.WithDescription("Cipher engine compute latency"),
			metric.WithUnit("ms"),
		)
		if metricsInitErr != nil {
			return
		}

		textLengthHist, metricsInitErr = meter.Int64Histogram(
			"cipher.compute.text_length",
			metric.WithDescription("Input text length per computation"),
			metric.WithUnit("{char}"),
		)
	})

	return metricsInitErr
}
