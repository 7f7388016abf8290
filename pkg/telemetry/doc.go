// Package telemetry wires OpenTelemetry tracing and metrics for the
// cipher service.
//
// otel.go    - OTLP/gRPC tracer provider bootstrap and shutdown
// metrics.go - Engine-level counters and histograms
package telemetry
