// Package exporters builds OpenTelemetry exporters from names.
package exporters

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Options selects and configures an exporter.
type Options struct {
	// Name selects the exporter: otlp, prometheus (metrics only),
	// stdout, none. Empty means none.
	Name string

	// Endpoint overrides the OTLP endpoint. When empty, the standard
	// OTEL_EXPORTER_OTLP_ENDPOINT environment variable is consulted.
	Endpoint string
}

// ValidTracing reports whether name is a known tracing exporter.
func ValidTracing(name string) bool {
	switch name {
	case "otlp", "stdout", "none", "":
		return true
	}
	return false
}

// ValidMetrics reports whether name is a known metrics exporter.
func ValidMetrics(name string) bool {
	switch name {
	case "otlp", "prometheus", "stdout", "none", "":
		return true
	}
	return false
}

// NewTracing creates a trace span exporter.
func NewTracing(ctx context.Context, opts Options) (sdktrace.SpanExporter, error) {
	switch opts.Name {
	case "stdout":
		return stdouttrace.New(stdouttrace.WithWriter(os.Stdout))

	case "otlp":
		endpoint := opts.Endpoint
		if endpoint == "" {
			endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
		}
		if endpoint == "" {
			return nil, fmt.Errorf("OTLP endpoint not configured: set Options.Endpoint or OTEL_EXPORTER_OTLP_ENDPOINT")
		}
		return otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(endpoint))

	case "none", "":
		return stdouttrace.New(stdouttrace.WithWriter(io.Discard))

	default:
		return nil, fmt.Errorf("unknown tracing exporter: %q", opts.Name)
	}
}

// NewMetricsReader creates a metrics reader.
func NewMetricsReader(ctx context.Context, opts Options) (sdkmetric.Reader, error) {
	switch opts.Name {
	case "stdout":
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stdout))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metrics exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	case "otlp":
		endpoint := opts.Endpoint
		if endpoint == "" {
			endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
		}
		if endpoint == "" {
			return nil, fmt.Errorf("OTLP metrics endpoint not configured: set Options.Endpoint or OTEL_EXPORTER_OTLP_ENDPOINT")
		}
		exp, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpoint(endpoint))
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	case "prometheus":
		exp, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		return exp, nil

	case "none", "":
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(io.Discard))
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	default:
		return nil, fmt.Errorf("unknown metrics exporter: %q", opts.Name)
	}
}
