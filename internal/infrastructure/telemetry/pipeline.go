// Package telemetry wires OpenTelemetry traces, metrics and logs plus
// Pyroscope profiling for the shop server.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// ServiceVersion is reported on every exported resource
const ServiceVersion = "1.0.0"

const shutdownTimeout = 10 * time.Second

// Exporter addresses the OTLP/gRPC collector shared by all three signals
type Exporter struct {
	Endpoint    string
	Insecure    bool
	ServiceName string
}

func (e Exporter) resource() (*resource.Resource, error) {
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(e.ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}
	return res, nil
}

// pipeline is the lifecycle shared by the signal providers. A disabled
// signal never gets a stop func and shuts down as a no-op.
type pipeline struct {
	signal string
	logger *zap.Logger
	stop   func(context.Context) error
}

func (p *pipeline) started(stop func(context.Context) error, fields ...zap.Field) {
	p.stop = stop
	p.logger.Info("telemetry pipeline started", append(fields, zap.String("signal", p.signal))...)
}

func (p *pipeline) running() bool {
	return p != nil && p.stop != nil
}

// Shutdown flushes buffered data, giving up after shutdownTimeout
func (p *pipeline) Shutdown(ctx context.Context) error {
	if !p.running() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := p.stop(ctx); err != nil {
		return fmt.Errorf("shutdown %s pipeline: %w", p.signal, err)
	}
	p.logger.Info("telemetry pipeline stopped", zap.String("signal", p.signal))
	return nil
}
