package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const defaultMetricsInterval = time.Minute

type MetricsConfig struct {
	Exporter
	Enabled bool
	// Interval between pushes; zero means one minute
	Interval time.Duration
}

// MeterProvider pushes metrics to the collector on a fixed interval
type MeterProvider struct {
	pipeline
	provider *sdkmetric.MeterProvider
}

func NewMeterProvider(ctx context.Context, cfg MetricsConfig, logger *zap.Logger) (*MeterProvider, error) {
	mp := &MeterProvider{pipeline: pipeline{signal: "metrics", logger: logger}}
	if !cfg.Enabled {
		return mp, nil
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultMetricsInterval
	}
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}
	res, err := cfg.resource()
	if err != nil {
		return nil, err
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.provider)
	mp.started(mp.provider.Shutdown,
		zap.String("endpoint", cfg.Endpoint),
		zap.Duration("interval", interval))
	return mp, nil
}

func (mp *MeterProvider) IsEnabled() bool {
	return mp.running()
}

// Meter falls back to the global provider, a no-op unless something else
// installed one
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if !mp.running() {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

// Instruments creates counters and histograms on one meter and keeps the
// first creation error, so a set of instruments is checked once with Err.
type Instruments struct {
	meter metric.Meter
	errs  []error
}

func NewInstruments(meter metric.Meter) *Instruments {
	return &Instruments{meter: meter}
}

func (in *Instruments) Counter(name, description, unit string) *Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("counter %s: %w", name, err))
	}
	return &Counter{counter: c}
}

func (in *Instruments) Histogram(name, description, unit string, buckets ...float64) *Histogram {
	opts := []metric.Float64HistogramOption{metric.WithDescription(description), metric.WithUnit(unit)}
	if len(buckets) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(buckets...))
	}
	h, err := in.meter.Float64Histogram(name, opts...)
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("histogram %s: %w", name, err))
	}
	return &Histogram{histogram: h}
}

func (in *Instruments) UpDownCounter(name, description, unit string) metric.Int64UpDownCounter {
	c, err := in.meter.Int64UpDownCounter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		in.errs = append(in.errs, fmt.Errorf("up-down counter %s: %w", name, err))
	}
	return c
}

// Err joins every failed creation
func (in *Instruments) Err() error {
	return errors.Join(in.errs...)
}

type Counter struct {
	counter metric.Int64Counter
}

func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

type Histogram struct {
	histogram metric.Float64Histogram
}

func (h *Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}

// RecordDuration records d in seconds
func (h *Histogram) RecordDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.Record(ctx, d.Seconds(), attrs...)
}

// Attribute keys
var (
	AttrOrderStatus   = attribute.Key("order_status")
	AttrPaymentStatus = attribute.Key("payment_status")
	AttrDocument      = attribute.Key("document")
	AttrFormat        = attribute.Key("format")
	AttrOutcome       = attribute.Key("outcome")

	AttrHTTPMethod     = attribute.Key("http_method")
	AttrHTTPRoute      = attribute.Key("http_route")
	AttrHTTPStatusCode = attribute.Key("http_status_code")
)

// Bucket boundaries
var (
	// seconds, sized for headless-browser PDF renders
	RenderDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}
	// rupees per order
	OrderValueBuckets = []float64{100, 250, 500, 1000, 2000, 5000, 10000, 25000}
	// seconds
	HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	// bytes; exports return whole PDFs and workbooks
	ResponseSizeBuckets = []float64{256, 1024, 8192, 65536, 262144, 1048576, 4194304}
)
