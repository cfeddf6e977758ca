package telemetry

import (
	"context"
	"errors"

	"github.com/nizy/tailor/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Telemetry bundles the providers started for one process
type Telemetry struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
	Shop     *ShopMetrics
}

// Setup starts every provider the configuration enables. Disabled providers
// are still returned so callers never nil-check. On error the providers
// already started are shut down.
func Setup(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Telemetry, error) {
	exporter := Exporter{
		Endpoint:    cfg.Telemetry.CollectorEndpoint,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: cfg.Telemetry.ServiceName,
	}
	t := &Telemetry{}
	fail := func(err error) (*Telemetry, error) {
		_ = t.Shutdown(ctx)
		return nil, err
	}

	var err error
	if t.Tracer, err = NewTracerProvider(ctx, TracingConfig{
		Exporter:      exporter,
		Enabled:       cfg.Telemetry.Enabled,
		SamplingRatio: cfg.Telemetry.SamplingRatio,
	}, logger); err != nil {
		return fail(err)
	}
	if t.Meter, err = NewMeterProvider(ctx, MetricsConfig{
		Exporter: exporter,
		Enabled:  cfg.Telemetry.MetricsEnabled,
		Interval: cfg.Telemetry.MetricsInterval,
	}, logger); err != nil {
		return fail(err)
	}
	if t.Logs, err = NewLoggerProvider(ctx, LogsConfig{
		Exporter: exporter,
		Enabled:  cfg.Telemetry.LogsEnabled,
	}, logger); err != nil {
		return fail(err)
	}
	if t.Profiler, err = NewProfiler(ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Profiling.BasicAuthPassword,
	}, logger); err != nil {
		return fail(err)
	}
	if t.Profiler.IsEnabled() {
		t.Tracer.EnableSpanProfiles()
	}
	if t.Shop, err = NewShopMetrics(t.Meter.Meter(TracerName)); err != nil {
		return fail(err)
	}
	return t, nil
}

// DBTracing returns the gorm plugin configured for the database driver
func (t *Telemetry) DBTracing(cfg *config.Config, logger *zap.Logger) *DBTracingPlugin {
	system := "sqlite"
	if cfg.Database.Driver == config.DriverPostgres {
		system = "postgresql"
	}
	return NewDBTracingPlugin(DBTracingConfig{
		Enabled:    cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBSystem:   system,
	}, logger)
}

// Shutdown stops providers in reverse start order and joins their errors
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.Profiler != nil {
		errs = append(errs, t.Profiler.Stop())
	}
	if t.Logs != nil {
		errs = append(errs, t.Logs.Shutdown(ctx))
	}
	if t.Meter != nil {
		errs = append(errs, t.Meter.Shutdown(ctx))
	}
	if t.Tracer != nil {
		errs = append(errs, t.Tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
