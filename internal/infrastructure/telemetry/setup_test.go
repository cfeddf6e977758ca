package telemetry

import (
	"context"
	"testing"

	"github.com/nizy/tailor/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSetup_AllDisabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.Telemetry.ServiceName = "tailor-test"
	cfg.Database.Driver = config.DriverPostgres

	tel, err := Setup(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tel.Tracer.IsEnabled())
	assert.False(t, tel.Meter.IsEnabled())
	assert.False(t, tel.Logs.IsEnabled())
	assert.False(t, tel.Profiler.IsEnabled())
	require.NotNil(t, tel.Shop)

	plugin := tel.DBTracing(cfg, zap.NewNop())
	assert.Equal(t, "postgresql", plugin.config.DBSystem)
	assert.False(t, plugin.config.Enabled)

	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetup_InvalidProfilerShutsDownEarlierProviders(t *testing.T) {
	cfg := &config.Config{}
	cfg.Profiling.Enabled = true

	tel, err := Setup(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, tel)
}
