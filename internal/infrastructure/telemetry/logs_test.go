package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{Exporter: Exporter{ServiceName: "tailor"}}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.Shutdown(context.Background()))

	core := lp.ZapCore(zapcore.DebugLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestAtLeast(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := atLeast(inner, zapcore.WarnLevel)

	logger := zap.New(core).With(zap.String("component", "export"))
	logger.Info("rendered")
	logger.Warn("slow render")
	logger.Error("render failed")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "slow render", entries[0].Message)
	assert.Equal(t, "export", entries[1].ContextMap()["component"])

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.WarnLevel))

	strict, _ := observer.New(zapcore.ErrorLevel)
	assert.False(t, atLeast(strict, zapcore.WarnLevel).Enabled(zapcore.WarnLevel))
}
