package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/nizy/tailor/internal/domain/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// useRecorder installs a recording tracer provider for the test duration
func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return recorder
}

func TestStartServiceSpan(t *testing.T) {
	recorder := useRecorder(t)

	ctx, span := StartServiceSpan(context.Background(), "export", "orders",
		SpanAttrDocument, printing.DocTypeOrderSummary,
		SpanAttrRows, 12,
		42, "ignored key",
	)
	assert.NotEmpty(t, GetTraceID(ctx))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "export.orders", ended[0].Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range ended[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Len(t, attrs, 2)
	assert.Equal(t, "ORDER_SUMMARY", attrs[SpanAttrDocument].AsString())
	assert.Equal(t, int64(12), attrs[SpanAttrRows].AsInt64())
}

func TestRecordError(t *testing.T) {
	recorder := useRecorder(t)

	_, span := StartServiceSpan(context.Background(), "order", "save")
	RecordError(span, nil)
	RecordError(span, errors.New("disk full"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "disk full", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestToAttribute(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  attribute.Value
	}{
		{"string", "a", attribute.StringValue("a")},
		{"int", 3, attribute.IntValue(3)},
		{"int64", int64(4), attribute.Int64Value(4)},
		{"float", 1.5, attribute.Float64Value(1.5)},
		{"bool", true, attribute.BoolValue(true)},
		{"slice", []string{"x", "y"}, attribute.StringSliceValue([]string{"x", "y"})},
		{"named string", printing.FormatXLSX, attribute.StringValue("xlsx")},
		{"fallback", struct{ N int }{7}, attribute.StringValue("{7}")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toAttribute("k", tt.value).Value)
		})
	}
}
