package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})

	r := gin.New()
	r.Use(RequestID())
	r.Use(Tracing(TracingConfig{ServiceName: "tailor", Enabled: true, SkipPaths: []string{"/health"}})...)
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/orders/:id", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	traceIDs := map[string]string{}
	for _, path := range []string{"/health", "/api/v1/orders/42"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		traceIDs[path] = w.Header().Get(TraceIDHeader)
	}

	ended := recorder.Ended()
	require.Len(t, ended, 1, "health probes are not traced")
	assert.Empty(t, traceIDs["/health"])
	assert.Equal(t, ended[0].SpanContext().TraceID().String(), traceIDs["/api/v1/orders/42"])
	assert.Contains(t, ended[0].Name(), "/api/v1/orders/:id")
	assert.Equal(t, codes.Error, ended[0].Status().Code)

	var hasRequestID bool
	for _, kv := range ended[0].Attributes() {
		if kv.Key == "request_id" {
			hasRequestID = kv.Value.AsString() != ""
		}
	}
	assert.True(t, hasRequestID)
}

func TestTracing_Disabled(t *testing.T) {
	r := newTestRouter(Tracing(TracingConfig{})...)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfilingLabels(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		r := newTestRouter(ProfilingLabels(enabled))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
