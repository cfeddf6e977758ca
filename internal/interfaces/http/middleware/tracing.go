// Package middleware provides the gin middleware chain of the tailor API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nizy/tailor/internal/infrastructure/logger"
	"github.com/nizy/tailor/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDHeader carries the trace id of a traced request in the response
const TraceIDHeader = "X-Trace-ID"

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// SkipPaths are not traced (health probes)
	SkipPaths []string
}

// Tracing wraps otelgin. Spans are named "METHOD /route/:param"; 5xx
// responses mark the span failed. The second handler attaches request_id
// and username after the chain has run, while the span is still open.
func Tracing(cfg TracingConfig) gin.HandlersChain {
	if !cfg.Enabled {
		return gin.HandlersChain{func(c *gin.Context) { c.Next() }}
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	base := otelgin.Middleware(cfg.ServiceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			_, skipped := skip[r.URL.Path]
			return !skipped
		}),
	)
	return gin.HandlersChain{base, enrichSpan}
}

func enrichSpan(c *gin.Context) {
	if id := telemetry.GetTraceID(c.Request.Context()); id != "" {
		c.Header(TraceIDHeader, id)
	}
	c.Next()

	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		return
	}
	if id := RequestIDOf(c); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}
	if username := c.GetString(logger.GinUsernameKey); username != "" {
		span.SetAttributes(attribute.String("username", username))
	}
	if status := c.Writer.Status(); status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
