package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of application spans
const TracerName = "github.com/nizy/tailor"

// Span attribute keys used by the application services
const (
	SpanAttrOrderID    = "order_id"
	SpanAttrCustomerID = "customer_id"
	SpanAttrDocument   = "document"
	SpanAttrFormat     = "format"
	SpanAttrRows       = "rows"
)

// StartServiceSpan opens an internal span called "service.method" on the
// global provider; the caller ends it. keyValues alternate key and value.
func StartServiceSpan(ctx context.Context, service, method string, keyValues ...any) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(TracerName).Start(ctx, service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal))
	SetAttributes(span, keyValues...)
	return ctx, span
}

// SetAttributes skips pairs whose key is not a string, and a trailing key
// without a value
func SetAttributes(span trace.Span, keyValues ...any) {
	if span == nil {
		return
	}
	var attrs []attribute.KeyValue
	for i := 1; i < len(keyValues); i += 2 {
		if key, ok := keyValues[i-1].(string); ok {
			attrs = append(attrs, toAttribute(key, keyValues[i]))
		}
	}
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
}

// RecordError marks span failed; a nil err leaves it untouched
func RecordError(span trace.Span, err error) {
	if span != nil && err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// GetTraceID is "" outside a sampled or recording span
func GetTraceID(ctx context.Context) string {
	if id := trace.SpanContextFromContext(ctx).TraceID(); id.IsValid() {
		return id.String()
	}
	return ""
}

func toAttribute(key string, value any) attribute.KeyValue {
	k := attribute.Key(key)
	switch v := value.(type) {
	case string:
		return k.String(v)
	case int:
		return k.Int(v)
	case int64:
		return k.Int64(v)
	case float64:
		return k.Float64(v)
	case bool:
		return k.Bool(v)
	case []string:
		return k.StringSlice(v)
	case fmt.Stringer:
		return k.String(v.String())
	}
	return k.String(fmt.Sprint(value))
}
