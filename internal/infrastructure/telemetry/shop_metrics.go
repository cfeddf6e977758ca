package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/nizy/tailor/internal/domain/printing"
	"github.com/nizy/tailor/internal/domain/trade"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a nil meter is passed
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Export outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ShopMetrics records order saves and document exports
type ShopMetrics struct {
	ordersSaved       *Counter
	orderValue        *Histogram
	documentsRendered *Counter
	renderDuration    *Histogram
}

// NewShopMetrics creates the shop instruments on meter
func NewShopMetrics(meter metric.Meter) (*ShopMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	in := NewInstruments(meter)
	m := &ShopMetrics{
		ordersSaved: in.Counter("tailor_orders_saved_total",
			"Number of order saves by lifecycle and payment status", "{orders}"),
		orderValue: in.Histogram("tailor_order_total_amount",
			"Recomputed total of saved orders", "INR", OrderValueBuckets...),
		documentsRendered: in.Counter("tailor_documents_rendered_total",
			"Number of export attempts by document, format and outcome", "{documents}"),
		renderDuration: in.Histogram("tailor_document_render_duration_seconds",
			"Time taken to produce an exported document", "s", RenderDurationBuckets...),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordOrderSaved counts a persisted order and samples its total
func (m *ShopMetrics) RecordOrderSaved(ctx context.Context, status trade.OrderStatus, totals trade.Totals) {
	m.ordersSaved.Inc(ctx,
		AttrOrderStatus.String(status.String()),
		AttrPaymentStatus.String(totals.PaymentStatus.String()),
	)
	m.orderValue.Record(ctx, totals.Total.Float64(), AttrOrderStatus.String(status.String()))
}

// RecordDocumentRendered counts an export attempt and its duration
func (m *ShopMetrics) RecordDocumentRendered(ctx context.Context, docType printing.DocType, format printing.Format, duration time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	attrs := []attribute.KeyValue{
		AttrDocument.String(docType.String()),
		AttrFormat.String(string(format)),
		AttrOutcome.String(outcome),
	}
	m.documentsRendered.Inc(ctx, attrs...)
	m.renderDuration.RecordDuration(ctx, duration, attrs...)
}
