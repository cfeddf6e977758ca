package export

import (
	"context"
	"errors"
	"time"

	"github.com/nizy/tailor/internal/domain/partner"
	"github.com/nizy/tailor/internal/domain/printing"
	"github.com/nizy/tailor/internal/domain/shared"
	"github.com/nizy/tailor/internal/domain/trade"
	infra "github.com/nizy/tailor/internal/infrastructure/printing"
	"github.com/nizy/tailor/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Spreadsheet sheet names
const (
	CustomersSheet = "Customers"
	OrdersSheet    = "Orders"
)

// SpreadsheetWriter encodes a table as a single-sheet workbook
type SpreadsheetWriter interface {
	Write(sheet string, table printing.Table) ([]byte, error)
}

// Recorder receives a sample for every attempted export
type Recorder interface {
	RecordDocumentRendered(ctx context.Context, docType printing.DocType, format printing.Format, duration time.Duration, err error)
}

// Options configures the printed documents
type Options struct {
	Letterhead printing.Letterhead
	// ShopTag is embedded in batch file names
	ShopTag   string
	PaperSize printing.PaperSize
	// RenderTimeout bounds a single PDF render (0 = renderer default)
	RenderTimeout time.Duration
}

// Service turns materialized customer and order collections into exported
// documents. It never mutates or filters records; callers pass the
// collection exactly as it should appear.
type Service struct {
	templates *infra.TemplateEngine
	renderer  infra.PDFRenderer
	sheets    SpreadsheetWriter
	archive   printing.DocumentArchive
	recorder  Recorder
	options   Options
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new export Service
func NewService(
	templates *infra.TemplateEngine,
	renderer infra.PDFRenderer,
	sheets SpreadsheetWriter,
	options Options,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !options.PaperSize.IsValid() {
		options.PaperSize = printing.PaperSizeA4
	}
	return &Service{
		templates: templates,
		renderer:  renderer,
		sheets:    sheets,
		options:   options,
		logger:    logger,
		now:       time.Now,
	}
}

// SetArchive enables archiving of every generated document
func (s *Service) SetArchive(archive printing.DocumentArchive) {
	s.archive = archive
}

// SetRecorder sets the metrics sink for exports
func (s *Service) SetRecorder(recorder Recorder) {
	s.recorder = recorder
}

// ExportCustomers renders the customer list as a spreadsheet or PDF report
func (s *Service) ExportCustomers(ctx context.Context, customers []partner.Customer, format printing.Format) (*printing.Document, error) {
	now := s.now()
	return s.exportTable(ctx, tableExport{
		docType:     printing.DocTypeCustomerList,
		format:      format,
		sheet:       CustomersSheet,
		fileName:    BatchFileName(CustomersFilePrefix, s.options.ShopTag, format, now),
		orientation: printing.OrientationPortrait,
		table:       CustomerTable(customers, now),
		at:          now,
	})
}

// ExportOrders renders the order summary as a spreadsheet or PDF report
func (s *Service) ExportOrders(ctx context.Context, orders []trade.Order, format printing.Format) (*printing.Document, error) {
	now := s.now()
	return s.exportTable(ctx, tableExport{
		docType:     printing.DocTypeOrderSummary,
		format:      format,
		sheet:       OrdersSheet,
		fileName:    BatchFileName(OrdersFilePrefix, s.options.ShopTag, format, now),
		orientation: printing.OrientationLandscape,
		table:       OrderTable(orders, now),
		at:          now,
	})
}

// Invoice renders the invoice PDF of a single order
func (s *Service) Invoice(ctx context.Context, order *trade.Order) (*printing.Document, error) {
	start := s.now()
	docType, format := printing.DocTypeInvoice, printing.FormatPDF
	ctx, span := telemetry.StartServiceSpan(ctx, "export", "invoice",
		telemetry.SpanAttrOrderID, order.ID.String())
	defer span.End()

	data, err := s.renderInvoice(ctx, order, start)
	s.record(ctx, docType, format, start, err)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("invoice export failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		return nil, exportFailed(docType)
	}

	doc := &printing.Document{
		Type:        docType,
		Format:      format,
		FileName:    InvoiceFileName(order),
		ContentType: format.ContentType(),
		Data:        data,
	}
	s.finish(ctx, doc, start, zap.String("order_id", order.ID.String()))
	return doc, nil
}

type tableExport struct {
	docType     printing.DocType
	format      printing.Format
	sheet       string
	fileName    string
	orientation printing.Orientation
	table       printing.Table
	at          time.Time
}

func (s *Service) exportTable(ctx context.Context, e tableExport) (*printing.Document, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "export", "table",
		telemetry.SpanAttrDocument, e.docType,
		telemetry.SpanAttrFormat, string(e.format),
		telemetry.SpanAttrRows, len(e.table.Rows))
	defer span.End()

	var (
		data []byte
		err  error
	)
	switch e.format {
	case printing.FormatXLSX:
		data, err = s.sheets.Write(e.sheet, e.table)
	case printing.FormatPDF:
		data, err = s.renderReport(ctx, e)
	default:
		return nil, shared.NewValidationError("Unsupported export format: " + string(e.format))
	}
	if err == nil && len(data) == 0 {
		err = errors.New("empty document")
	}

	s.record(ctx, e.docType, e.format, e.at, err)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("export failed",
			zap.String("document", e.docType.String()),
			zap.String("format", string(e.format)),
			zap.Int("rows", len(e.table.Rows)),
			zap.Error(err))
		return nil, exportFailed(e.docType)
	}

	doc := &printing.Document{
		Type:        e.docType,
		Format:      e.format,
		FileName:    e.fileName,
		ContentType: e.format.ContentType(),
		Data:        data,
	}
	s.finish(ctx, doc, e.at, zap.Int("rows", len(e.table.Rows)))
	return doc, nil
}

func (s *Service) renderReport(ctx context.Context, e tableExport) ([]byte, error) {
	html, err := s.templates.RenderReport(printing.ReportView{
		Letterhead: s.options.Letterhead,
		Table:      e.table,
	})
	if err != nil {
		return nil, err
	}
	return s.renderPDF(ctx, html, e.table.Title, e.orientation, infra.PageFooterHTML)
}

func (s *Service) renderInvoice(ctx context.Context, order *trade.Order, issuedAt time.Time) ([]byte, error) {
	html, err := s.templates.RenderInvoice(BuildInvoice(order, s.options.Letterhead, issuedAt))
	if err != nil {
		return nil, err
	}
	return s.renderPDF(ctx, html, "Invoice "+order.Reference(), printing.OrientationPortrait, "")
}

func (s *Service) renderPDF(ctx context.Context, html, title string, orientation printing.Orientation, footer string) ([]byte, error) {
	result, err := s.renderer.Render(ctx, &infra.RenderRequest{
		HTML:        html,
		PaperSize:   s.options.PaperSize,
		Orientation: orientation,
		Margins:     printing.DefaultMargins(),
		Title:       title,
		FooterHTML:  footer,
		Timeout:     s.options.RenderTimeout,
	})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

// finish archives a successfully generated document. An archive failure is
// logged and never withholds the document from the caller.
func (s *Service) finish(ctx context.Context, doc *printing.Document, at time.Time, fields ...zap.Field) {
	fields = append(fields,
		zap.String("document", doc.Type.String()),
		zap.String("format", string(doc.Format)),
		zap.String("file_name", doc.FileName),
		zap.Int("bytes", doc.Size()),
	)

	if s.archive != nil {
		key, err := s.archive.Archive(ctx, doc, at)
		if err != nil {
			s.logger.Warn("failed to archive document", append(fields, zap.Error(err))...)
		} else {
			fields = append(fields, zap.String("archive_key", key))
		}
	}
	s.logger.Info("document exported", fields...)
}

func (s *Service) record(ctx context.Context, docType printing.DocType, format printing.Format, start time.Time, err error) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordDocumentRendered(ctx, docType, format, s.now().Sub(start), err)
}

func exportFailed(docType printing.DocType) error {
	return shared.NewDomainError(shared.CodeExportFailed, "Failed to generate "+docType.DisplayName())
}
