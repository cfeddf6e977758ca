package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/nizy/tailor/internal/domain/printing"
	"go.uber.org/zap"
)

// RenderRequest describes one HTML document to print
type RenderRequest struct {
	HTML        string
	PaperSize   printing.PaperSize
	Orientation printing.Orientation
	// Margins in millimetres; zero means printing.DefaultMargins
	Margins printing.Margins
	// Title goes into the <title> of fragments
	Title string
	// FooterHTML is repeated at the bottom of every page
	FooterHTML string
	// Timeout overrides the renderer default when set
	Timeout time.Duration
}

// RenderResult is a printed document
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer prints HTML documents to PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// Error codes carried by RenderError
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeTemplateFailed   = "TEMPLATE_FAILED"
	ErrCodeStorageFailed    = "STORAGE_FAILED"
)

// RenderError is returned by everything in this package that produces or
// stores a document
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

// NewRenderError creates a RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

func validateRequest(req *RenderRequest) error {
	switch {
	case req == nil:
		return NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	case strings.TrimSpace(req.HTML) == "":
		return NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	case !req.PaperSize.IsValid():
		return NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.PaperSize), nil)
	}
	return nil
}

// renderTimeout picks the request's own timeout over the renderer default
func renderTimeout(req *RenderRequest, fallback time.Duration) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	return fallback
}

// interrupted maps a failure caused by ctx ending into a timeout error. It
// returns nil when ctx is still live.
func interrupted(ctx context.Context, timeout time.Duration, cause error) *RenderError {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return NewRenderError(ErrCodeRenderTimeout, fmt.Sprintf("PDF rendering timed out after %v", timeout), cause)
	case errors.Is(ctx.Err(), context.Canceled):
		return NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", cause)
	}
	return nil
}

// finishRender checks the printed bytes and records how the render went
func finishRender(logger *zap.Logger, renderer string, data []byte, started time.Time) (*RenderResult, error) {
	if !looksLikePDF(data) {
		return nil, NewRenderError(ErrCodeRenderFailed, renderer+" returned a non-PDF body", nil)
	}
	result := &RenderResult{
		PDFData:        data,
		PageCount:      estimatePageCount(data),
		RenderDuration: time.Since(started),
	}
	logger.Debug("PDF rendered",
		zap.String("renderer", renderer),
		zap.Int("bytes", len(data)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result, nil
}

var (
	pageMarker  = []byte("/Type /Page")
	pagesMarker = []byte("/Type /Pages")
)

// estimatePageCount counts page objects. The page-tree node shares the
// "/Type /Page" prefix and is subtracted. Never less than one.
func estimatePageCount(pdfData []byte) int {
	return max(bytes.Count(pdfData, pageMarker)-bytes.Count(pdfData, pagesMarker), 1)
}

func looksLikePDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// buildCompleteHTML wraps a fragment in a full document; complete documents
// pass through untouched
func buildCompleteHTML(req *RenderRequest) string {
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return req.HTML
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	if req.Title != "" {
		fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(req.Title))
	}
	b.WriteString("</head><body>")
	b.WriteString(req.HTML)
	b.WriteString("</body></html>")
	return b.String()
}

// pageMargins returns the request margins in millimetres, with the bottom
// margin widened to fit a footer
func pageMargins(req *RenderRequest) printing.Margins {
	m := req.Margins
	if m.IsZero() {
		m = printing.DefaultMargins()
	}
	if req.FooterHTML != "" && m.Bottom < minFooterMarginMM {
		m.Bottom = minFooterMarginMM
	}
	return m
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}
