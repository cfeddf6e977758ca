package printing

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/nizy/tailor/internal/domain/printing"
)

// Template names of the embedded documents
const (
	TemplateReport  = "report.html"
	TemplateInvoice = "invoice.html"
)

// PageFooterHTML numbers the pages of multi-page reports. The class names
// are filled in by Chromium.
const PageFooterHTML = `<div style="font-size:8px;width:100%;text-align:center;color:#646464;">` +
	`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`

//go:embed templates/*.html
var templateFS embed.FS

// TemplateEngine renders the embedded report and invoice templates.
// Templates are parsed once; Render is safe for concurrent use.
type TemplateEngine struct {
	templates *template.Template
}

// NewTemplateEngine parses the embedded templates
func NewTemplateEngine() (*TemplateEngine, error) {
	tmpl, err := template.New("documents").Funcs(funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "failed to parse templates", err)
	}
	return &TemplateEngine{templates: tmpl}, nil
}

// Render executes the named template with data
func (e *TemplateEngine) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute template "+name, err)
	}
	return buf.String(), nil
}

// RenderReport renders a tabular report
func (e *TemplateEngine) RenderReport(view printing.ReportView) (string, error) {
	return e.Render(TemplateReport, view)
}

// RenderInvoice renders a single-order invoice
func (e *TemplateEngine) RenderInvoice(view printing.InvoiceView) (string, error) {
	return e.Render(TemplateInvoice, view)
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"upper":    strings.ToUpper,
		"join":     strings.Join,
		"truncate": truncate,
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
