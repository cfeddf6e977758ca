// Package printing provides the document rendering infrastructure:
// HTML templates for the shop's reports and invoices, HTML to PDF renderers
// and the document archive.
//
// This package contains:
// - TemplateEngine, which renders the embedded report and invoice templates
// - PDFRenderer with a chromedp implementation and a Gotenberg implementation
// - DocumentStorage with a FileSystemStorage implementation that writes
//   through a temporary file so a failed write never leaves a partial file
//
// Example usage:
//
//	engine, err := NewTemplateEngine()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html, err := engine.Render(TemplateInvoice, view)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	renderer := NewGotenbergRenderer(&GotenbergConfig{URL: "http://localhost:3000"})
//	result, err := renderer.Render(ctx, &RenderRequest{
//	    HTML:        html,
//	    PaperSize:   printing.PaperSizeA4,
//	    Orientation: printing.OrientationPortrait,
//	})
package printing
