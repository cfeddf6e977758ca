package export

import (
	"time"

	"github.com/nizy/tailor/internal/domain/printing"
	"github.com/nizy/tailor/internal/domain/trade"
)

// Fixed invoice wording
const (
	InvoiceItemDescription = "Custom Tailored"
	InvoiceThankYou        = "Thank you for your business!"
	InvoiceTermsTitle      = "Terms & Conditions:"
)

// InvoiceTerms are printed below the totals of every invoice
var InvoiceTerms = []string{
	"1. No refunds on custom stitched items.",
	"2. Please collect items within 30 days of due date.",
}

// BuildInvoice lays out the invoice for one order, issued at the given time.
// Totals are recomputed from the order's lines.
func BuildInvoice(order *trade.Order, letterhead printing.Letterhead, issuedAt time.Time) printing.InvoiceView {
	lines := make([]printing.InvoiceLine, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, printing.InvoiceLine{
			Item:        capitalize(l.Kind.String()),
			Description: InvoiceItemDescription,
			Quantity:    itoa(l.Quantity),
			Price:       FormatMoney(l.UnitCost),
			Total:       FormatMoney(l.LineTotal()),
		})
	}

	totals := order.Totals()
	return printing.InvoiceView{
		Letterhead:  letterhead,
		Number:      order.Reference(),
		BillToName:  order.Customer.Name,
		BillToPhone: order.Customer.Phone,
		IssueDate:   issuedAt.Format(DisplayDateLayout),
		DueDate:     FormatDate(order.DueDate),
		Lines:       lines,
		Total:       FormatMoney(totals.Total),
		Paid:        FormatMoney(order.Paid),
		Balance:     FormatMoney(totals.Balance),
		ThankYou:    InvoiceThankYou,
		TermsTitle:  InvoiceTermsTitle,
		Terms:       InvoiceTerms,
	}
}
