package printing

// Letterhead identifies the shop on every printed document
type Letterhead struct {
	CompanyName string
	Tagline     string
	Phone       string
}

// Table is a titled grid of preformatted cells. The same table backs the
// spreadsheet and the paginated PDF report, so both carry identical columns.
type Table struct {
	Title       string
	GeneratedOn string
	Columns     []string
	Rows        [][]string
}

// Width returns the number of columns
func (t Table) Width() int {
	return len(t.Columns)
}

// ReportView is the content of a tabular PDF report
type ReportView struct {
	Letterhead
	Table Table
}

// InvoiceLine is one itemized row of an invoice
type InvoiceLine struct {
	Item        string
	Description string
	Quantity    string
	Price       string
	Total       string
}

// InvoiceView is the content of a single-order invoice. Every field is
// already formatted for display.
type InvoiceView struct {
	Letterhead
	Number      string
	BillToName  string
	BillToPhone string
	IssueDate   string
	DueDate     string
	Lines       []InvoiceLine
	Total       string
	Paid        string
	Balance     string
	ThankYou    string
	TermsTitle  string
	Terms       []string
}
