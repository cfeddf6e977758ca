package printing

// DocType represents the kind of document the shop can export
type DocType string

const (
	DocTypeCustomerList DocType = "CUSTOMER_LIST"
	DocTypeOrderSummary DocType = "ORDER_SUMMARY"
	DocTypeInvoice      DocType = "INVOICE"
)

// IsValid checks if the DocType is a valid value
func (d DocType) IsValid() bool {
	switch d {
	case DocTypeCustomerList, DocTypeOrderSummary, DocTypeInvoice:
		return true
	}
	return false
}

// String returns the string representation of DocType
func (d DocType) String() string {
	return string(d)
}

// DisplayName returns the document title
func (d DocType) DisplayName() string {
	switch d {
	case DocTypeCustomerList:
		return "Customer List"
	case DocTypeOrderSummary:
		return "Order Summary"
	case DocTypeInvoice:
		return "Invoice"
	default:
		return string(d)
	}
}

// Format is the file format of an exported document
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ParseFormat parses a format query value; empty means PDF
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case "", FormatPDF:
		return FormatPDF, true
	case FormatXLSX:
		return FormatXLSX, true
	}
	return "", false
}

// Extension returns the file extension without the dot
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/pdf"
	}
}

// PaperSize represents the paper size for printing
type PaperSize string

const (
	PaperSizeA4 PaperSize = "A4" // 210mm x 297mm
	PaperSizeA5 PaperSize = "A5" // 148mm x 210mm
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	return p == PaperSizeA4 || p == PaperSizeA5
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the paper dimensions in millimeters (width, height)
func (p PaperSize) Dimensions() (width, height int) {
	switch p {
	case PaperSizeA5:
		return 148, 210
	default:
		return 210, 297
	}
}

// Orientation represents the page orientation for printing
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// IsValid checks if the Orientation is a valid value
func (o Orientation) IsValid() bool {
	return o == OrientationPortrait || o == OrientationLandscape
}

// String returns the string representation of Orientation
func (o Orientation) String() string {
	return string(o)
}
