package printing

// Margins represents the page margins in millimeters
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// DefaultMargins returns the default page margins for A4 paper
func DefaultMargins() Margins {
	return Margins{
		Top:    10,
		Right:  10,
		Bottom: 10,
		Left:   10,
	}
}

// IsZero returns true if all margins are zero
func (m Margins) IsZero() bool {
	return m.Top == 0 && m.Right == 0 && m.Bottom == 0 && m.Left == 0
}

// Document is a fully generated export ready to hand to the caller
type Document struct {
	Type        DocType
	Format      Format
	FileName    string
	ContentType string
	Data        []byte
}

// Size returns the document size in bytes
func (d *Document) Size() int {
	return len(d.Data)
}
