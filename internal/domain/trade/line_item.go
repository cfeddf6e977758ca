package trade

import (
	"encoding/json"
	"strings"

	"github.com/nizy/tailor/internal/domain/shared/valueobject"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LineKind tags an order line. Shirt and pant are the predefined kinds; any
// other value is a custom kind derived from the line's label.
type LineKind string

const (
	KindShirt LineKind = "shirt"
	KindPant  LineKind = "pant"
	// KindCustom tags a priced custom line that was given no label
	KindCustom LineKind = "custom"
)

// DefaultCustomLabel names a custom line that was given no label
const DefaultCustomLabel = "Item"

// CustomKind derives the kind tag of a free-form line from its label
func CustomKind(label string) LineKind {
	return LineKind(cases.Lower(language.Und).String(strings.TrimSpace(label)))
}

// IsPredefined reports whether the kind is one of the togglable garments
func (k LineKind) IsPredefined() bool {
	return k == KindShirt || k == KindPant
}

// DisplayName returns the kind with each word capitalized
func (k LineKind) DisplayName() string {
	return cases.Title(language.Und).String(string(k))
}

// String returns the string representation of LineKind
func (k LineKind) String() string {
	return string(k)
}

// LineItem is one billable row of an order. The line total is never stored.
type LineItem struct {
	Kind     LineKind          `json:"kind"`
	Label    string            `json:"label"`
	Quantity int               `json:"quantity"`
	UnitCost valueobject.Money `json:"unitCost"`
}

// LineTotal returns quantity × unit cost
func (l LineItem) LineTotal() valueobject.Money {
	return l.UnitCost.MultiplyByInt(int64(l.Quantity))
}

// UnmarshalJSON decodes a line leniently: a quantity or cost that is missing,
// null or not a number decodes as zero.
func (l *LineItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind     LineKind        `json:"kind"`
		Label    string          `json:"label"`
		Quantity json.RawMessage `json:"quantity"`
		UnitCost json.RawMessage `json:"unitCost"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	l.Kind = raw.Kind
	l.Label = raw.Label
	l.Quantity = valueobject.LenientInt(raw.Quantity)
	l.UnitCost = valueobject.NewMoney(valueobject.LenientDecimal(raw.UnitCost))
	return nil
}
