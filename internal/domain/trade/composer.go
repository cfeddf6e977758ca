package trade

import (
	"encoding/json"
	"strings"

	"github.com/nizy/tailor/internal/domain/shared/valueobject"
)

// PredefinedLine is the draft state of a togglable garment line. Quantity and
// cost of a disabled line are kept for the form only and never billed.
type PredefinedLine struct {
	Enabled  bool              `json:"enabled"`
	Quantity int               `json:"quantity"`
	UnitCost valueobject.Money `json:"unitCost"`
}

// CustomLine is a free-form, user-named line
type CustomLine struct {
	Label    string            `json:"label"`
	Quantity int               `json:"quantity"`
	UnitCost valueobject.Money `json:"unitCost"`
}

// LineDraft is everything the order form edits about line items
type LineDraft struct {
	Shirt  PredefinedLine `json:"shirt"`
	Pant   PredefinedLine `json:"pant"`
	Custom []CustomLine   `json:"custom"`
}

// UnmarshalJSON decodes the toggle leniently; malformed numbers become zero
func (p *PredefinedLine) UnmarshalJSON(data []byte) error {
	var raw struct {
		Enabled  bool            `json:"enabled"`
		Quantity json.RawMessage `json:"quantity"`
		UnitCost json.RawMessage `json:"unitCost"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Enabled = raw.Enabled
	p.Quantity = valueobject.LenientInt(raw.Quantity)
	p.UnitCost = valueobject.NewMoney(valueobject.LenientDecimal(raw.UnitCost))
	return nil
}

// UnmarshalJSON decodes the row leniently; malformed numbers become zero
func (c *CustomLine) UnmarshalJSON(data []byte) error {
	var raw struct {
		Label    string          `json:"label"`
		Quantity json.RawMessage `json:"quantity"`
		UnitCost json.RawMessage `json:"unitCost"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Label = raw.Label
	c.Quantity = valueobject.LenientInt(raw.Quantity)
	c.UnitCost = valueobject.NewMoney(valueobject.LenientDecimal(raw.UnitCost))
	return nil
}

// DefaultLineDraft returns the form state for a new order: both garments
// disabled with a quantity of one.
func DefaultLineDraft() LineDraft {
	return LineDraft{
		Shirt:  PredefinedLine{Quantity: 1, UnitCost: valueobject.Zero()},
		Pant:   PredefinedLine{Quantity: 1, UnitCost: valueobject.Zero()},
		Custom: []CustomLine{},
	}
}

// ComposeLines merges the draft into the ordered line list of an order.
// Enabled predefined lines come first, shirt before pant, followed by custom
// lines in edit order. A custom row without a label is billed as
// DefaultCustomLabel; only a row with neither a label nor a cost is left out.
func ComposeLines(draft LineDraft) []LineItem {
	lines := make([]LineItem, 0, 2+len(draft.Custom))

	if draft.Shirt.Enabled {
		lines = append(lines, LineItem{
			Kind:     KindShirt,
			Label:    "Shirt",
			Quantity: draft.Shirt.Quantity,
			UnitCost: draft.Shirt.UnitCost,
		})
	}
	if draft.Pant.Enabled {
		lines = append(lines, LineItem{
			Kind:     KindPant,
			Label:    "Pant",
			Quantity: draft.Pant.Quantity,
			UnitCost: draft.Pant.UnitCost,
		})
	}

	for _, custom := range draft.Custom {
		label := strings.TrimSpace(custom.Label)
		kind := CustomKind(label)
		if label == "" {
			if custom.UnitCost.IsZero() {
				continue
			}
			label, kind = DefaultCustomLabel, KindCustom
		}
		lines = append(lines, LineItem{
			Kind:     kind,
			Label:    label,
			Quantity: custom.Quantity,
			UnitCost: custom.UnitCost,
		})
	}

	return lines
}

// DecomposeLines turns stored lines back into form state. The first shirt
// and pant lines become the enabled toggles; every other line is custom.
func DecomposeLines(lines []LineItem) LineDraft {
	draft := DefaultLineDraft()

	for _, line := range lines {
		switch {
		case line.Kind == KindShirt && !draft.Shirt.Enabled:
			draft.Shirt = PredefinedLine{Enabled: true, Quantity: line.Quantity, UnitCost: line.UnitCost}
		case line.Kind == KindPant && !draft.Pant.Enabled:
			draft.Pant = PredefinedLine{Enabled: true, Quantity: line.Quantity, UnitCost: line.UnitCost}
		default:
			label := line.Label
			if label == "" {
				label = line.Kind.DisplayName()
			}
			draft.Custom = append(draft.Custom, CustomLine{
				Label:    label,
				Quantity: line.Quantity,
				UnitCost: line.UnitCost,
			})
		}
	}

	return draft
}
