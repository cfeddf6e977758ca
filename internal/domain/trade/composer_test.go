package trade

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(lines []LineItem) []LineKind {
	out := make([]LineKind, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Kind)
	}
	return out
}

func TestComposeLines(t *testing.T) {
	tests := []struct {
		name     string
		draft    LineDraft
		expected []LineKind
	}{
		{
			name:     "nothing enabled",
			draft:    DefaultLineDraft(),
			expected: []LineKind{},
		},
		{
			name: "predefined lines precede custom lines",
			draft: LineDraft{
				Pant:   PredefinedLine{Enabled: true, Quantity: 1},
				Custom: []CustomLine{{Label: "Blazer", Quantity: 1}, {Label: "Kurta", Quantity: 2}},
				Shirt:  PredefinedLine{Enabled: true, Quantity: 2},
			},
			expected: []LineKind{KindShirt, KindPant, "blazer", "kurta"},
		},
		{
			name: "disabled lines contribute nothing",
			draft: LineDraft{
				Shirt:  PredefinedLine{Enabled: false, Quantity: 5, UnitCost: money(500)},
				Pant:   PredefinedLine{Enabled: true, Quantity: 1},
				Custom: nil,
			},
			expected: []LineKind{KindPant},
		},
		{
			name: "unlabelled priced row is billed as a custom item",
			draft: LineDraft{
				Custom: []CustomLine{{Label: "  ", Quantity: 1, UnitCost: money(100)}, {Label: "Sherwani", Quantity: 1}},
			},
			expected: []LineKind{KindCustom, "sherwani"},
		},
		{
			name: "empty row without label or cost is dropped",
			draft: LineDraft{
				Custom: []CustomLine{{Label: "", Quantity: 1}, {Label: "Sherwani", Quantity: 1}},
			},
			expected: []LineKind{"sherwani"},
		},
		{
			name: "duplicate custom labels stay separate",
			draft: LineDraft{
				Custom: []CustomLine{{Label: "Kurta", Quantity: 1}, {Label: "Kurta", Quantity: 3}},
			},
			expected: []LineKind{"kurta", "kurta"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, kinds(ComposeLines(tt.draft)))
		})
	}
}

func TestComposeLines_CarriesValues(t *testing.T) {
	lines := ComposeLines(LineDraft{
		Shirt:  PredefinedLine{Enabled: true, Quantity: 2, UnitCost: money(500)},
		Custom: []CustomLine{{Label: " Nehru Jacket ", Quantity: 1, UnitCost: money(1800)}},
	})

	require.Len(t, lines, 2)
	assert.Equal(t, LineItem{Kind: KindShirt, Label: "Shirt", Quantity: 2, UnitCost: money(500)}, lines[0])
	assert.Equal(t, LineKind("nehru jacket"), lines[1].Kind)
	assert.Equal(t, "Nehru Jacket", lines[1].Label)
	assert.Equal(t, "1800", lines[1].LineTotal().String())
}

func TestDecomposeLines_RoundTrip(t *testing.T) {
	draft := LineDraft{
		Shirt:  PredefinedLine{Enabled: true, Quantity: 2, UnitCost: money(500)},
		Pant:   PredefinedLine{Enabled: true, Quantity: 1, UnitCost: money(700)},
		Custom: []CustomLine{{Label: "Blazer", Quantity: 1, UnitCost: money(1500)}},
	}

	lines := ComposeLines(draft)
	back := DecomposeLines(lines)

	assert.Equal(t, draft.Shirt, back.Shirt)
	assert.Equal(t, draft.Pant, back.Pant)
	assert.Equal(t, draft.Custom, back.Custom)
	assert.Equal(t, lines, ComposeLines(back), "re-saving does not duplicate garments")
}

func TestDecomposeLines_OnlyCustom(t *testing.T) {
	back := DecomposeLines([]LineItem{{Kind: "blazer", Quantity: 1, UnitCost: money(1500)}})

	assert.False(t, back.Shirt.Enabled)
	assert.Equal(t, 1, back.Shirt.Quantity, "defaults are kept for disabled toggles")
	require.Len(t, back.Custom, 1)
	assert.Equal(t, "Blazer", back.Custom[0].Label)
}

func TestLineKind_DisplayName(t *testing.T) {
	assert.Equal(t, "Shirt", KindShirt.DisplayName())
	assert.Equal(t, "Nehru Jacket", LineKind("nehru jacket").DisplayName())
	assert.True(t, KindPant.IsPredefined())
	assert.False(t, LineKind("blazer").IsPredefined())
}

func TestLineItem_JSON(t *testing.T) {
	data, err := json.Marshal(LineItem{Kind: KindShirt, Label: "Shirt", Quantity: 2, UnitCost: money(500)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"shirt","label":"Shirt","quantity":2,"unitCost":500}`, string(data))
}

func TestLineDraft_LenientJSON(t *testing.T) {
	var draft LineDraft
	err := json.Unmarshal([]byte(`{
		"shirt": {"enabled": true, "quantity": "2", "unitCost": "500"},
		"pant": {"enabled": true, "quantity": "", "unitCost": 650},
		"custom": [{"label": "Blazer", "quantity": 1, "unitCost": "n/a"}]
	}`), &draft)
	require.NoError(t, err)

	assert.Equal(t, 2, draft.Shirt.Quantity)
	assert.Equal(t, 0, draft.Pant.Quantity)
	assert.Equal(t, "1000", ComputeTotal(ComposeLines(draft)).String())
}
