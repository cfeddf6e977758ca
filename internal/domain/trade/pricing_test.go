package trade

import (
	"encoding/json"
	"testing"

	"github.com/nizy/tailor/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(v int64) valueobject.Money {
	return valueobject.NewMoneyFromInt(v)
}

// ============================================
// ComputeTotal Tests
// ============================================

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name     string
		lines    []LineItem
		expected string
	}{
		{
			name:     "empty list totals zero",
			lines:    nil,
			expected: "0",
		},
		{
			name: "sum of quantity times cost",
			lines: []LineItem{
				{Kind: KindShirt, Quantity: 2, UnitCost: money(500)},
				{Kind: "blazer", Quantity: 1, UnitCost: money(1500)},
			},
			expected: "2500",
		},
		{
			name: "zero quantity contributes nothing",
			lines: []LineItem{
				{Kind: KindPant, Quantity: 0, UnitCost: money(700)},
				{Kind: KindShirt, Quantity: 3, UnitCost: money(450)},
			},
			expected: "1350",
		},
		{
			name: "fractional cost keeps precision",
			lines: []LineItem{
				{Kind: "kurta", Quantity: 3, UnitCost: valueobject.NewMoneyFromFloat(333.33)},
			},
			expected: "999.99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeTotal(tt.lines).String())
		})
	}
}

func TestComputeTotal_OrderIndependent(t *testing.T) {
	lines := []LineItem{
		{Kind: KindShirt, Quantity: 2, UnitCost: money(500)},
		{Kind: KindPant, Quantity: 1, UnitCost: money(650)},
		{Kind: "blazer", Quantity: 1, UnitCost: money(1500)},
	}
	reversed := []LineItem{lines[2], lines[1], lines[0]}

	assert.True(t, ComputeTotal(lines).Equals(ComputeTotal(reversed)))
	assert.True(t, ComputeTotal(lines).Equals(ComputeTotal(lines)), "idempotent")
}

func TestComputeTotal_MalformedNumbersDegradeToZero(t *testing.T) {
	var lines []LineItem
	err := json.Unmarshal([]byte(`[
		{"kind":"shirt","label":"Shirt","quantity":"two","unitCost":500},
		{"kind":"pant","label":"Pant","quantity":2,"unitCost":"abc"},
		{"kind":"blazer","label":"Blazer","unitCost":null},
		{"kind":"kurta","label":"Kurta","quantity":"3","unitCost":"200"}
	]`), &lines)
	require.NoError(t, err)

	assert.Equal(t, "600", ComputeTotal(lines).String())
}

// ============================================
// Payment Classification Tests
// ============================================

func TestComputeBalance_NoClamping(t *testing.T) {
	assert.Equal(t, "1500", ComputeBalance(money(2500), money(1000)).String())
	assert.Equal(t, "-300", ComputeBalance(money(1200), money(1500)).String())
}

func TestClassifyPaymentStatus(t *testing.T) {
	tests := []struct {
		name     string
		balance  valueobject.Money
		paid     valueobject.Money
		expected PaymentStatus
	}{
		{"settled", money(0), money(1200), PaymentStatusPaid},
		{"overpaid", money(-100), money(1300), PaymentStatusPaid},
		{"nothing owed nothing paid", money(0), money(0), PaymentStatusPaid},
		{"partly paid", money(1500), money(1000), PaymentStatusPartial},
		{"unpaid", money(1200), money(0), PaymentStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyPaymentStatus(tt.balance, tt.paid))
		})
	}
}

func TestClassifyPaymentStatus_ExactlyOneStatus(t *testing.T) {
	for total := int64(0); total <= 1000; total += 250 {
		for paid := int64(0); paid <= 1250; paid += 125 {
			balance := ComputeBalance(money(total), money(paid))
			status := ClassifyPaymentStatus(balance, money(paid))

			matches := 0
			if !balance.IsPositive() {
				matches++
				assert.Equal(t, PaymentStatusPaid, status)
			}
			if balance.IsPositive() && money(paid).IsPositive() {
				matches++
				assert.Equal(t, PaymentStatusPartial, status)
			}
			if balance.IsPositive() && money(paid).IsZero() {
				matches++
				assert.Equal(t, PaymentStatusPending, status)
			}
			assert.Equal(t, 1, matches, "total=%d paid=%d", total, paid)
		}
	}
}

// ============================================
// Scenario Tests
// ============================================

func TestReconcile_Scenarios(t *testing.T) {
	t.Run("shirts and a blazer, part paid", func(t *testing.T) {
		draft := LineDraft{
			Shirt:  PredefinedLine{Enabled: true, Quantity: 2, UnitCost: money(500)},
			Pant:   PredefinedLine{Enabled: false, Quantity: 4, UnitCost: money(900)},
			Custom: []CustomLine{{Label: "Blazer", Quantity: 1, UnitCost: money(1500)}},
		}

		totals := Reconcile(ComposeLines(draft), money(1000))

		assert.Equal(t, "2500", totals.Total.String())
		assert.Equal(t, "1500", totals.Balance.String())
		assert.Equal(t, PaymentStatusPartial, totals.PaymentStatus)
	})

	t.Run("fully paid", func(t *testing.T) {
		lines := []LineItem{{Kind: KindPant, Quantity: 2, UnitCost: money(600)}}

		totals := Reconcile(lines, money(1200))

		assert.Equal(t, "1200", totals.Total.String())
		assert.True(t, totals.Balance.IsZero())
		assert.Equal(t, PaymentStatusPaid, totals.PaymentStatus)
	})

	t.Run("nothing paid", func(t *testing.T) {
		lines := []LineItem{{Kind: KindPant, Quantity: 2, UnitCost: money(600)}}

		totals := Reconcile(lines, valueobject.Zero())

		assert.Equal(t, "1200", totals.Balance.String())
		assert.Equal(t, PaymentStatusPending, totals.PaymentStatus)
	})
}
