package main

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Deterministic(t *testing.T) {
	today := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	a := newGenerator(42, today)
	b := newGenerator(42, today)

	assert.Equal(t, a.customer(), b.customer())
	id := uuid.New()
	assert.Equal(t, a.order(id), b.order(id))
}

func TestGenerator_Customer(t *testing.T) {
	gen := newGenerator(7, time.Now())
	for i := 0; i < 50; i++ {
		c := gen.customer()
		require.NotEmpty(t, c.Name)
		assert.Len(t, c.Phone, 10)
		assert.Contains(t, c.Measurements.Shirt, "Chest")
		assert.Contains(t, c.Measurements.Pant, "Waist")
	}
}

func TestGenerator_OrderIsBillable(t *testing.T) {
	today := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	gen := newGenerator(3, today)
	customerID := uuid.New()

	for i := 0; i < 100; i++ {
		o := gen.order(customerID)
		lines := trade.ComposeLines(o.Lines)
		require.NotEmpty(t, lines, "every order has at least one line")

		total := trade.ComputeTotal(lines)
		assert.True(t, o.PaidAmount.LessThanOrEqual(total))
		assert.False(t, o.PaidAmount.IsNegative())
		assert.Equal(t, customerID, o.CustomerID)

		due := o.DueDate.Time(time.UTC)
		assert.False(t, due.Before(today.AddDate(0, 0, -10)))
		assert.False(t, due.After(today.AddDate(0, 0, 21)))
	}
}
