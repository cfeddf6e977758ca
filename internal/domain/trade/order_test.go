package trade

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/domain/shared"
	"github.com/nizy/tailor/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = valueobject.NewDate(2026, time.October, 15)

// Test helpers
func createTestDraft() OrderDraft {
	draft := NewOrderDraft(today)
	draft.Customer = CustomerSnapshot{ID: uuid.New(), Name: "Ravi Kumar", Phone: "98765 43210"}
	draft.Lines.Shirt = PredefinedLine{Enabled: true, Quantity: 2, UnitCost: money(500)}
	draft.Lines.Custom = []CustomLine{{Label: "Blazer", Quantity: 1, UnitCost: money(1500)}}
	draft.Paid = money(1000)
	return draft
}

func createTestOrder(t *testing.T) *Order {
	order, err := NewOrder(createTestDraft(), time.Now())
	require.NoError(t, err)
	return order
}

func assertValidation(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, shared.CodeValidation, domainErr.Code)
	assert.Equal(t, message, domainErr.Message)
}

// ============================================
// OrderStatus Tests
// ============================================

func TestOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  OrderStatus
		isValid bool
	}{
		{OrderStatusPending, true},
		{OrderStatusPartiallyCompleted, true},
		{OrderStatusCompleted, true},
		{OrderStatusDelivered, true},
		{OrderStatus("Cancelled"), false},
		{OrderStatus("pending"), false},
		{OrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	for _, from := range AllOrderStatuses() {
		for _, to := range AllOrderStatuses() {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				assert.True(t, from.CanTransitionTo(to))
			})
		}
	}
	assert.False(t, OrderStatusPending.CanTransitionTo("Shipped"))
}

func TestOrderStatus_IsActive(t *testing.T) {
	assert.True(t, OrderStatusPending.IsActive())
	assert.True(t, OrderStatusPartiallyCompleted.IsActive())
	assert.False(t, OrderStatusCompleted.IsActive())
	assert.False(t, OrderStatusDelivered.IsActive())
}

// ============================================
// Draft Tests
// ============================================

func TestNewOrderDraft_Defaults(t *testing.T) {
	draft := NewOrderDraft(today)

	assert.Equal(t, OrderStatusPending, draft.Status)
	assert.Equal(t, "2026-10-22", draft.DueDate.String())
	assert.True(t, draft.Paid.IsZero())
	assert.False(t, draft.Lines.Shirt.Enabled)
	assert.False(t, draft.Lines.Pant.Enabled)
	assert.Equal(t, 1, draft.Lines.Pant.Quantity)
	assert.Empty(t, draft.Lines.Custom)
}

func TestOrderDraft_Commit(t *testing.T) {
	t.Run("no customer selected", func(t *testing.T) {
		draft := createTestDraft()
		draft.Customer = CustomerSnapshot{}

		_, err := draft.Commit()
		assertValidation(t, err, MsgSelectCustomer)
	})

	t.Run("nothing enabled and no custom lines", func(t *testing.T) {
		draft := createTestDraft()
		draft.Lines = DefaultLineDraft()

		_, err := draft.Commit()
		assertValidation(t, err, MsgAddItem)
	})

	t.Run("only blank custom rows", func(t *testing.T) {
		draft := createTestDraft()
		draft.Lines = LineDraft{Custom: []CustomLine{{Label: ""}, {Label: "   "}}}

		_, err := draft.Commit()
		assertValidation(t, err, MsgAddItem)
	})

	t.Run("negative paid", func(t *testing.T) {
		draft := createTestDraft()
		draft.Paid = money(-1)

		_, err := draft.Commit()
		assertValidation(t, err, MsgNegativePaid)
	})

	t.Run("paid below a cent", func(t *testing.T) {
		draft := createTestDraft()
		draft.Paid = valueobject.LenientMoney("999.999")

		_, err := draft.Commit()
		assertValidation(t, err, MsgAmountPrecision)
	})

	t.Run("unit cost below a cent", func(t *testing.T) {
		draft := createTestDraft()
		draft.Lines.Custom[0].UnitCost = valueobject.LenientMoney("1500.005")

		_, err := draft.Commit()
		assertValidation(t, err, MsgAmountPrecision)
	})

	t.Run("whole cents are accepted", func(t *testing.T) {
		draft := createTestDraft()
		draft.Paid = valueobject.LenientMoney("999.50")
		draft.Lines.Custom[0].UnitCost = valueobject.LenientMoney("1500.25")

		_, err := draft.Commit()
		assert.NoError(t, err)
	})

	t.Run("negative quantity", func(t *testing.T) {
		draft := createTestDraft()
		draft.Lines.Shirt.Quantity = -2

		_, err := draft.Commit()
		assertValidation(t, err, MsgNegativeLine)
	})

	t.Run("unknown status", func(t *testing.T) {
		draft := createTestDraft()
		draft.Status = "Shipped"

		_, err := draft.Commit()
		assertValidation(t, err, MsgInvalidStatus)
	})

	t.Run("overpayment is accepted", func(t *testing.T) {
		draft := createTestDraft()
		draft.Paid = money(3000)

		lines, err := draft.Commit()
		require.NoError(t, err)
		assert.Len(t, lines, 2)
	})
}

// ============================================
// Order Tests
// ============================================

func TestNewOrder(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	order, err := NewOrder(createTestDraft(), now)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, now, order.UpdatedAt)
	assert.Equal(t, "Ravi Kumar", order.Customer.Name)
	assert.Equal(t, []LineKind{KindShirt, "blazer"}, kinds(order.Lines))
	require.NotNil(t, order.Cached)
	assert.Equal(t, "2500", order.Cached.Total.String())
	assert.Equal(t, "1500", order.Cached.Balance.String())
	assert.Equal(t, PaymentStatusPartial, order.Cached.PaymentStatus)
}

func TestNewOrder_RejectedDraftCreatesNothing(t *testing.T) {
	draft := createTestDraft()
	draft.Lines = DefaultLineDraft()

	order, err := NewOrder(draft, time.Now())

	assert.Nil(t, order)
	assertValidation(t, err, MsgAddItem)
}

func TestOrder_Revise(t *testing.T) {
	order := createTestOrder(t)
	originalID := order.ID
	originalSnapshot := order.Customer
	edited := time.Now().Add(time.Hour)

	draft := DraftFromOrder(order)
	draft.Customer.Name = "Renamed Elsewhere"
	draft.Paid = money(2500)
	draft.Status = OrderStatusDelivered

	require.NoError(t, order.Revise(draft, edited))

	assert.Equal(t, originalID, order.ID)
	assert.Equal(t, originalSnapshot, order.Customer, "same customer keeps the billed snapshot")
	assert.Equal(t, edited, order.UpdatedAt)
	assert.Len(t, order.Lines, 2, "lines are not duplicated on resave")
	assert.Equal(t, PaymentStatusPaid, order.Cached.PaymentStatus)

	other := CustomerSnapshot{ID: uuid.New(), Name: "Suresh", Phone: "123"}
	draft.Customer = other
	require.NoError(t, order.Revise(draft, edited))
	assert.Equal(t, other, order.Customer)
}

func TestOrder_Revise_FailureLeavesOrderUnchanged(t *testing.T) {
	order := createTestOrder(t)
	before := *order

	draft := DraftFromOrder(order)
	draft.Lines = DefaultLineDraft()

	assert.Error(t, order.Revise(draft, time.Now()))
	assert.Equal(t, before.Lines, order.Lines)
	assert.Equal(t, before.UpdatedAt, order.UpdatedAt)
}

func TestOrder_Totals_RecomputedValueWins(t *testing.T) {
	order := createTestOrder(t)
	order.Cached = &Totals{Total: money(1), Balance: money(1), PaymentStatus: PaymentStatusPending}

	totals := order.Totals()

	assert.Equal(t, "2500", totals.Total.String())
	assert.Equal(t, PaymentStatusPartial, totals.PaymentStatus)
}

func TestOrder_Totals_CacheUsedWithoutLines(t *testing.T) {
	order := &Order{
		Paid:   money(200),
		Cached: &Totals{Total: money(900), Balance: money(700), PaymentStatus: PaymentStatusPartial},
	}

	assert.Equal(t, "900", order.Totals().Total.String())
}

func TestOrder_Reference(t *testing.T) {
	order := &Order{BaseEntity: shared.BaseEntity{ID: uuid.MustParse("0b7a1f3e-5d2c-4e11-9a4b-12ab34cd56ef")}}

	assert.Equal(t, "CD56EF", order.ShortID())
	assert.Equal(t, "#CD56EF", order.Reference())
}

func TestOrder_IsDueOn(t *testing.T) {
	order := createTestOrder(t)
	order.Lines = []LineItem{{Kind: KindPant, Quantity: 2, UnitCost: money(600)}}
	order.Paid = valueobject.Zero()
	order.DueDate = today

	assert.Equal(t, PaymentStatusPending, order.Totals().PaymentStatus)
	assert.True(t, order.IsDueOn(today))
	assert.False(t, order.IsDueOn(today.AddDays(1)))

	order.Status = OrderStatusDelivered
	assert.False(t, order.IsDueOn(today))

	order.Status = OrderStatusCompleted
	assert.True(t, order.IsDueOn(today), "completed but undelivered orders are still due")

	order.DueDate = valueobject.Date{}
	assert.False(t, order.IsDueOn(today))
}

func TestNewOrder_UnlabelledCustomLineIsBilled(t *testing.T) {
	draft := createTestDraft()
	draft.Lines.Shirt = PredefinedLine{Enabled: true, Quantity: 1, UnitCost: money(500)}
	draft.Lines.Custom = []CustomLine{{Label: "  ", Quantity: 2, UnitCost: money(700)}}
	draft.Paid = money(500)

	order, err := NewOrder(draft, time.Now())
	require.NoError(t, err)

	require.Len(t, order.Lines, 2)
	assert.Equal(t, KindCustom, order.Lines[1].Kind)
	assert.Equal(t, DefaultCustomLabel, order.Lines[1].Label)

	totals := order.Totals()
	assert.True(t, totals.Total.Equals(money(1900)), totals.Total.String())
	assert.True(t, totals.Balance.Equals(money(1400)), totals.Balance.String())
	assert.Equal(t, PaymentStatusPartial, totals.PaymentStatus)
}
