package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/domain/shared"
	"github.com/nizy/tailor/internal/domain/shared/valueobject"
)

// DefaultDueDays is how far in the future a new order is due
const DefaultDueDays = 7

// Validation messages shown to the user at the save boundary
const (
	MsgSelectCustomer   = "Please select a customer"
	MsgAddItem          = "Please add at least one item"
	MsgNegativePaid     = "Amount paid cannot be negative"
	MsgNegativeLine     = "Item quantity and cost cannot be negative"
	MsgInvalidStatus    = "Invalid order status"
	MsgNegativeProgress = "Completed counts cannot be negative"
	MsgAmountPrecision  = "Amounts can have at most two decimal places"
)

// CustomerSnapshot is the customer's name and phone copied onto an order when
// it is billed. It is a point-in-time copy and is not refreshed when the
// customer record changes later.
type CustomerSnapshot struct {
	ID    uuid.UUID `json:"customerId"`
	Name  string    `json:"customerName"`
	Phone string    `json:"customerPhone"`
}

// Order is a tailoring bill for one customer
type Order struct {
	shared.BaseEntity
	Customer        CustomerSnapshot
	Lines           []LineItem
	DueDate         valueobject.Date
	Status          OrderStatus
	Paid            valueobject.Money
	ShirtsCompleted int
	PantsCompleted  int

	// Cached is the derived state written at the last save. Totals prefers
	// recomputing from Lines and Paid.
	Cached *Totals
}

// OrderDraft is the editable form state of an order
type OrderDraft struct {
	Customer        CustomerSnapshot  `json:"customer"`
	Lines           LineDraft         `json:"lines"`
	DueDate         valueobject.Date  `json:"dueDate"`
	Status          OrderStatus       `json:"status"`
	Paid            valueobject.Money `json:"paidAmount"`
	ShirtsCompleted int               `json:"shirtsCompleted"`
	PantsCompleted  int               `json:"pantsCompleted"`
}

// NewOrderDraft returns the form defaults for a new order
func NewOrderDraft(today valueobject.Date) OrderDraft {
	return OrderDraft{
		Lines:   DefaultLineDraft(),
		DueDate: today.AddDays(DefaultDueDays),
		Status:  OrderStatusPending,
		Paid:    valueobject.Zero(),
	}
}

// DraftFromOrder returns the form state for editing an existing order
func DraftFromOrder(o *Order) OrderDraft {
	return OrderDraft{
		Customer:        o.Customer,
		Lines:           DecomposeLines(o.Lines),
		DueDate:         o.DueDate,
		Status:          o.Status,
		Paid:            o.Paid,
		ShirtsCompleted: o.ShirtsCompleted,
		PantsCompleted:  o.PantsCompleted,
	}
}

// Commit validates the draft and returns its composed line list
func (d OrderDraft) Commit() ([]LineItem, error) {
	if d.Customer.ID == uuid.Nil {
		return nil, shared.NewValidationError(MsgSelectCustomer)
	}

	lines := ComposeLines(d.Lines)
	if len(lines) == 0 {
		return nil, shared.NewValidationError(MsgAddItem)
	}
	for _, line := range lines {
		if line.Quantity < 0 || line.UnitCost.IsNegative() {
			return nil, shared.NewValidationError(MsgNegativeLine)
		}
		if !wholeCents(line.UnitCost) {
			return nil, shared.NewValidationError(MsgAmountPrecision)
		}
	}

	if d.Paid.IsNegative() {
		return nil, shared.NewValidationError(MsgNegativePaid)
	}
	// paid is stored in a decimal(12,2) column
	if !wholeCents(d.Paid) {
		return nil, shared.NewValidationError(MsgAmountPrecision)
	}
	if d.Status != "" && !d.Status.IsValid() {
		return nil, shared.NewValidationError(MsgInvalidStatus)
	}
	if d.ShirtsCompleted < 0 || d.PantsCompleted < 0 {
		return nil, shared.NewValidationError(MsgNegativeProgress)
	}
	return lines, nil
}

func wholeCents(m valueobject.Money) bool {
	amount := m.Amount()
	return amount.Equal(amount.Round(2))
}

// NewOrder creates an order from a committed draft and enriches it with its
// derived totals
func NewOrder(draft OrderDraft, now time.Time) (*Order, error) {
	lines, err := draft.Commit()
	if err != nil {
		return nil, err
	}

	order := &Order{
		BaseEntity: shared.NewBaseEntityAt(now),
		Customer:   normalizeSnapshot(draft.Customer),
	}
	order.apply(draft, lines)
	order.Enrich()
	return order, nil
}

// Revise replaces the order's mutable fields with the draft. The customer
// snapshot is only replaced when the draft selects a different customer.
func (o *Order) Revise(draft OrderDraft, now time.Time) error {
	lines, err := draft.Commit()
	if err != nil {
		return err
	}
	if draft.Customer.ID != o.Customer.ID {
		o.Customer = normalizeSnapshot(draft.Customer)
	}
	o.apply(draft, lines)
	o.Touch(now)
	o.Enrich()
	return nil
}

// Totals returns the order's derived state. The cache is used only when
// there are no lines to recompute from.
func (o *Order) Totals() Totals {
	if len(o.Lines) == 0 && o.Cached != nil {
		return *o.Cached
	}
	return Reconcile(o.Lines, o.Paid)
}

// Enrich recomputes the derived state and stores it as the save-time cache
func (o *Order) Enrich() {
	totals := Reconcile(o.Lines, o.Paid)
	o.Cached = &totals
}

// ShortID returns the last six characters of the id, upper-cased
func (o *Order) ShortID() string {
	id := o.ID.String()
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return strings.ToUpper(id)
}

// Reference returns the order reference shown on lists and invoices
func (o *Order) Reference() string {
	return "#" + o.ShortID()
}

// IsActive reports whether the order still has outstanding work
func (o *Order) IsActive() bool {
	return o.Status.IsActive()
}

// IsDueOn reports whether the order is due on day and not yet delivered
func (o *Order) IsDueOn(day valueobject.Date) bool {
	return !o.DueDate.IsZero() && o.DueDate.Equal(day) && o.Status != OrderStatusDelivered
}

func (o *Order) apply(draft OrderDraft, lines []LineItem) {
	status := draft.Status
	if status == "" {
		status = OrderStatusPending
	}

	o.Lines = lines
	o.DueDate = draft.DueDate
	o.Status = status
	o.Paid = draft.Paid
	o.ShirtsCompleted = draft.ShirtsCompleted
	o.PantsCompleted = draft.PantsCompleted
}

func normalizeSnapshot(s CustomerSnapshot) CustomerSnapshot {
	s.Name = strings.TrimSpace(s.Name)
	s.Phone = strings.TrimSpace(s.Phone)
	return s
}
