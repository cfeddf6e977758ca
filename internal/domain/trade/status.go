package trade

// OrderStatus represents the fulfilment state of an order. It is independent
// of payment state.
type OrderStatus string

const (
	OrderStatusPending            OrderStatus = "Pending"
	OrderStatusPartiallyCompleted OrderStatus = "Partially Completed"
	OrderStatusCompleted          OrderStatus = "Completed"
	OrderStatusDelivered          OrderStatus = "Delivered"
)

// AllOrderStatuses returns the lifecycle states in workflow order
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusPartiallyCompleted,
		OrderStatusCompleted,
		OrderStatusDelivered,
	}
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPartiallyCompleted, OrderStatusCompleted, OrderStatusDelivered:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The shop moves orders freely, so any valid state may follow any other.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	return s.IsValid() && target.IsValid()
}

// IsActive reports whether work on the order is still outstanding
func (s OrderStatus) IsActive() bool {
	return s != OrderStatusCompleted && s != OrderStatusDelivered
}

// PaymentStatus is the derived payment classification of an order
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusPartial PaymentStatus = "Partial"
	PaymentStatusPending PaymentStatus = "Pending"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPartial, PaymentStatusPending:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}
