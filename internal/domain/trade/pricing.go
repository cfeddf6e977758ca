package trade

import "github.com/nizy/tailor/internal/domain/shared/valueobject"

// Totals holds the derived monetary state of an order
type Totals struct {
	Total         valueobject.Money
	Balance       valueobject.Money
	PaymentStatus PaymentStatus
}

// ComputeTotal sums quantity × unit cost over all lines. An empty list
// totals zero.
func ComputeTotal(lines []LineItem) valueobject.Money {
	total := valueobject.Zero()
	for _, line := range lines {
		total = total.Add(line.LineTotal())
	}
	return total
}

// ComputeBalance returns total - paid without clamping
func ComputeBalance(total, paid valueobject.Money) valueobject.Money {
	return total.Subtract(paid)
}

// ClassifyPaymentStatus partitions (balance, paid) into exactly one status
func ClassifyPaymentStatus(balance, paid valueobject.Money) PaymentStatus {
	switch {
	case !balance.IsPositive():
		return PaymentStatusPaid
	case paid.IsPositive():
		return PaymentStatusPartial
	default:
		return PaymentStatusPending
	}
}

// Reconcile computes the full derived state for a line list and paid amount
func Reconcile(lines []LineItem, paid valueobject.Money) Totals {
	total := ComputeTotal(lines)
	balance := ComputeBalance(total, paid)
	return Totals{
		Total:         total,
		Balance:       balance,
		PaymentStatus: ClassifyPaymentStatus(balance, paid),
	}
}
