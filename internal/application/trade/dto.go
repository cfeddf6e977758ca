package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/domain/shared/valueobject"
	"github.com/nizy/tailor/internal/domain/trade"
)

// ==================== Order DTOs ====================

// OrderRequest represents a request to create or replace an order.
// Customer name and phone are captured from the customer record on the server.
type OrderRequest struct {
	CustomerID      uuid.UUID         `json:"customerId"`
	Lines           trade.LineDraft   `json:"lines"`
	DueDate         valueobject.Date  `json:"dueDate"`
	Status          string            `json:"status" binding:"max=50"`
	PaidAmount      valueobject.Money `json:"paidAmount"`
	ShirtsCompleted int               `json:"shirtsCompleted" binding:"min=0"`
	PantsCompleted  int               `json:"pantsCompleted" binding:"min=0"`
}

// LineResponse is an order line with its derived line total
type LineResponse struct {
	Kind        string            `json:"kind"`
	Label       string            `json:"label"`
	DisplayName string            `json:"displayName"`
	Quantity    int               `json:"quantity"`
	UnitCost    valueobject.Money `json:"unitCost"`
	LineTotal   valueobject.Money `json:"lineTotal"`
}

// OrderResponse represents an order with freshly recomputed totals
type OrderResponse struct {
	ID              uuid.UUID         `json:"id"`
	Reference       string            `json:"reference"`
	CustomerID      uuid.UUID         `json:"customerId"`
	CustomerName    string            `json:"customerName"`
	CustomerPhone   string            `json:"customerPhone"`
	Items           []LineResponse    `json:"items"`
	DueDate         valueobject.Date  `json:"dueDate"`
	Status          string            `json:"status"`
	PaidAmount      valueobject.Money `json:"paidAmount"`
	TotalAmount     valueobject.Money `json:"totalAmount"`
	BalanceAmount   valueobject.Money `json:"balanceAmount"`
	PaymentStatus   string            `json:"paymentStatus"`
	ShirtsCompleted int               `json:"shirtsCompleted"`
	PantsCompleted  int               `json:"pantsCompleted"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// TotalsResponse is the live pricing preview of a draft
type TotalsResponse struct {
	TotalAmount   valueobject.Money `json:"totalAmount"`
	BalanceAmount valueobject.Money `json:"balanceAmount"`
	PaymentStatus string            `json:"paymentStatus"`
}

// OrderFormResponse is the form state for a new or existing order
type OrderFormResponse struct {
	OrderID  *uuid.UUID       `json:"orderId,omitempty"`
	Draft    trade.OrderDraft `json:"draft"`
	Preview  TotalsResponse   `json:"preview"`
	Statuses []string         `json:"statuses"`
}

// OrderListFilter represents the billing list search box and status tabs
type OrderListFilter struct {
	Search string `form:"search" binding:"max=100"`
	Status string `form:"status" binding:"order_status"`
}

// DashboardResponse holds the home screen aggregates
type DashboardResponse struct {
	TotalCustomers  int64             `json:"totalCustomers"`
	TotalOrders     int64             `json:"totalOrders"`
	ActiveOrders    int               `json:"activeOrders"`
	PendingPayments valueobject.Money `json:"pendingPayments"`
	DueToday        int               `json:"dueToday"`
	RecentOrders    []OrderResponse   `json:"recentOrders"`
}

// ToTotalsResponse converts derived totals to a response
func ToTotalsResponse(t trade.Totals) TotalsResponse {
	return TotalsResponse{
		TotalAmount:   t.Total,
		BalanceAmount: t.Balance,
		PaymentStatus: t.PaymentStatus.String(),
	}
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	totals := o.Totals()

	items := make([]LineResponse, len(o.Lines))
	for i, line := range o.Lines {
		items[i] = LineResponse{
			Kind:        line.Kind.String(),
			Label:       line.Label,
			DisplayName: line.Kind.DisplayName(),
			Quantity:    line.Quantity,
			UnitCost:    line.UnitCost,
			LineTotal:   line.LineTotal(),
		}
	}

	return OrderResponse{
		ID:              o.ID,
		Reference:       o.Reference(),
		CustomerID:      o.Customer.ID,
		CustomerName:    o.Customer.Name,
		CustomerPhone:   o.Customer.Phone,
		Items:           items,
		DueDate:         o.DueDate,
		Status:          o.Status.String(),
		PaidAmount:      o.Paid,
		TotalAmount:     totals.Total,
		BalanceAmount:   totals.Balance,
		PaymentStatus:   totals.PaymentStatus.String(),
		ShirtsCompleted: o.ShirtsCompleted,
		PantsCompleted:  o.PantsCompleted,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain Orders to responses
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}

func statusNames() []string {
	all := trade.AllOrderStatuses()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.String()
	}
	return names
}
