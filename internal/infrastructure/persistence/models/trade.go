package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/domain/shared/valueobject"
	"github.com/nizy/tailor/internal/domain/trade"
)

// OrderModel is the persistence model for an order. The customer name and
// phone are the snapshot taken when the order was billed. Total, balance and
// payment status are the totals cached at the last save.
type OrderModel struct {
	BaseModel
	CustomerID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	CustomerName    string            `gorm:"type:varchar(200);not null"`
	CustomerPhone   string            `gorm:"type:varchar(50);not null"`
	Lines           string            `gorm:"type:text;not null;default:'[]'"`
	DueDate         valueobject.Date  `gorm:"type:date"`
	Status          string            `gorm:"type:varchar(32);not null;index"`
	PaidAmount      valueobject.Money `gorm:"type:decimal(12,2);not null;default:0"`
	ShirtsCompleted int               `gorm:"not null;default:0"`
	PantsCompleted  int               `gorm:"not null;default:0"`
	TotalAmount     valueobject.Money `gorm:"type:decimal(12,2);not null;default:0"`
	BalanceAmount   valueobject.Money `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentStatus   string            `gorm:"type:varchar(16);not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order. Lines are
// decoded leniently; a malformed quantity or cost reads as zero.
func (m *OrderModel) ToDomain() (*trade.Order, error) {
	lines := []trade.LineItem{}
	if m.Lines != "" {
		if err := json.Unmarshal([]byte(m.Lines), &lines); err != nil {
			return nil, fmt.Errorf("order %s has unreadable lines: %w", m.ID, err)
		}
	}

	cached := trade.Totals{
		Total:         m.TotalAmount,
		Balance:       m.BalanceAmount,
		PaymentStatus: trade.PaymentStatus(m.PaymentStatus),
	}
	return &trade.Order{
		BaseEntity: m.BaseModel.entity(),
		Customer: trade.CustomerSnapshot{
			ID:    m.CustomerID,
			Name:  m.CustomerName,
			Phone: m.CustomerPhone,
		},
		Lines:           lines,
		DueDate:         m.DueDate,
		Status:          trade.OrderStatus(m.Status),
		Paid:            m.PaidAmount,
		ShirtsCompleted: m.ShirtsCompleted,
		PantsCompleted:  m.PantsCompleted,
		Cached:          &cached,
	}, nil
}

// OrderModelFromDomain creates a persistence model from a domain Order. The
// cached columns always hold totals recomputed from the lines being written.
func OrderModelFromDomain(o *trade.Order) (*OrderModel, error) {
	lines := o.Lines
	if lines == nil {
		lines = []trade.LineItem{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return nil, err
	}

	totals := trade.Reconcile(o.Lines, o.Paid)
	m := &OrderModel{
		CustomerID:      o.Customer.ID,
		CustomerName:    o.Customer.Name,
		CustomerPhone:   o.Customer.Phone,
		Lines:           string(data),
		DueDate:         o.DueDate,
		Status:          o.Status.String(),
		PaidAmount:      o.Paid,
		ShirtsCompleted: o.ShirtsCompleted,
		PantsCompleted:  o.PantsCompleted,
		TotalAmount:     totals.Total,
		BalanceAmount:   totals.Balance,
		PaymentStatus:   totals.PaymentStatus.String(),
	}
	m.BaseModel = baseFromEntity(o.BaseEntity)
	return m, nil
}
