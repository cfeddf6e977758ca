package trade

import (
	"context"
	"time"

	"github.com/nizy/tailor/internal/domain/partner"
	"github.com/nizy/tailor/internal/domain/shared"
	"github.com/nizy/tailor/internal/domain/shared/valueobject"
	"github.com/nizy/tailor/internal/domain/trade"
)

// RecentOrdersLimit is the number of orders shown on the dashboard
const RecentOrdersLimit = 5

// DashboardService computes the home screen aggregates
type DashboardService struct {
	orderRepo    trade.OrderRepository
	customerRepo partner.CustomerRepository
	now          func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(orderRepo trade.OrderRepository, customerRepo partner.CustomerRepository) *DashboardService {
	return &DashboardService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		now:          time.Now,
	}
}

// Summary loads the order collection and aggregates it
func (s *DashboardService) Summary(ctx context.Context) (*DashboardResponse, error) {
	customers, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindAll(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}

	summary := Summarize(orders, valueobject.DateOf(s.now()))
	summary.TotalCustomers = customers
	return &summary, nil
}

// Summarize aggregates an order snapshot, newest first, using only the
// recomputed totals of each order
func Summarize(orders []trade.Order, today valueobject.Date) DashboardResponse {
	summary := DashboardResponse{
		TotalOrders:     int64(len(orders)),
		PendingPayments: valueobject.Zero(),
		RecentOrders:    []OrderResponse{},
	}

	for i := range orders {
		o := &orders[i]
		if o.IsActive() {
			summary.ActiveOrders++
		}
		if o.IsDueOn(today) {
			summary.DueToday++
		}
		summary.PendingPayments = summary.PendingPayments.Add(o.Totals().Balance)

		if i < RecentOrdersLimit {
			summary.RecentOrders = append(summary.RecentOrders, ToOrderResponse(o))
		}
	}
	return summary
}
