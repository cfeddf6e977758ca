package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/domain/partner"
	"github.com/nizy/tailor/internal/domain/shared"
	"github.com/nizy/tailor/internal/domain/shared/valueobject"
	"github.com/nizy/tailor/internal/domain/trade"
	"github.com/nizy/tailor/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SaveRecorder receives a sample for every persisted order
type SaveRecorder interface {
	RecordOrderSaved(ctx context.Context, status trade.OrderStatus, totals trade.Totals)
}

// OrderService handles order business operations. It is the save boundary:
// drafts go in, enriched orders carrying their derived totals come out.
type OrderService struct {
	orderRepo      trade.OrderRepository
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
	recorder       SaveRecorder
	logger         *zap.Logger
	now            func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, customerRepo partner.CustomerRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the publisher used for collection change notifications
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetSaveRecorder sets the metrics sink for saved orders
func (s *OrderService) SetSaveRecorder(recorder SaveRecorder) {
	s.recorder = recorder
}

// NewDraft returns the form defaults for a new order, prefilled with the
// given customer when customerID is set.
func (s *OrderService) NewDraft(ctx context.Context, customerID *uuid.UUID) (*OrderFormResponse, error) {
	draft := trade.NewOrderDraft(s.today())

	if customerID != nil && *customerID != uuid.Nil {
		snapshot, err := s.snapshotOf(ctx, *customerID)
		if err != nil {
			return nil, err
		}
		draft.Customer = snapshot
	}

	return s.formResponse(nil, draft), nil
}

// EditDraft returns the form state for an existing order. Stored lines are
// decomposed back into garment toggles and custom rows.
func (s *OrderService) EditDraft(ctx context.Context, orderID uuid.UUID) (*OrderFormResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.formResponse(&order.ID, trade.DraftFromOrder(order)), nil
}

// Create validates a draft, enriches it with derived totals and persists it
func (s *OrderService) Create(ctx context.Context, req OrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create",
		telemetry.SpanAttrCustomerID, req.CustomerID.String())
	defer span.End()

	draft, err := s.draftFromRequest(ctx, req, nil)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewOrder(draft, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("failed to save order",
			zap.String("customer_id", order.Customer.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.afterSave(ctx, order)
	response := ToOrderResponse(order)
	return &response, nil
}

// Update replaces an order's mutable fields from a draft
func (s *OrderService) Update(ctx context.Context, orderID uuid.UUID, req OrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "update",
		telemetry.SpanAttrOrderID, orderID.String())
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	draft, err := s.draftFromRequest(ctx, req, &order.Customer)
	if err != nil {
		return nil, err
	}

	if err := order.Revise(draft, s.now()); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("failed to update order",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.afterSave(ctx, order)
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// Find retrieves the domain order by ID
func (s *OrderService) Find(ctx context.Context, orderID uuid.UUID) (*trade.Order, error) {
	return s.orderRepo.FindByID(ctx, orderID)
}

// List returns orders newest first, narrowed by the billing filter
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, error) {
	orders, err := s.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// Search returns the domain orders matching the billing filter
func (s *OrderService) Search(ctx context.Context, filter OrderListFilter) ([]trade.Order, error) {
	orders, err := s.orderRepo.FindAll(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return FilterOrders(orders, filter), nil
}

// Delete deletes an order
func (s *OrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return err
	}
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		s.logger.Error("failed to delete order", zap.String("order_id", orderID.String()), zap.Error(err))
		return err
	}
	s.logger.Info("order deleted", zap.String("order_id", orderID.String()))
	s.publishChange(ctx, orderID, shared.ChangeDeleted)
	return nil
}

// draftFromRequest builds the domain draft. The customer snapshot is read
// from the customer record unless the order already bills that customer.
func (s *OrderService) draftFromRequest(ctx context.Context, req OrderRequest, current *trade.CustomerSnapshot) (trade.OrderDraft, error) {
	draft := trade.OrderDraft{
		Lines:           req.Lines,
		DueDate:         req.DueDate,
		Status:          trade.OrderStatus(req.Status),
		Paid:            req.PaidAmount,
		ShirtsCompleted: req.ShirtsCompleted,
		PantsCompleted:  req.PantsCompleted,
	}

	switch {
	case req.CustomerID == uuid.Nil:
		// left empty; Commit reports the missing customer
	case current != nil && current.ID == req.CustomerID:
		draft.Customer = *current
	default:
		snapshot, err := s.snapshotOf(ctx, req.CustomerID)
		if err != nil {
			return trade.OrderDraft{}, err
		}
		draft.Customer = snapshot
	}
	return draft, nil
}

func (s *OrderService) snapshotOf(ctx context.Context, customerID uuid.UUID) (trade.CustomerSnapshot, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return trade.CustomerSnapshot{}, shared.NewValidationError(trade.MsgSelectCustomer)
		}
		return trade.CustomerSnapshot{}, err
	}
	return trade.CustomerSnapshot{ID: customer.ID, Name: customer.Name, Phone: customer.Phone}, nil
}

func (s *OrderService) formResponse(orderID *uuid.UUID, draft trade.OrderDraft) *OrderFormResponse {
	preview := trade.Reconcile(trade.ComposeLines(draft.Lines), draft.Paid)
	return &OrderFormResponse{
		OrderID:  orderID,
		Draft:    draft,
		Preview:  ToTotalsResponse(preview),
		Statuses: statusNames(),
	}
}

func (s *OrderService) afterSave(ctx context.Context, order *trade.Order) {
	totals := order.Totals()
	s.logger.Info("order saved",
		zap.String("order_id", order.ID.String()),
		zap.String("customer_id", order.Customer.ID.String()),
		zap.String("status", order.Status.String()),
		zap.String("payment_status", totals.PaymentStatus.String()),
		zap.String("total", totals.Total.String()),
	)
	if s.recorder != nil {
		s.recorder.RecordOrderSaved(ctx, order.Status, totals)
	}
	s.publishChange(ctx, order.ID, shared.ChangeSaved)
}

func (s *OrderService) publishChange(ctx context.Context, id uuid.UUID, kind shared.ChangeKind) {
	if s.eventPublisher == nil {
		return
	}
	event := shared.NewCollectionChangedEvent(shared.CollectionOrders, id, kind)
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish order change",
			zap.String("order_id", id.String()),
			zap.Error(err),
		)
	}
}

func (s *OrderService) today() valueobject.Date {
	return valueobject.DateOf(s.now())
}
