package partner

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/domain/partner"
	"github.com/nizy/tailor/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the publisher used for collection change notifications
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.ToDetails(), s.now())
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		s.logger.Error("failed to save customer", zap.Error(err))
		return nil, err
	}
	s.logger.Info("customer created", zap.String("customer_id", customer.ID.String()))
	s.publishChange(ctx, customer.ID, shared.ChangeSaved)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List returns customers newest first, narrowed by the search term
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, error) {
	customers, err := s.Search(ctx, filter.Search)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponses(customers), nil
}

// Search returns the domain customers matching term, newest first
func (s *CustomerService) Search(ctx context.Context, term string) ([]partner.Customer, error) {
	customers, err := s.customerRepo.FindAll(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(term) == "" {
		return customers, nil
	}

	matched := make([]partner.Customer, 0, len(customers))
	for i := range customers {
		if customers[i].MatchesSearch(term) {
			matched = append(matched, customers[i])
		}
	}
	return matched, nil
}

// Options returns the customer picker entries ordered by name
func (s *CustomerService) Options(ctx context.Context) ([]CustomerOption, error) {
	customers, err := s.customerRepo.FindAll(ctx, shared.Filter{OrderBy: "name", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}

	options := make([]CustomerOption, len(customers))
	for i, c := range customers {
		options[i] = CustomerOption{ID: c.ID, Name: c.Name, Phone: c.Phone}
	}
	sort.SliceStable(options, func(i, j int) bool {
		return strings.ToLower(options[i].Name) < strings.ToLower(options[j].Name)
	})
	return options, nil
}

// Update replaces a customer's descriptive fields
func (s *CustomerService) Update(ctx context.Context, customerID uuid.UUID, req CustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := customer.Update(req.ToDetails(), s.now()); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		s.logger.Error("failed to update customer", zap.String("customer_id", customerID.String()), zap.Error(err))
		return nil, err
	}
	s.publishChange(ctx, customer.ID, shared.ChangeSaved)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete deletes a customer. Orders keep their billed customer snapshot.
func (s *CustomerService) Delete(ctx context.Context, customerID uuid.UUID) error {
	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		return err
	}
	if err := s.customerRepo.Delete(ctx, customerID); err != nil {
		s.logger.Error("failed to delete customer", zap.String("customer_id", customerID.String()), zap.Error(err))
		return err
	}
	s.logger.Info("customer deleted", zap.String("customer_id", customerID.String()))
	s.publishChange(ctx, customerID, shared.ChangeDeleted)
	return nil
}

// Count returns the number of customers
func (s *CustomerService) Count(ctx context.Context) (int64, error) {
	return s.customerRepo.Count(ctx)
}

// publishChange notifies collection watchers. Delivery failures are logged
// and never fail the write that already succeeded.
func (s *CustomerService) publishChange(ctx context.Context, id uuid.UUID, kind shared.ChangeKind) {
	if s.eventPublisher == nil {
		return
	}
	event := shared.NewCollectionChangedEvent(shared.CollectionCustomers, id, kind)
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish customer change",
			zap.String("customer_id", id.String()),
			zap.Error(err),
		)
	}
}
