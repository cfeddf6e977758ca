package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/domain/shared"
)

// CustomerRepository stores the customer collection. FindByID reports a
// missing customer with shared.ErrNotFound.
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	// FindAll loads every customer in filter order
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	// Save inserts a new customer or replaces the stored one, measurements
	// included
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
