package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/domain/partner"
	"github.com/nizy/tailor/internal/domain/shared"
	"github.com/nizy/tailor/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository keeps customers in the customers table
type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	model, err := loadRecord[models.CustomerModel](ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll sorts on a whitelisted column and falls back to newest first
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	rows, err := loadRecords[models.CustomerModel](ctx, r.db, customerSortColumns.orderBy(filter))
	if err != nil {
		return nil, err
	}

	customers := make([]partner.Customer, 0, len(rows))
	for i := range rows {
		customers = append(customers, *rows[i].ToDomain())
	}
	return customers, nil
}

// Save upserts the whole row, custom measurements included
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	model, err := models.CustomerModelFromDomain(customer)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes the customer only. Orders keep their billing snapshot.
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteRecord[models.CustomerModel](ctx, r.db, id)
}

func (r *GormCustomerRepository) Count(ctx context.Context) (int64, error) {
	return countRecords[models.CustomerModel](ctx, r.db)
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
