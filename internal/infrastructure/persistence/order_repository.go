package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/domain/shared"
	"github.com/nizy/tailor/internal/domain/trade"
	"github.com/nizy/tailor/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository keeps orders in the orders table. Items, payment and
// the customer snapshot are stored as JSON columns next to cached totals.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	model, err := loadRecord[models.OrderModel](ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain()
}

// FindAll fails on the first row whose JSON columns cannot be decoded
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	rows, err := loadRecords[models.OrderModel](ctx, r.db, orderSortColumns.orderBy(filter))
	if err != nil {
		return nil, err
	}

	orders := make([]trade.Order, 0, len(rows))
	for i := range rows {
		order, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	model, err := models.OrderModelFromDomain(order)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteRecord[models.OrderModel](ctx, r.db, id)
}

func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	return countRecords[models.OrderModel](ctx, r.db)
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
