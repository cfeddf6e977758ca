package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nizy/tailor/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Both collections are keyed by a UUID primary key, so lookups, deletes and
// counts share these helpers. A missing row maps to shared.ErrNotFound.

func loadRecord[M any](ctx context.Context, db *gorm.DB, id uuid.UUID) (*M, error) {
	var model M
	err := db.WithContext(ctx).Where("id = ?", id).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func loadRecords[M any](ctx context.Context, db *gorm.DB, order clause.OrderBy) ([]M, error) {
	var rows []M
	if err := db.WithContext(ctx).Order(order).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func deleteRecord[M any](ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	var model M
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&model)
	switch {
	case result.Error != nil:
		return result.Error
	case result.RowsAffected == 0:
		return shared.ErrNotFound
	}
	return nil
}

func countRecords[M any](ctx context.Context, db *gorm.DB) (int64, error) {
	var (
		model M
		n     int64
	)
	err := db.WithContext(ctx).Model(&model).Count(&n).Error
	return n, err
}
