package bonus

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	ForAction(ctx context.Context, action string, amount decimal.Decimal) ([]Definition, error)
	Create(ctx context.Context, def *Definition) error
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// ForAction returns the definitions triggered by action with a qualifying
// amount at or above their minimum.
func (r *RepositoryImpl) ForAction(ctx context.Context, action string, amount decimal.Decimal) ([]Definition, error) {
	var defs []Definition
	err := r.db.WithContext(ctx).
		Where("action = ? AND min_amount <= ?", action, amount).
		Find(&defs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bonus definitions: %w", err)
	}
	return defs, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, def *Definition) error {
	if err := r.db.WithContext(ctx).Create(def).Error; err != nil {
		return fmt.Errorf("failed to create bonus definition: %w", err)
	}
	return nil
}
