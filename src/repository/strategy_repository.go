package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"orderengine/src/model"
)

// StrategyRepository reads strategy (bot) configuration.
type StrategyRepository struct {
	db *gorm.DB
}

func NewStrategyRepository(db *gorm.DB) *StrategyRepository {
	return &StrategyRepository{db: db}
}

func (r *StrategyRepository) WithDB(db *gorm.DB) *StrategyRepository {
	return &StrategyRepository{db: db}
}

// FindByID fetches a strategy by bot id.
// Returns (nil, nil) if the strategy is not found.
func (r *StrategyRepository) FindByID(ctx context.Context, botID string) (*model.Strategy, error) {
	var strategy model.Strategy
	err := r.db.WithContext(ctx).
		Where("bot_id = ?", botID).
		First(&strategy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &strategy, nil
}
