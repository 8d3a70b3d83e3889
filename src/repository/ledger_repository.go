package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"orderengine/src/model"
)

// LedgerRepository handles the provisional wallet entries tied to orders.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) WithDB(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Create inserts one ledger entry.
func (r *LedgerRepository) Create(ctx context.Context, entry *model.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ExistsForOrder reports whether any provisional entry is tied to the order.
func (r *LedgerRepository) ExistsForOrder(ctx context.Context, orderUID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.LedgerEntry{}).
		Where("order_uid = ?", orderUID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteByOrderUID reverses every provisional entry tied to the order.
// Used when a still-pending buy is recalculated before re-submission.
func (r *LedgerRepository) DeleteByOrderUID(ctx context.Context, orderUID string) error {
	err := r.db.WithContext(ctx).
		Where("order_uid = ?", orderUID).
		Delete(&model.LedgerEntry{}).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":      "LedgerRepository",
			"op":        "DeleteByOrderUID",
			"order_uid": orderUID,
		}).WithError(err).Error("Failed to delete ledger entries")
	}
	return err
}
