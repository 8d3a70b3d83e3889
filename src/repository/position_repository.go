package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"orderengine/src/model"
)

// PositionRepository handles read/write operations for order positions.
type PositionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

func (r *PositionRepository) WithDB(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// Create inserts a new position, generating an identifier with the same
// collision-retry discipline used for orders.
func (r *PositionRepository) Create(ctx context.Context, position *model.OrderPosition) error {
	if position.PositionUID != "" {
		return r.db.WithContext(ctx).Create(position).Error
	}

	position.PositionUID = strings.ReplaceAll(uuid.NewString(), "-", "")
	var failures int
	for {
		err := r.db.WithContext(ctx).Create(position).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.WithFields(map[string]interface{}{
				"repo": "PositionRepository",
				"op":   "Create",
			}).WithError(err).Error("Failed to create position")
			return err
		}
		failures++
		if failures > uidMaxRetries {
			return errors.New("position uid collision retries exhausted")
		}
		position.PositionUID = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
}

// FindByUID fetches a position by its identifier.
// Returns (nil, nil) if the position is not found.
func (r *PositionRepository) FindByUID(ctx context.Context, uid string) (*model.OrderPosition, error) {
	var position model.OrderPosition
	err := r.db.WithContext(ctx).
		Where("position_uid = ?", uid).
		First(&position).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithFields(map[string]interface{}{
			"repo":         "PositionRepository",
			"op":           "FindByUID",
			"position_uid": uid,
		}).WithError(err).Error("Failed to fetch position")
		return nil, err
	}
	return &position, nil
}

// LiveExists reports whether a live position exists for the
// (account, ticker, bot) tuple.
func (r *PositionRepository) LiveExists(
	ctx context.Context,
	accountID uint,
	ticker, botID string,
) (bool, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.OrderPosition{}).
		Where("account_id = ? AND ticker = ? AND bot_id = ? AND is_live = ?",
			accountID, ticker, botID, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists every field of an already-created position.
func (r *PositionRepository) Save(ctx context.Context, position *model.OrderPosition) error {
	err := r.db.WithContext(ctx).Save(position).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":         "PositionRepository",
			"op":           "Save",
			"position_uid": position.PositionUID,
		}).WithError(err).Error("Failed to save position")
	}
	return err
}
