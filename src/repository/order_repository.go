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

// uidMaxRetries caps the collision-retry loop around order identifier
// assignment. Exhausting it means identifier generation is broken and the
// create fails outright.
const uidMaxRetries = 5

// OrderRepository handles read/write operations for orders.
type OrderRepository struct {
	db     *gorm.DB
	newUID func() string
}

// NewOrderRepository creates a repository bound to the given database handle.
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{
		db:     db,
		newUID: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
	}
}

// WithUIDSource overrides the identifier generator. Useful for tests that
// need to simulate persistence collisions.
func (r *OrderRepository) WithUIDSource(newUID func() string) *OrderRepository {
	return &OrderRepository{db: r.db, newUID: newUID}
}

// WithDB returns a repository bound to another handle, typically the
// transaction handle inside a gorm Transaction closure.
func (r *OrderRepository) WithDB(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db, newUID: r.newUID}
}

// Create inserts a new order. When the order carries no identifier one is
// generated, retrying on persistence collision up to uidMaxRetries times so
// an identifier is never reused across two distinct orders.
func (r *OrderRepository) Create(ctx context.Context, order *model.Order) error {

	logger.WithFields(map[string]interface{}{
		"repo":   "OrderRepository",
		"op":     "Create",
		"ticker": order.Ticker,
		"side":   order.Side,
		"amount": order.Amount,
	}).Debug("Creating new order")

	if order.OrderUID != "" {
		return r.db.WithContext(ctx).Create(order).Error
	}

	order.OrderUID = r.newUID()
	var failures int
	for {
		err := r.db.WithContext(ctx).Create(order).Error
		if err == nil {
			logger.WithFields(map[string]interface{}{
				"repo":      "OrderRepository",
				"op":        "Create",
				"order_uid": order.OrderUID,
			}).Info("Order created successfully")
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.WithFields(map[string]interface{}{
				"repo": "OrderRepository",
				"op":   "Create",
			}).WithError(err).Error("Failed to create order")
			return err
		}
		failures++
		if failures > uidMaxRetries {
			logger.WithFields(map[string]interface{}{
				"repo":     "OrderRepository",
				"op":       "Create",
				"failures": failures,
			}).Error("Order uid collision retries exhausted")
			return errors.New("order uid collision retries exhausted")
		}
		order.OrderUID = r.newUID()
	}
}

// FindByUID fetches a single order by its identifier.
// Returns (nil, nil) if the order is not found.
func (r *OrderRepository) FindByUID(ctx context.Context, uid string) (*model.Order, error) {

	var order model.Order
	err := r.db.WithContext(ctx).
		Where("order_uid = ?", uid).
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(map[string]interface{}{
				"repo":      "OrderRepository",
				"op":        "FindByUID",
				"order_uid": uid,
			}).Info("Order not found")
			return nil, nil
		}

		logger.WithFields(map[string]interface{}{
			"repo":      "OrderRepository",
			"op":        "FindByUID",
			"order_uid": uid,
		}).WithError(err).Error("Failed to fetch order")
		return nil, err
	}

	return &order, nil
}

// Save persists every field of an already-created order.
func (r *OrderRepository) Save(ctx context.Context, order *model.Order) error {
	err := r.db.WithContext(ctx).Save(order).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":      "OrderRepository",
			"op":        "Save",
			"order_uid": order.OrderUID,
		}).WithError(err).Error("Failed to save order")
	}
	return err
}

// PendingExists reports whether a pending order already exists for the
// (account, ticker, bot) tuple. A non-empty side narrows the search.
func (r *OrderRepository) PendingExists(
	ctx context.Context,
	accountID uint,
	ticker, botID, side string,
) (*model.Order, error) {

	query := r.db.WithContext(ctx).
		Where("account_id = ? AND ticker = ? AND bot_id = ? AND status = ?",
			accountID, ticker, botID, model.OrderStatusPending)
	if side != "" {
		query = query.Where("side = ?", side)
	}

	var order model.Order
	err := query.First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindLatest returns the latest orders of one account, newest first.
func (r *OrderRepository) FindLatest(ctx context.Context, accountID uint, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = 20
	}

	var orders []model.Order
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":       "OrderRepository",
			"op":         "FindLatest",
			"account_id": accountID,
		}).WithError(err).Error("Failed to fetch latest orders")
		return nil, err
	}
	return orders, nil
}

// Transaction runs fn inside one database transaction; any error returned
// by fn rolls back every mutation made through the passed repository.
func (r *OrderRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
