package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"orderengine/src/model"
)

// AccountRepository handles accounts and their balances.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) WithDB(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account together with its balance row.
func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	err := r.db.WithContext(ctx).Create(account).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "AccountRepository",
			"op":       "Create",
			"username": account.Username,
		}).WithError(err).Error("Failed to create account")
	}
	return err
}

// FindByID fetches an account with its balance preloaded.
// Returns (nil, nil) if the account is not found.
func (r *AccountRepository) FindByID(ctx context.Context, id uint) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Preload("Balance").
		First(&account, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// BalanceOf fetches the balance row of one account.
// Returns (nil, nil) if no balance row exists.
func (r *AccountRepository) BalanceOf(ctx context.Context, accountID uint) (*model.AccountBalance, error) {
	var balance model.AccountBalance
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &balance, nil
}

// InsufficientBalance reports whether the account cannot cover the order
// amount. A missing balance row counts as insufficient.
func (r *AccountRepository) InsufficientBalance(ctx context.Context, order *model.Order) (bool, error) {
	balance, err := r.BalanceOf(ctx, order.AccountID)
	if err != nil {
		return false, err
	}
	if balance == nil {
		return true, nil
	}
	return balance.Amount < order.Amount, nil
}
