package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Account is the owner of orders and positions.
type Account struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:255" json:"email,omitempty"`
	PasswordHash string `gorm:"size:255" json:"-"`
	IsActive     bool   `gorm:"default:false" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Balance *AccountBalance `gorm:"foreignKey:AccountID" json:"balance,omitempty"`
}

func (Account) TableName() string {
	return "accounts"
}

// SetPassword hashes and stores the given plain-text password.
func (a *Account) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares a plain-text password against the stored hash.
func (a *Account) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plain)) == nil
}

// AccountBalance is the spendable cash of one account in its own currency.
type AccountBalance struct {
	AccountID    uint    `gorm:"primaryKey" json:"account_id"`
	Amount       float64 `gorm:"default:0" json:"amount"`
	CurrencyCode string  `gorm:"size:30;not null;default:USD" json:"currency_code"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (AccountBalance) TableName() string {
	return "account_balances"
}
