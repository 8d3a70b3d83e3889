package model

import "time"

const (
	LedgerSideCredit = "credit"
	LedgerSideDebit  = "debit"
)

// LedgerEntry is one provisional wallet movement tied to an order. Entries
// created for a pending buy are reversed when the order is recalculated
// before re-submission.
type LedgerEntry struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	AccountID uint    `gorm:"index;not null" json:"account_id"`
	OrderUID  string  `gorm:"index;size:64" json:"order_uid"`
	Side      string  `gorm:"size:10;not null" json:"side"`
	Amount    float64 `gorm:"default:0" json:"amount"`

	Detail map[string]interface{} `gorm:"serializer:json" json:"detail,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
