package model

import "time"

// OrderPosition is an open or closed holding tied to one account,
// instrument and strategy. At most one live position may exist per
// (account, ticker, bot) tuple; the validators read positions but only the
// settlement layer creates or closes them.
type OrderPosition struct {
	PositionUID string `gorm:"primaryKey;size:64" json:"position_uid"`
	AccountID   uint   `gorm:"index;not null" json:"account_id"`
	Ticker      string `gorm:"index;size:50;not null" json:"ticker"`
	BotID       string `gorm:"index;size:255" json:"bot_id"`

	IsLive           bool    `gorm:"default:false" json:"is_live"`
	EntryPrice       float64 `json:"entry_price"`
	InvestmentAmount float64 `gorm:"default:0" json:"investment_amount"`
	ShareNum         float64 `gorm:"default:0" json:"share_num"`
	Margin           float64 `gorm:"default:1" json:"margin"`
	BotCashBalance   float64 `json:"bot_cash_balance"`
	BotCashDividend  float64 `gorm:"default:0" json:"bot_cash_dividend"`
	ExchangeRate     float64 `gorm:"default:1" json:"exchange_rate"`

	MaxLossPct         float64 `json:"max_loss_pct"`
	MaxLossPrice       float64 `json:"max_loss_price"`
	MaxLossAmount      float64 `json:"max_loss_amount"`
	TargetProfitPct    float64 `json:"target_profit_pct"`
	TargetProfitPrice  float64 `json:"target_profit_price"`
	TargetProfitAmount float64 `json:"target_profit_amount"`

	CurrentInvRet float64 `gorm:"default:0" json:"current_inv_ret"`
	CurrentInvAmt float64 `gorm:"default:0" json:"current_inv_amt"`

	Event          string     `gorm:"size:75" json:"event,omitempty"`
	EventDate      *time.Time `json:"event_date,omitempty"`
	FinalPrice     float64    `json:"final_price"`
	FinalReturn    float64    `json:"final_return"`
	FinalPnlAmount float64    `json:"final_pnl_amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OrderPosition) TableName() string {
	return "order_positions"
}
