package model

import "time"

// Instrument is one tradable symbol of the universe.
type Instrument struct {
	Ticker       string `gorm:"primaryKey;size:50" json:"ticker"`
	TickerName   string `gorm:"type:text" json:"ticker_name"`
	CurrencyCode string `gorm:"size:30;not null;default:USD" json:"currency_code"`
	MIC          string `gorm:"column:mic;size:30;index" json:"mic"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
	IsCrypto     bool   `gorm:"default:false" json:"is_crypto"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Instrument) TableName() string {
	return "instruments"
}

// Currency holds the conversion rate used when an account funds an order in
// a different currency than the instrument trades in. USDRate is the amount
// of USD one unit of the currency buys.
type Currency struct {
	CurrencyCode string     `gorm:"primaryKey;size:30" json:"currency_code"`
	CurrencyName string     `gorm:"size:255" json:"currency_name"`
	IsDecimal    bool       `gorm:"default:false" json:"is_decimal"`
	USDRate      float64    `gorm:"column:usd_rate;default:1" json:"usd_rate"`
	LastDate     *time.Time `json:"last_date,omitempty"`
}

func (Currency) TableName() string {
	return "currencies"
}

// ExchangeMarket carries the open/closed state of the venue an instrument
// trades on, keyed by MIC. The action processors consult it to decide
// between a fill and a pending retry.
type ExchangeMarket struct {
	MIC      string `gorm:"column:mic;primaryKey;size:30" json:"mic"`
	Name     string `gorm:"size:255" json:"name"`
	IsOpen   bool   `gorm:"default:false" json:"is_open"`
	Timezone string `gorm:"size:50" json:"timezone"`
}

func (ExchangeMarket) TableName() string {
	return "exchange_markets"
}
