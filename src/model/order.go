package model

import "time"

const (
	OrderSideBuy    = "buy"
	OrderSideSell   = "sell"
	OrderSideCancel = "cancel"
)

const (
	OrderStatusReview   = "review"
	OrderStatusPending  = "pending"
	OrderStatusFilled   = "filled"
	OrderStatusCanceled = "canceled"
	OrderStatusError    = "error"
)

// Requested terminal statuses accepted on the action path.
const (
	ActionStatusPlaced = "placed"
	ActionStatusCancel = "cancel"
)

// Order is one request to buy/sell and its lifecycle record. Orders are
// never physically deleted by the engine; history is an external concern.
type Order struct {
	OrderUID  string `gorm:"primaryKey;size:64" json:"order_uid"`
	AccountID uint   `gorm:"index;not null" json:"account_id"`
	Ticker    string `gorm:"index;size:50;not null" json:"ticker"`
	BotID     string `gorm:"index;size:255" json:"bot_id"`

	Side      string `gorm:"size:10;not null;default:buy" json:"side"`
	Status    string `gorm:"size:10;default:review" json:"status"`
	Placed    bool   `gorm:"default:false" json:"placed"`
	OrderType string `gorm:"size:75" json:"order_type"`
	IsInit    bool   `gorm:"default:true" json:"is_init"`

	Amount       float64  `gorm:"not null" json:"amount"`
	Price        float64  `json:"price"`
	Qty          *float64 `json:"qty,omitempty"`
	Margin       float64  `gorm:"default:1" json:"margin"`
	ExchangeRate float64  `gorm:"default:1" json:"exchange_rate"`

	Setup        map[string]interface{} `gorm:"serializer:json" json:"setup,omitempty"`
	OrderSummary map[string]interface{} `gorm:"serializer:json" json:"order_summary,omitempty"`

	PlacedAt   *time.Time `json:"placed_at,omitempty"`
	FilledAt   *time.Time `json:"filled_at,omitempty"`
	CanceledAt *time.Time `json:"canceled_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName allows you to control the exact table name for orders.
func (Order) TableName() string {
	return "orders"
}

// IsTerminal reports whether the order reached a state that rejects any
// further placed/cancel request.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusFilled || o.Status == OrderStatusCanceled
}

// SetupPosition returns the position block of the strategy setup payload,
// or nil when the order carries no setup.
func (o *Order) SetupPosition() map[string]interface{} {
	if o.Setup == nil {
		return nil
	}
	pos, _ := o.Setup["position"].(map[string]interface{})
	return pos
}

// SetupInvestmentAmount reads the strategy investment amount used when a
// pending bot order is recalculated before re-submission.
func (o *Order) SetupInvestmentAmount() (float64, bool) {
	pos := o.SetupPosition()
	if pos == nil {
		return 0, false
	}
	amount, ok := pos["investment_amount"].(float64)
	return amount, ok
}
