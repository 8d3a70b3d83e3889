// Package payload holds the three request shapes accepted by the order
// pipeline. Builders validate and normalize shape only; no I/O happens here.
package payload

import (
	"strings"

	"orderengine/src/apperr"
	"orderengine/src/model"
)

// BuyPayload is the initial buy submission.
type BuyPayload struct {
	Amount       float64                `json:"amount"`
	BotID        string                 `json:"bot_id"`
	Price        float64                `json:"price"`
	Side         string                 `json:"side"`
	Ticker       string                 `json:"ticker"`
	AccountID    uint                   `json:"account_id"`
	Margin       float64                `json:"margin"`
	ExchangeRate float64                `json:"exchange_rate"`
	Setup        map[string]interface{} `json:"setup,omitempty"`
}

// ConvertedAmount is the order amount expressed in the instrument currency.
func (p *BuyPayload) ConvertedAmount() float64 {
	if p.ExchangeRate == 0 {
		return p.Amount
	}
	return p.Amount * p.ExchangeRate
}

// NewBuy normalizes and type-checks a buy submission.
func NewBuy(p BuyPayload) (*BuyPayload, error) {
	p.Side = normalizeSide(p.Side, model.OrderSideBuy)
	if p.Side != model.OrderSideBuy {
		return nil, apperr.NotAcceptable("side must be buy")
	}
	if p.Ticker == "" {
		return nil, apperr.NotAcceptable("ticker is required")
	}
	if p.AccountID == 0 {
		return nil, apperr.NotAcceptable("account is required")
	}
	if p.Margin == 0 {
		p.Margin = 1
	}
	if p.ExchangeRate == 0 {
		p.ExchangeRate = 1
	}
	return &p, nil
}

// SellPayload is the initial sell submission. Setup carries the uid of the
// position being closed.
type SellPayload struct {
	Setup     map[string]interface{} `json:"setup"`
	Side      string                 `json:"side"`
	Ticker    string                 `json:"ticker"`
	AccountID uint                   `json:"account_id"`
	Margin    float64                `json:"margin"`
	Price     float64                `json:"price"`
}

// PositionUID extracts the target position identifier from setup.
func (p *SellPayload) PositionUID() string {
	if p.Setup == nil {
		return ""
	}
	uid, _ := p.Setup["position"].(string)
	return uid
}

// NewSell normalizes and type-checks a sell submission.
func NewSell(p SellPayload) (*SellPayload, error) {
	p.Side = normalizeSide(p.Side, model.OrderSideSell)
	if p.Side != model.OrderSideSell {
		return nil, apperr.NotAcceptable("side must be sell")
	}
	if p.AccountID == 0 {
		return nil, apperr.NotAcceptable("account is required")
	}
	if p.PositionUID() == "" {
		return nil, apperr.NotAcceptable("must provide the position uid for sell side")
	}
	return &p, nil
}

// ActionPayload drives a placed/cancel request against an existing order.
// It exists only for the duration of one controller invocation and is never
// persisted.
type ActionPayload struct {
	OrderUID      string `json:"order_uid"`
	DeliveryToken string `json:"delivery_token,omitempty"`
	Status        string `json:"status"`

	// Side is synthesized by the dispatcher: "cancel" when the requested
	// status is cancel, otherwise the order's own side.
	Side string `json:"side,omitempty"`
}

// NewAction normalizes and type-checks an action request.
func NewAction(p ActionPayload) (*ActionPayload, error) {
	if p.OrderUID == "" {
		return nil, apperr.NotAcceptable("order uid is required")
	}
	p.Status = strings.ToLower(strings.TrimSpace(p.Status))
	if p.Status == "" {
		return nil, apperr.NotAcceptable("status is required")
	}
	p.Side = strings.ToLower(strings.TrimSpace(p.Side))
	return &p, nil
}

func normalizeSide(side, fallback string) string {
	side = strings.ToLower(strings.TrimSpace(side))
	if side == "" {
		return fallback
	}
	return side
}
