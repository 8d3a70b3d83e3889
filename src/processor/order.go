package processor

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"orderengine/src/apperr"
	"orderengine/src/model"
	"orderengine/src/payload"
	"orderengine/src/repository"
	"orderengine/src/validator"
)

// BuyOrderProcessor creates a new order in its initial reviewable state.
// Fill happens later through the action path.
type BuyOrderProcessor struct {
	deps     Deps
	payload  *payload.BuyPayload
	buyCheck *validator.BuyValidator
	response *model.Order
}

func NewBuyOrderProcessor(deps Deps, p *payload.BuyPayload) *BuyOrderProcessor {
	return &BuyOrderProcessor{
		deps:     deps,
		payload:  p,
		buyCheck: validator.NewBuyValidator(deps.DB, p, deps.Price),
	}
}

func (pr *BuyOrderProcessor) Validator() validator.Validator { return pr.buyCheck }

func (pr *BuyOrderProcessor) Response() interface{} { return pr.response }

// Execute fetches the current quote and atomically creates the order.
func (pr *BuyOrderProcessor) Execute(ctx context.Context) error {
	price, err := pr.deps.Price.GetPrice(ctx, []string{pr.payload.Ticker})
	if err != nil {
		return apperr.Fatal(err, "quote lookup for %s failed", pr.payload.Ticker)
	}
	pr.payload.Price = price

	order := &model.Order{
		AccountID:    pr.payload.AccountID,
		Ticker:       pr.payload.Ticker,
		BotID:        pr.payload.BotID,
		Side:         model.OrderSideBuy,
		Status:       model.OrderStatusReview,
		Placed:       false,
		OrderType:    "apps",
		IsInit:       true,
		Amount:       pr.payload.Amount,
		Price:        price,
		Margin:       pr.payload.Margin,
		ExchangeRate: pr.payload.ExchangeRate,
		Setup:        pr.payload.Setup,
	}

	err = pr.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.NewOrderRepository(tx).Create(ctx, order)
	})
	if err != nil {
		return apperr.Fatal(err, "buy order for %s not created", pr.payload.Ticker)
	}

	logger.WithFields(map[string]interface{}{
		"order_uid": order.OrderUID,
		"ticker":    order.Ticker,
		"amount":    order.Amount,
		"price":     order.Price,
	}).Info("buy order created")

	pr.response = order
	return nil
}

// SellOrderProcessor settles a live position through the strategy-specific
// settler selected by the position's strategy kind.
type SellOrderProcessor struct {
	deps      Deps
	payload   *payload.SellPayload
	sellCheck *validator.SellValidator
	response  map[string]interface{}
}

func NewSellOrderProcessor(deps Deps, p *payload.SellPayload) *SellOrderProcessor {
	return &SellOrderProcessor{
		deps:      deps,
		payload:   p,
		sellCheck: validator.NewSellValidator(deps.DB, p),
	}
}

func (pr *SellOrderProcessor) Validator() validator.Validator { return pr.sellCheck }

func (pr *SellOrderProcessor) Response() interface{} { return pr.response }

// Execute fetches the current quote and atomically settles the position.
// An unknown strategy kind is a programming error, not a validation failure.
func (pr *SellOrderProcessor) Execute(ctx context.Context) error {
	position := pr.sellCheck.Position()
	if position == nil {
		return apperr.Fatal(nil, "sell executed before validation")
	}

	price, err := pr.deps.Price.GetPrice(ctx, []string{pr.payload.Ticker})
	if err != nil {
		return apperr.Fatal(err, "quote lookup for %s failed", pr.payload.Ticker)
	}
	pr.payload.Price = price

	strategies := repository.NewStrategyRepository(pr.deps.DB)
	strategy, err := strategies.FindByID(ctx, position.BotID)
	if err != nil {
		return apperr.Fatal(err, "strategy lookup for %s failed", position.BotID)
	}
	if strategy == nil {
		return apperr.Fatal(nil, "position %s references unknown strategy %s", position.PositionUID, position.BotID)
	}

	settler, err := pr.deps.Registry.ForKind(strategy.Kind)
	if err != nil {
		return apperr.Fatal(err, "settlement dispatch failed")
	}

	tradingDay := pr.deps.now()
	err = pr.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result, settleErr := settler.Settle(ctx, tx, price, tradingDay, position)
		if settleErr != nil {
			return settleErr
		}
		pr.response = result.Summary
		return nil
	})
	if err != nil {
		return apperr.Fatal(err, "settlement of %s failed", position.PositionUID)
	}

	logger.WithFields(map[string]interface{}{
		"position_uid": position.PositionUID,
		"kind":         strategy.Kind,
		"price":        price,
	}).Info("position settled")

	return nil
}
