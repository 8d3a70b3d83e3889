package validator

import (
	"context"

	"gorm.io/gorm"

	"orderengine/src/apperr"
	"orderengine/src/model"
	"orderengine/src/payload"
	"orderengine/src/pricing"
	"orderengine/src/repository"
)

// BuyValidator gates the initial buy submission.
type BuyValidator struct {
	payload *payload.BuyPayload
	price   pricing.Getter

	strategies  *repository.StrategyRepository
	instruments *repository.InstrumentRepository
	orders      *repository.OrderRepository
	positions   *repository.PositionRepository
	accounts    *repository.AccountRepository
}

func NewBuyValidator(db *gorm.DB, p *payload.BuyPayload, price pricing.Getter) *BuyValidator {
	return &BuyValidator{
		payload:     p,
		price:       price,
		strategies:  repository.NewStrategyRepository(db),
		instruments: repository.NewInstrumentRepository(db),
		orders:      repository.NewOrderRepository(db),
		positions:   repository.NewPositionRepository(db),
		accounts:    repository.NewAccountRepository(db),
	}
}

// Validate runs every buy rule concurrently and joins before deciding.
func (v *BuyValidator) Validate(ctx context.Context) error {
	return runChecks(ctx, []check{
		{name: "strategy_exists", fn: v.strategyExists},
		{name: "instrument_active", fn: v.instrumentActive},
		{name: "no_pending_buy", fn: v.noPendingBuy},
		{name: "no_live_position", fn: v.noLivePosition},
		{name: "nonzero_amount", fn: v.nonzeroAmount},
		{name: "sufficient_funds", fn: v.sufficientFunds},
	})
}

func (v *BuyValidator) strategyExists(ctx context.Context) error {
	strategy, err := v.strategies.FindByID(ctx, v.payload.BotID)
	if err != nil {
		return err
	}
	if strategy == nil {
		return apperr.NotFound("bot not found")
	}
	return nil
}

func (v *BuyValidator) instrumentActive(ctx context.Context) error {
	instrument, err := v.instruments.FindByTicker(ctx, v.payload.Ticker)
	if err != nil {
		return err
	}
	if instrument == nil {
		return apperr.NotFound("%s not found", v.payload.Ticker)
	}
	if !instrument.IsActive {
		return apperr.NotAcceptable("%s is not active", v.payload.Ticker)
	}
	return nil
}

func (v *BuyValidator) noPendingBuy(ctx context.Context) error {
	order, err := v.orders.PendingExists(ctx, v.payload.AccountID, v.payload.Ticker, v.payload.BotID, model.OrderSideBuy)
	if err != nil {
		return err
	}
	if order != nil {
		return apperr.NotAcceptable("you already have an order for %s in current options", v.payload.Ticker)
	}
	return nil
}

func (v *BuyValidator) noLivePosition(ctx context.Context) error {
	exists, err := v.positions.LiveExists(ctx, v.payload.AccountID, v.payload.Ticker, v.payload.BotID)
	if err != nil {
		return err
	}
	if exists {
		return apperr.NotAcceptable("cannot have multiple positions for %s in current options", v.payload.Ticker)
	}
	return nil
}

func (v *BuyValidator) nonzeroAmount(ctx context.Context) error {
	if v.payload.Amount <= 0 {
		return apperr.NotAcceptable("amount should be greater than zero")
	}
	return nil
}

// sufficientFunds requires the requested amount to fit the account balance
// and the converted amount to afford at least one unit at the quoted price.
func (v *BuyValidator) sufficientFunds(ctx context.Context) error {
	balance, err := v.accounts.BalanceOf(ctx, v.payload.AccountID)
	if err != nil {
		return err
	}
	if balance == nil || v.payload.Amount > balance.Amount {
		return apperr.NotAcceptable("insufficient funds")
	}

	quote := v.payload.Price
	if quote == 0 {
		quote, err = v.price.GetPrice(ctx, []string{v.payload.Ticker})
		if err != nil {
			return err
		}
	}
	if quote > 0 && v.payload.ConvertedAmount()/quote < 1 {
		return apperr.NotAcceptable("insufficient funds")
	}
	return nil
}
