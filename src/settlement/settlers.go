package settlement

import (
	"context"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"orderengine/src/model"
	"orderengine/src/repository"
)

// closePosition performs the bookkeeping shared by every settler: mark the
// position closed at the exit price, return the proceeds to the account
// balance, and record the credit ledger entry.
func closePosition(
	ctx context.Context,
	tx *gorm.DB,
	exitPrice float64,
	asOf time.Time,
	position *model.OrderPosition,
	event string,
) (*Result, error) {

	pnl := CurrentPnlAmount(exitPrice, position.EntryPrice, 0, position.ShareNum)
	proceeds := CurrentValue(exitPrice, position.EntryPrice, 0, position.ShareNum)
	finalReturn := CurrentPnlPct(exitPrice, position.EntryPrice, 0, position.ShareNum, position.InvestmentAmount)

	position.IsLive = false
	position.FinalPrice = exitPrice
	position.FinalPnlAmount = pnl
	position.FinalReturn = finalReturn
	position.CurrentInvAmt = CurrentInvestmentAmount(exitPrice, position.ShareNum)
	position.BotCashBalance = CurrentBotCashBalance(position.BotCashBalance, exitPrice, 0, position.ShareNum)
	position.Event = event
	eventDate := asOf
	position.EventDate = &eventDate

	positions := repository.NewPositionRepository(tx)
	if err := positions.Save(ctx, position); err != nil {
		return nil, fmt.Errorf("close position %s: %w", position.PositionUID, err)
	}

	credited := position.BotCashBalance + position.BotCashDividend
	if err := tx.WithContext(ctx).
		Model(&model.AccountBalance{}).
		Where("account_id = ?", position.AccountID).
		Update("amount", gorm.Expr("amount + ?", credited)).Error; err != nil {
		return nil, fmt.Errorf("credit account %d: %w", position.AccountID, err)
	}

	ledger := repository.NewLedgerRepository(tx)
	entry := &model.LedgerEntry{
		AccountID: position.AccountID,
		Side:      model.LedgerSideCredit,
		Amount:    credited,
		Detail: map[string]interface{}{
			"position_uid": position.PositionUID,
			"event":        event,
		},
	}
	if err := ledger.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("record settlement credit: %w", err)
	}

	logger.WithFields(map[string]interface{}{
		"position_uid": position.PositionUID,
		"event":        event,
		"exit_price":   exitPrice,
		"pnl":          pnl,
	}).Info("position closed")

	return &Result{
		Positions: []model.OrderPosition{*position},
		Summary: map[string]interface{}{
			"position_uid":     position.PositionUID,
			"event":            event,
			"exit_price":       exitPrice,
			"final_pnl_amount": pnl,
			"final_return":     finalReturn,
			"proceeds":         proceeds,
			"share_num":        position.ShareNum,
			"as_of":            asOf,
		},
	}, nil
}

// ClassicSettler closes a classic bot position at the raw market price.
type ClassicSettler struct{}

func (s *ClassicSettler) Settle(ctx context.Context, tx *gorm.DB, price float64, asOf time.Time, position *model.OrderPosition) (*Result, error) {
	return closePosition(ctx, tx, price, asOf, position, "classic_sell")
}

// UnoSettler closes an option-like position whose upside is capped at the
// target profit price.
type UnoSettler struct{}

func (s *UnoSettler) Settle(ctx context.Context, tx *gorm.DB, price float64, asOf time.Time, position *model.OrderPosition) (*Result, error) {
	exit := price
	if position.TargetProfitPrice > 0 && exit > position.TargetProfitPrice {
		exit = position.TargetProfitPrice
	}
	return closePosition(ctx, tx, exit, asOf, position, "uno_sell")
}

// UcdcSettler closes a downside-protected position whose exit price is
// floored at the max-loss price.
type UcdcSettler struct{}

func (s *UcdcSettler) Settle(ctx context.Context, tx *gorm.DB, price float64, asOf time.Time, position *model.OrderPosition) (*Result, error) {
	exit := price
	if position.MaxLossPrice > 0 && exit < position.MaxLossPrice {
		exit = position.MaxLossPrice
	}
	return closePosition(ctx, tx, exit, asOf, position, "ucdc_sell")
}

// StockSettler closes a plain share holding with no strategy overlay.
type StockSettler struct{}

func (s *StockSettler) Settle(ctx context.Context, tx *gorm.DB, price float64, asOf time.Time, position *model.OrderPosition) (*Result, error) {
	return closePosition(ctx, tx, price, asOf, position, "user_sell")
}
