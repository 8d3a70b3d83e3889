package validator

import (
	"context"

	"gorm.io/gorm"

	"orderengine/src/apperr"
	"orderengine/src/model"
	"orderengine/src/payload"
	"orderengine/src/repository"
)

// SellValidator gates the initial sell submission. On success the resolved
// position is available through Position() and its margin has been copied
// onto the payload.
type SellValidator struct {
	payload  *payload.SellPayload
	position *model.OrderPosition

	positions *repository.PositionRepository
	orders    *repository.OrderRepository
}

func NewSellValidator(db *gorm.DB, p *payload.SellPayload) *SellValidator {
	return &SellValidator{
		payload:   p,
		positions: repository.NewPositionRepository(db),
		orders:    repository.NewOrderRepository(db),
	}
}

// Position returns the resolved target position after a successful Validate.
func (v *SellValidator) Position() *model.OrderPosition {
	return v.position
}

// Validate resolves the target position and then fans out the independent
// sell rules.
func (v *SellValidator) Validate(ctx context.Context) error {
	position, err := v.positions.FindByUID(ctx, v.payload.PositionUID())
	if err != nil {
		return err
	}
	if position == nil {
		return apperr.NotFound("position not found")
	}
	v.position = position

	if err := runChecks(ctx, []check{
		{name: "owns_position", fn: v.ownsPosition},
		{name: "no_pending_order", fn: v.noPendingOrder},
		{name: "position_live", fn: v.positionLive},
	}); err != nil {
		return err
	}

	v.payload.Margin = v.position.Margin
	v.payload.Ticker = v.position.Ticker
	return nil
}

func (v *SellValidator) ownsPosition(ctx context.Context) error {
	if v.position.AccountID != v.payload.AccountID {
		return apperr.NotAcceptable("%s credentials error", v.position.PositionUID)
	}
	return nil
}

func (v *SellValidator) noPendingOrder(ctx context.Context) error {
	order, err := v.orders.PendingExists(ctx, v.position.AccountID, v.position.Ticker, v.position.BotID, "")
	if err != nil {
		return err
	}
	if order != nil {
		return apperr.NotAcceptable(
			"sell order already exists for this position, order id: %s, current status pending",
			order.OrderUID)
	}
	return nil
}

func (v *SellValidator) positionLive(ctx context.Context) error {
	if !v.position.IsLive {
		return apperr.NotAcceptable("position has been closed")
	}
	return nil
}
