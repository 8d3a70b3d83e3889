package validator

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"orderengine/src/apperr"
	"orderengine/src/model"
	"orderengine/src/payload"
	"orderengine/src/repository"
)

// ActionValidator gates placed/cancel requests against an existing order.
// The synchronous dispatch path uses the client-facing variant; the
// background path uses the executor variants, whose violations are
// operational faults since the client was already acknowledged.
type ActionValidator struct {
	payload *payload.ActionPayload
	order   *model.Order

	orders   *repository.OrderRepository
	accounts *repository.AccountRepository

	// operational switches failures from typed client errors to plain
	// faults; requirePending additionally demands the order be exactly
	// pending (cancel executor).
	operational    bool
	requirePending bool
}

func NewActionValidator(db *gorm.DB, p *payload.ActionPayload) *ActionValidator {
	return &ActionValidator{
		payload:  p,
		orders:   repository.NewOrderRepository(db),
		accounts: repository.NewAccountRepository(db),
	}
}

// NewExecutorValidator runs the same rule set as the action validator but
// reports violations as generic faults.
func NewExecutorValidator(db *gorm.DB, p *payload.ActionPayload) *ActionValidator {
	v := NewActionValidator(db, p)
	v.operational = true
	return v
}

// NewCancelExecutorValidator extends the executor validator with the
// requirement that the order is still pending.
func NewCancelExecutorValidator(db *gorm.DB, p *payload.ActionPayload) *ActionValidator {
	v := NewExecutorValidator(db, p)
	v.requirePending = true
	return v
}

// Resolve loads and caches the target order.
func (v *ActionValidator) Resolve(ctx context.Context) (*model.Order, error) {
	if v.order != nil {
		return v.order, nil
	}
	order, err := v.orders.FindByUID(ctx, v.payload.OrderUID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFound("order not found")
	}
	v.order = order
	return order, nil
}

// Order returns the resolved order. Valid after Resolve or Validate.
func (v *ActionValidator) Order() *model.Order {
	return v.order
}

// Validate resolves the order and runs the transition rules in sequence.
func (v *ActionValidator) Validate(ctx context.Context) error {
	if _, err := v.Resolve(ctx); err != nil {
		return err
	}
	if err := v.incorrectStatus(); err != nil {
		return err
	}
	if err := v.alreadyActioned(); err != nil {
		return err
	}
	if err := v.insufficientFunds(ctx); err != nil {
		return err
	}
	if v.requirePending && v.order.Status != model.OrderStatusPending {
		return v.fail(apperr.NotAcceptable("cannot cancel order with status %s", v.order.Status))
	}
	return nil
}

func (v *ActionValidator) incorrectStatus() error {
	if v.payload.Status != model.ActionStatusPlaced && v.payload.Status != model.ActionStatusCancel {
		return v.fail(apperr.MethodNotAllowed("status should be placed or cancel"))
	}
	return nil
}

// alreadyActioned rejects orders that reached a terminal state; a second
// cancel of an already-canceled order reports "already canceled" and
// changes nothing.
func (v *ActionValidator) alreadyActioned() error {
	if v.order.IsTerminal() {
		return v.fail(apperr.NotAcceptable("order is already %s", v.order.Status))
	}
	return nil
}

func (v *ActionValidator) insufficientFunds(ctx context.Context) error {
	if v.payload.Status == model.ActionStatusCancel {
		return nil
	}
	insufficient, err := v.accounts.InsufficientBalance(ctx, v.order)
	if err != nil {
		return err
	}
	if insufficient {
		return v.fail(apperr.NotAcceptable("insufficient funds"))
	}
	return nil
}

// fail keeps client-facing typed errors on the synchronous path and
// downgrades them to plain faults on the background path.
func (v *ActionValidator) fail(err *apperr.E) error {
	if v.operational {
		return fmt.Errorf("order %s: %s", v.payload.OrderUID, err.Message)
	}
	return err
}
