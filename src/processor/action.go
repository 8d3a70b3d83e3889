package processor

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"orderengine/src/apperr"
	"orderengine/src/model"
	"orderengine/src/notifier"
	"orderengine/src/payload"
	"orderengine/src/repository"
	"orderengine/src/validator"
)

// baseAction carries the shared sequence of every action processor:
// update order under transaction, resolve market state, fill or leave
// pending, publish the result message.
type baseAction struct {
	deps     Deps
	payload  *payload.ActionPayload
	actCheck *validator.ActionValidator
	response notifier.Message
}

func (b *baseAction) Validator() validator.Validator { return b.actCheck }

func (b *baseAction) Response() interface{} { return b.response }

func (b *baseAction) order() *model.Order { return b.actCheck.Order() }

func (b *baseAction) orderInPending() bool {
	return b.order().Status == model.OrderStatusPending
}

// execute is the base sequence shared by buy and sell actions.
func (b *baseAction) execute(ctx context.Context) error {
	if err := b.updateOrder(ctx); err != nil {
		return err
	}
	if err := b.exchangeExecutor(ctx); err != nil {
		return err
	}
	b.publish(ctx)
	return nil
}

// updateOrder marks the order submitted: status pending, placed stamped.
func (b *baseAction) updateOrder(ctx context.Context) error {
	order := b.order()
	order.Status = model.OrderStatusPending
	order.Placed = true
	now := b.deps.now()
	order.PlacedAt = &now

	err := b.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.NewOrderRepository(tx).Save(ctx, order)
	})
	if err != nil {
		logger.WithError(err).WithField("order_uid", order.OrderUID).Error("order update failed")
		b.messageError(fmt.Sprintf("%s update failed", order.OrderUID))
		b.publish(ctx)
		return apperr.Fatal(err, "%s update failed", order.OrderUID)
	}
	return nil
}

// exchangeExecutor resolves whether the owning market is open: open fills
// the order, closed leaves it pending for a later retry.
func (b *baseAction) exchangeExecutor(ctx context.Context) error {
	order := b.order()
	instruments := repository.NewInstrumentRepository(b.deps.DB)

	instrument, err := instruments.FindByTicker(ctx, order.Ticker)
	if err != nil {
		return apperr.Fatal(err, "instrument lookup for %s failed", order.Ticker)
	}
	if instrument == nil {
		b.messageError(fmt.Sprintf("%s is not supported", order.Ticker))
		b.publish(ctx)
		return apperr.Fatal(nil, "%s is not supported", order.Ticker)
	}

	market, err := instruments.MarketByMIC(ctx, instrument.MIC)
	if err != nil {
		return apperr.Fatal(err, "market lookup for %s failed", instrument.MIC)
	}
	if market == nil {
		logger.WithField("mic", instrument.MIC).Error("market is not supported")
		b.messageError(fmt.Sprintf("%s is not supported", instrument.MIC))
		b.publish(ctx)
		return apperr.Fatal(nil, "%s is not supported", instrument.MIC)
	}

	if market.IsOpen {
		return b.fillOrder(ctx)
	}
	b.messagePending()
	return nil
}

// fillOrder marks the order filled and persists. The fill timestamp and the
// status change land in one transaction or not at all.
func (b *baseAction) fillOrder(ctx context.Context) error {
	order := b.order()
	order.Status = model.OrderStatusFilled
	now := b.deps.now()
	order.FilledAt = &now

	err := b.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.NewOrderRepository(tx).Save(ctx, order)
	})
	if err != nil {
		logger.WithError(err).WithField("order_uid", order.OrderUID).Error("order fill failed")
		b.messageError(err.Error())
		b.publish(ctx)
		return apperr.Fatal(err, "%s is not executed", order.Ticker)
	}
	b.messageFilled()
	return nil
}

func (b *baseAction) qty() float64 {
	order := b.order()
	if order.Qty != nil {
		return *order.Qty
	}
	return 0
}

func (b *baseAction) messageError(text string) {
	b.response = notifier.Message{
		Type:        notifier.MessageTypeSendOrder,
		MessageType: notifier.MessageOrderError,
		Body:        text,
		StatusCode:  400,
		OrderUID:    b.payload.OrderUID,
	}
}

func (b *baseAction) messagePending() {
	order := b.order()
	b.response = notifier.Message{
		Type:        notifier.MessageTypeSendOrder,
		MessageType: notifier.MessageOrderPending,
		Title:       "order pending",
		Body: fmt.Sprintf("%s order %g stocks %s is received, status pending",
			order.Side, b.qty(), order.Ticker),
		StatusCode: 200,
		OrderUID:   order.OrderUID,
	}
}

func (b *baseAction) messageCancel() {
	order := b.order()
	b.response = notifier.Message{
		Type:        notifier.MessageTypeSendOrder,
		MessageType: notifier.MessageOrderCancel,
		Title:       "order cancel",
		Body: fmt.Sprintf("%s order %g stocks %s is received, status canceled",
			order.Side, b.qty(), order.Ticker),
		StatusCode: 200,
		OrderUID:   order.OrderUID,
	}
}

func (b *baseAction) messageFilled() {
	order := b.order()
	b.response = notifier.Message{
		Type:        notifier.MessageTypeSendOrder,
		MessageType: notifier.MessageOrderFilled,
		Title:       "order filled",
		Body: fmt.Sprintf("%s order %g stocks %s was executed, status filled",
			order.Side, b.qty(), order.Ticker),
		StatusCode: 200,
		OrderUID:   order.OrderUID,
	}
}

// publish hands the built message to the emitter. Publication is
// fire-and-forget from the processor's perspective.
func (b *baseAction) publish(ctx context.Context) {
	if b.response.Type == "" {
		return
	}
	if err := b.deps.Emitter.Publish(ctx, b.response); err != nil {
		logger.WithError(err).WithField("order_uid", b.payload.OrderUID).
			Warn("failed to publish order notification")
	}
}

// PublishError builds and publishes an error message. The controller uses
// it to surface validation failures without executing.
func (b *baseAction) PublishError(ctx context.Context, text string) {
	b.messageError(text)
	b.publish(ctx)
}

// BuyActionProcessor drives a placed buy. A buy that is still pending from
// a previous attempt is recalculated before re-submission: provisional
// ledger entries are reversed, the amount recomputed, the quote refreshed
// and the order reset to review.
type BuyActionProcessor struct {
	baseAction
}

func NewBuyActionProcessor(deps Deps, p *payload.ActionPayload) *BuyActionProcessor {
	return &BuyActionProcessor{baseAction{
		deps:     deps,
		payload:  p,
		actCheck: validator.NewExecutorValidator(deps.DB, p),
	}}
}

func (pr *BuyActionProcessor) Execute(ctx context.Context) error {
	if pr.orderInPending() {
		if err := pr.recalculateBuyOrder(ctx); err != nil {
			return err
		}
	}
	return pr.execute(ctx)
}

func (pr *BuyActionProcessor) recalculateBuyOrder(ctx context.Context) error {
	if err := pr.refundPending(ctx); err != nil {
		return err
	}
	return pr.resetBuyOrder(ctx)
}

// refundPending reverses the provisional wallet entries tied to the order.
func (pr *BuyActionProcessor) refundPending(ctx context.Context) error {
	order := pr.order()
	ledger := repository.NewLedgerRepository(pr.deps.DB)

	exists, err := ledger.ExistsForOrder(ctx, order.OrderUID)
	if err != nil {
		return apperr.Fatal(err, "%s refund lookup failed", order.OrderUID)
	}
	if !exists {
		return nil
	}

	err = pr.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.NewLedgerRepository(tx).DeleteByOrderUID(ctx, order.OrderUID)
	})
	if err != nil {
		errMsg := fmt.Sprintf("%s refund pending buy order failed", order.OrderUID)
		logger.WithError(err).Error(errMsg)
		pr.messageError(errMsg)
		pr.publish(ctx)
		return apperr.Fatal(err, "%s", errMsg)
	}
	return nil
}

// resetBuyOrder recomputes the order amount, refreshes the quote and puts
// the order back into review with its placement cleared.
func (pr *BuyActionProcessor) resetBuyOrder(ctx context.Context) error {
	order := pr.order()

	if investment, ok := order.SetupInvestmentAmount(); ok {
		order.Amount = investment * order.ExchangeRate
	} else {
		// Margin tiering for non-strategy orders.
		if order.Margin > 0 && order.Amount/order.Margin > 11000 {
			order.Amount = 20000
		} else {
			order.Amount = 10000
		}
	}

	price, err := pr.deps.Price.GetPrice(ctx, []string{order.Ticker})
	if err != nil {
		return apperr.Fatal(err, "quote lookup for %s failed", order.Ticker)
	}
	order.Price = price
	order.Status = model.OrderStatusReview
	order.Placed = false
	order.PlacedAt = nil
	order.Qty = nil

	err = pr.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.NewOrderRepository(tx).Save(ctx, order)
	})
	if err != nil {
		errMsg := fmt.Sprintf("%s recalculate order failed", order.OrderUID)
		logger.WithError(err).Error(errMsg)
		pr.messageError(errMsg)
		pr.publish(ctx)
		return apperr.Fatal(err, "%s", errMsg)
	}
	return nil
}

// SellActionProcessor drives a placed sell.
type SellActionProcessor struct {
	baseAction
}

func NewSellActionProcessor(deps Deps, p *payload.ActionPayload) *SellActionProcessor {
	return &SellActionProcessor{baseAction{
		deps:     deps,
		payload:  p,
		actCheck: validator.NewExecutorValidator(deps.DB, p),
	}}
}

// Execute skips the update step for a sell that is already pending: the
// market is re-checked and the order filled or left pending as-is.
// TODO: recalculate pending sells the way the buy path does once the sell
// flow supports re-pricing.
func (pr *SellActionProcessor) Execute(ctx context.Context) error {
	if pr.orderInPending() {
		if err := pr.exchangeExecutor(ctx); err != nil {
			return err
		}
		pr.publish(ctx)
		return nil
	}
	return pr.execute(ctx)
}

// CancelActionProcessor cancels an order. Market state is never consulted.
type CancelActionProcessor struct {
	baseAction
}

func NewCancelActionProcessor(deps Deps, p *payload.ActionPayload) *CancelActionProcessor {
	return &CancelActionProcessor{baseAction{
		deps:     deps,
		payload:  p,
		actCheck: validator.NewCancelExecutorValidator(deps.DB, p),
	}}
}

func (pr *CancelActionProcessor) Execute(ctx context.Context) error {
	order := pr.order()
	order.Status = model.OrderStatusCanceled
	now := pr.deps.now()
	order.CanceledAt = &now

	err := pr.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.NewOrderRepository(tx).Save(ctx, order)
	})
	if err != nil {
		logger.WithError(err).WithField("order_uid", order.OrderUID).Error("order cancel failed")
		pr.messageError(fmt.Sprintf("%s update failed", order.OrderUID))
		pr.publish(ctx)
		return apperr.Fatal(err, "%s update failed", order.OrderUID)
	}

	pr.messageCancel()
	pr.publish(ctx)
	return nil
}
