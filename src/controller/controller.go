// Package controller sequences validate-then-execute for every order
// pipeline entry point and translates failures into client-facing errors
// versus fatal ones.
package controller

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"orderengine/src/apperr"
	"orderengine/src/model"
	"orderengine/src/payload"
	"orderengine/src/processor"
	"orderengine/src/repository"
	"orderengine/src/validator"
)

// OrderProtocol is the contract every processor satisfies.
type OrderProtocol interface {
	Validator() validator.Validator
	Execute(ctx context.Context) error
	Response() interface{}
}

// ActionProtocol adds the error publication used when validation fails on
// the background path, where the client already got its acknowledgment.
type ActionProtocol interface {
	OrderProtocol
	PublishError(ctx context.Context, text string)
}

// ActionOrderController drives the background action path: it selects the
// processor from the request side and runs validate-then-execute with
// notification-based error reporting.
type ActionOrderController struct {
	deps       processor.Deps
	protocol   ActionProtocol
	exceptions *repository.ExceptionRepository
}

func NewActionOrderController(deps processor.Deps) *ActionOrderController {
	return &ActionOrderController{
		deps:       deps,
		exceptions: repository.NewExceptionRepository(deps.DB),
	}
}

// SelectProcessor picks the action processor matching the request side.
// Side is required and must be buy, sell or cancel.
func (c *ActionOrderController) SelectProcessor(p *payload.ActionPayload) error {
	switch p.Side {
	case model.OrderSideBuy:
		c.protocol = processor.NewBuyActionProcessor(c.deps, p)
	case model.OrderSideSell:
		c.protocol = processor.NewSellActionProcessor(c.deps, p)
	case model.OrderSideCancel:
		c.protocol = processor.NewCancelActionProcessor(c.deps, p)
	case "":
		return fmt.Errorf("side is required")
	default:
		return fmt.Errorf("side is invalid")
	}
	return nil
}

// Process validates and executes the selected processor. A validation
// failure publishes an error message and returns without executing; no
// mutation has occurred. An execution failure is logged, captured and
// re-raised as fatal.
func (c *ActionOrderController) Process(ctx context.Context) (interface{}, error) {
	if c.protocol == nil {
		return nil, fmt.Errorf("no processor selected")
	}

	if err := c.protocol.Validator().Validate(ctx); err != nil {
		logger.WithError(err).Warn("action validation failed")
		c.protocol.PublishError(ctx, err.Error())
		repository.Capture(ctx, c.exceptions, "order_engine", "controller", "Validate", "warn", err, nil)
		return nil, nil
	}

	if err := c.protocol.Execute(ctx); err != nil {
		logger.WithError(err).Error("action execution failed")
		repository.Capture(ctx, c.exceptions, "order_engine", "controller", "Execute", "error", err, nil)
		return nil, err
	}
	return c.protocol.Response(), nil
}

// OrderController is the thin synchronous variant used for the initial
// buy/sell submission: same validate-then-execute contract, but validation
// failures propagate as typed errors for the API layer to translate.
type OrderController struct{}

func NewOrderController() *OrderController {
	return &OrderController{}
}

func (c *OrderController) Process(ctx context.Context, protocol OrderProtocol) (interface{}, error) {
	if err := protocol.Validator().Validate(ctx); err != nil {
		return nil, err
	}
	if err := protocol.Execute(ctx); err != nil {
		logger.WithError(err).Error("order execution failed")
		if apperr.KindOf(err) != apperr.KindFatal {
			err = apperr.Fatal(err, "order execution failed")
		}
		return nil, err
	}
	return protocol.Response(), nil
}
