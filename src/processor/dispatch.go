package processor

import (
	"context"

	"github.com/goccy/go-json"
	logger "github.com/sirupsen/logrus"

	"orderengine/src/apperr"
	"orderengine/src/model"
	"orderengine/src/payload"
	"orderengine/src/validator"
)

// DispatchResponse acknowledges an accepted action. The final result
// arrives later through the notification emitter.
type DispatchResponse struct {
	ActionID string `json:"action_id"`
	Status   string `json:"status"`
	OrderUID string `json:"order_uid"`
}

// ActionProcessor is the synchronous entry of the action path: it validates
// with the client-facing rules, synthesizes the dispatch side, and hands the
// work to the background queue keyed by order identifier.
type ActionProcessor struct {
	deps     Deps
	payload  *payload.ActionPayload
	actCheck *validator.ActionValidator
	response *DispatchResponse
}

// NewActionProcessor resolves the target order so the dispatch side can be
// synthesized: cancel requests dispatch as cancel, everything else follows
// the order's own side.
func NewActionProcessor(ctx context.Context, deps Deps, p *payload.ActionPayload) (*ActionProcessor, error) {
	actCheck := validator.NewActionValidator(deps.DB, p)
	order, err := actCheck.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	if p.Status == model.ActionStatusCancel {
		p.Side = model.OrderSideCancel
	} else {
		p.Side = order.Side
	}

	return &ActionProcessor{deps: deps, payload: p, actCheck: actCheck}, nil
}

func (pr *ActionProcessor) Validator() validator.Validator { return pr.actCheck }

func (pr *ActionProcessor) Response() interface{} { return pr.response }

// Execute enqueues the serialized action keyed by the order identifier and
// acknowledges immediately. A duplicate submission for the same order
// collapses onto the existing unit of work.
func (pr *ActionProcessor) Execute(ctx context.Context) error {
	body, err := json.Marshal(pr.payload)
	if err != nil {
		return apperr.Fatal(err, "failed to encode action for %s", pr.payload.OrderUID)
	}

	workID, err := pr.deps.Queue.Enqueue(pr.payload.OrderUID, body)
	if err != nil {
		return apperr.Fatal(err, "failed to enqueue action for %s", pr.payload.OrderUID)
	}

	logger.WithFields(map[string]interface{}{
		"order_uid": pr.payload.OrderUID,
		"action_id": workID,
		"side":      pr.payload.Side,
	}).Info("action dispatched")

	pr.response = &DispatchResponse{
		ActionID: workID,
		Status:   "executed",
		OrderUID: pr.payload.OrderUID,
	}
	return nil
}
