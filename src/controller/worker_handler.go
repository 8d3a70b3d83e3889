package controller

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"orderengine/src/payload"
	"orderengine/src/processor"
)

// WorkerHandler adapts the action controller into the background queue's
// job contract: deserialize the action request and re-invoke the controller
// outside the request path.
func WorkerHandler(deps processor.Deps) func(ctx context.Context, workID string, body []byte) error {
	return func(ctx context.Context, workID string, body []byte) error {
		var p payload.ActionPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return fmt.Errorf("decode action %s: %w", workID, err)
		}

		controller := NewActionOrderController(deps)
		if err := controller.SelectProcessor(&p); err != nil {
			return fmt.Errorf("select processor for %s: %w", workID, err)
		}
		_, err := controller.Process(ctx)
		return err
	}
}
