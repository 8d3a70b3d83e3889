// Package validator runs the read-only rule checks that gate every order
// mutation. Independent checks within one validator fan out concurrently;
// every check always runs to completion, and the reported failure is the
// first failing check in declared order. A failing validation guarantees no
// mutation has occurred.
package validator

import (
	"context"

	"github.com/sourcegraph/conc"
	logger "github.com/sirupsen/logrus"
)

// Validator is implemented by every action-kind validator.
type Validator interface {
	Validate(ctx context.Context) error
}

type check struct {
	name string
	fn   func(ctx context.Context) error
}

// runChecks fans the checks out and joins before deciding. Checks never
// short-circuit each other: a pass means every check passed.
func runChecks(ctx context.Context, checks []check) error {
	results := make([]error, len(checks))

	var wg conc.WaitGroup
	for i := range checks {
		i := i
		wg.Go(func() {
			results[i] = checks[i].fn(ctx)
		})
	}
	wg.Wait()

	for i, err := range results {
		if err != nil {
			logger.WithFields(map[string]interface{}{
				"check": checks[i].name,
			}).WithError(err).Debug("validation check failed")
			return err
		}
	}
	return nil
}
