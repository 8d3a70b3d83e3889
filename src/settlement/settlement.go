// Package settlement turns a sell fill into updated position and cash
// state. One settler exists per strategy kind; the set is closed and checked
// when the registry is built.
package settlement

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"orderengine/src/model"
)

// Result carries the positions touched by a settlement and the opaque
// execution summary stored on the order.
type Result struct {
	Positions []model.OrderPosition
	Summary   map[string]interface{}
}

// Settler executes the strategy-specific close of one live position. It runs
// inside the caller's transaction; any error rolls the whole sell back.
type Settler interface {
	Settle(ctx context.Context, tx *gorm.DB, price float64, asOf time.Time, position *model.OrderPosition) (*Result, error)
}

// Registry resolves settlers by strategy kind.
type Registry struct {
	settlers map[string]Settler
}

var knownKinds = []string{
	model.StrategyKindClassic,
	model.StrategyKindUno,
	model.StrategyKindUcdc,
	model.StrategyKindStock,
}

// NewRegistry validates that the given settlers cover exactly the closed
// kind enumeration. A missing or unknown kind is a construction-time error,
// not a runtime branch.
func NewRegistry(settlers map[string]Settler) (*Registry, error) {
	for kind := range settlers {
		known := false
		for _, k := range knownKinds {
			if kind == k {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown strategy kind %q", kind)
		}
	}
	for _, kind := range knownKinds {
		if _, ok := settlers[kind]; !ok {
			return nil, fmt.Errorf("no settler registered for strategy kind %q", kind)
		}
	}
	return &Registry{settlers: settlers}, nil
}

// DefaultRegistry wires the four built-in settlers.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(map[string]Settler{
		model.StrategyKindClassic: &ClassicSettler{},
		model.StrategyKindUno:     &UnoSettler{},
		model.StrategyKindUcdc:    &UcdcSettler{},
		model.StrategyKindStock:   &StockSettler{},
	})
}

// ForKind returns the settler registered for the strategy kind.
func (r *Registry) ForKind(kind string) (Settler, error) {
	settler, ok := r.settlers[kind]
	if !ok {
		return nil, fmt.Errorf("no settler registered for strategy kind %q", kind)
	}
	return settler, nil
}
