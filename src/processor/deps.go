// Package processor turns validated requests into order and position state
// transitions. Order processors handle the initial buy/sell submission;
// action processors drive a placed order through execution, fill or
// cancellation.
package processor

import (
	"time"

	"gorm.io/gorm"

	"orderengine/src/notifier"
	"orderengine/src/pricing"
	"orderengine/src/settlement"
)

// Enqueuer is the background work submission contract. Work is keyed by
// order identifier so duplicate submissions collapse onto one unit of work.
type Enqueuer interface {
	Enqueue(workID string, body []byte) (string, error)
}

// Deps carries the injected collaborators shared by every processor.
// Nothing in this package reaches for ambient process state.
type Deps struct {
	DB       *gorm.DB
	Price    pricing.Getter
	Emitter  notifier.Emitter
	Queue    Enqueuer
	Registry *settlement.Registry
	Now      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
