// Package worker executes accepted action requests outside the request
// path. Work is keyed by order identifier: a duplicate submission for an
// order already queued or in flight joins the existing unit of work, so no
// order is ever double-executed.
package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/cenkalti/backoff/v5"
	logger "github.com/sirupsen/logrus"

	"orderengine/src/repository"
)

// Handler processes one unit of work.
type Handler func(ctx context.Context, workID string, body []byte) error

type job struct {
	id   string
	body []byte
}

// Queue is a bounded in-process work queue with per-key deduplication.
type Queue struct {
	config     Config
	jobs       chan job
	exceptions *repository.ExceptionRepository

	mu       sync.Mutex
	inflight map[string]struct{}

	wg sync.WaitGroup
}

// NewQueue creates a queue. The exception repository may be nil, in which
// case final failures are only logged.
func NewQueue(config Config, exceptions *repository.ExceptionRepository) *Queue {
	if config.Workers <= 0 {
		config.Workers = 4
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 256
	}
	return &Queue{
		config:     config,
		jobs:       make(chan job, config.QueueSize),
		exceptions: exceptions,
		inflight:   make(map[string]struct{}),
	}
}

// Enqueue schedules work for the given identifier. A work identifier
// already queued or executing is not scheduled again; the call joins the
// existing unit of work and answers with the same identifier.
func (q *Queue) Enqueue(workID string, body []byte) (string, error) {
	q.mu.Lock()
	if _, dup := q.inflight[workID]; dup {
		q.mu.Unlock()
		logger.WithField("work_id", workID).Info("duplicate work submission joined existing unit")
		return workID, nil
	}
	q.inflight[workID] = struct{}{}
	q.mu.Unlock()

	select {
	case q.jobs <- job{id: workID, body: body}:
		return workID, nil
	default:
		q.release(workID)
		return "", fmt.Errorf("work queue at capacity")
	}
}

// Start launches the consumer goroutines. They exit when ctx is canceled.
func (q *Queue) Start(ctx context.Context, handler Handler) {
	for i := 0; i < q.config.Workers; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j := <-q.jobs:
					q.run(ctx, j, handler)
				}
			}
		}()
	}
	logger.WithFields(map[string]interface{}{
		"workers":     q.config.Workers,
		"queue_size":  q.config.QueueSize,
		"job_timeout": q.config.JobTimeout,
	}).Info("background executor started")
}

// Wait blocks until every consumer goroutine has exited.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// InFlight reports whether the work identifier is queued or executing.
func (q *Queue) InFlight(workID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.inflight[workID]
	return ok
}

func (q *Queue) release(workID string) {
	q.mu.Lock()
	delete(q.inflight, workID)
	q.mu.Unlock()
}

// run executes one job under the per-job timeout, retrying transient
// failures a bounded number of times before capturing the fault.
func (q *Queue) run(ctx context.Context, j job, handler Handler) {
	defer q.release(j.id)

	jobCtx := ctx
	if q.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, q.config.JobTimeout)
		defer cancel()
	}

	operation := func() (struct{}, error) {
		return struct{}{}, handler(jobCtx, j.id, j.body)
	}

	_, err := backoff.Retry(jobCtx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(q.config.MaxTries),
	)
	if err != nil {
		logger.WithError(err).WithField("work_id", j.id).Error("background work failed")
		repository.Capture(jobCtx, q.exceptions, "order_engine", "worker", "run", "error", err,
			map[string]interface{}{"work_id": j.id})
		return
	}

	logger.WithField("work_id", j.id).Debug("background work completed")
}
