package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestEnqueueDeduplicatesByWorkID(t *testing.T) {
	q := NewQueue(Config{Workers: 1, QueueSize: 8, MaxTries: 1}, nil)

	id1, err := q.Enqueue("ord-1", []byte("a"))
	if err != nil {
		t.Fatalf("first enqueue failed: %v", err)
	}
	id2, err := q.Enqueue("ord-1", []byte("b"))
	if err != nil {
		t.Fatalf("duplicate enqueue must join, got error: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("duplicate submission must answer the existing work id, got %s and %s", id1, id2)
	}
	if !q.InFlight("ord-1") {
		t.Fatalf("work must be tracked while queued")
	}

	// Only one job may ever reach the handler.
	var handled int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx, func(ctx context.Context, workID string, body []byte) error {
		atomic.AddInt32(&handled, 1)
		return nil
	})

	waitFor(t, func() bool { return !q.InFlight("ord-1") })
	if n := atomic.LoadInt32(&handled); n != 1 {
		t.Fatalf("expected exactly one execution, got %d", n)
	}
}

func TestEnqueueAgainAfterCompletion(t *testing.T) {
	q := NewQueue(Config{Workers: 1, QueueSize: 8, MaxTries: 1}, nil)

	var handled int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx, func(ctx context.Context, workID string, body []byte) error {
		atomic.AddInt32(&handled, 1)
		return nil
	})

	if _, err := q.Enqueue("ord-2", nil); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	waitFor(t, func() bool { return !q.InFlight("ord-2") })

	// The key is free again once the first unit finished.
	if _, err := q.Enqueue("ord-2", nil); err != nil {
		t.Fatalf("re-enqueue after completion failed: %v", err)
	}
	waitFor(t, func() bool { return atomic.LoadInt32(&handled) == 2 })
}

func TestEnqueueAtCapacity(t *testing.T) {
	q := NewQueue(Config{Workers: 1, QueueSize: 1, MaxTries: 1}, nil)

	if _, err := q.Enqueue("ord-1", nil); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	_, err := q.Enqueue("ord-2", nil)
	if err == nil {
		t.Fatalf("expected capacity error")
	}
	if q.InFlight("ord-2") {
		t.Fatalf("rejected work must not stay tracked")
	}
}

func TestRunRetriesTransientFailures(t *testing.T) {
	q := NewQueue(Config{Workers: 1, QueueSize: 8, MaxTries: 3}, nil)

	var attempts int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx, func(ctx context.Context, workID string, body []byte) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if _, err := q.Enqueue("ord-1", nil); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	waitFor(t, func() bool { return !q.InFlight("ord-1") })
	if n := atomic.LoadInt32(&attempts); n != 3 {
		t.Fatalf("expected 3 attempts, got %d", n)
	}
}

func TestRunGivesUpAfterMaxTries(t *testing.T) {
	q := NewQueue(Config{Workers: 1, QueueSize: 8, MaxTries: 2}, nil)

	var attempts int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx, func(ctx context.Context, workID string, body []byte) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("permanent")
	})

	if _, err := q.Enqueue("ord-1", nil); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	waitFor(t, func() bool { return !q.InFlight("ord-1") })
	if n := atomic.LoadInt32(&attempts); n != 2 {
		t.Fatalf("expected 2 attempts, got %d", n)
	}
}

func TestJobTimeoutCancelsHandlerContext(t *testing.T) {
	q := NewQueue(Config{Workers: 1, QueueSize: 8, JobTimeout: 50 * time.Millisecond, MaxTries: 1}, nil)

	var mu sync.Mutex
	var sawCancel bool
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx, func(jobCtx context.Context, workID string, body []byte) error {
		select {
		case <-jobCtx.Done():
			mu.Lock()
			sawCancel = true
			mu.Unlock()
			return jobCtx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	})

	if _, err := q.Enqueue("ord-slow", nil); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	waitFor(t, func() bool { return !q.InFlight("ord-slow") })
	mu.Lock()
	defer mu.Unlock()
	if !sawCancel {
		t.Fatalf("expected the per-job timeout to cancel the handler context")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not reached in time")
}
