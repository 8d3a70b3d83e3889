package notifier

import (
	"context"
	"fmt"
	"sync"

	logger "github.com/sirupsen/logrus"
)

// Emitter is the fire-and-forget publication contract the controller and
// processors depend on.
type Emitter interface {
	Publish(ctx context.Context, msg Message) error
}

// Sink receives messages drained from a mailbox.
type Sink func(msg Message)

// Mailbox is a bounded in-process message queue with a single drain
// goroutine, so messages for any one order are delivered in submission
// order. Publication blocks when the mailbox is full, bounding memory
// instead of dropping notifications.
type Mailbox struct {
	queue chan Message

	mu    sync.RWMutex
	sinks []Sink

	done      chan struct{}
	closeOnce sync.Once
}

// NewMailbox creates a mailbox with the given capacity and starts its drain
// goroutine.
func NewMailbox(capacity int) *Mailbox {
	if capacity <= 0 {
		capacity = 64
	}
	m := &Mailbox{
		queue: make(chan Message, capacity),
		done:  make(chan struct{}),
	}
	go m.drain()
	return m
}

// AddSink registers a delivery target for every drained message.
func (m *Mailbox) AddSink(sink Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks = append(m.sinks, sink)
}

// Publish enqueues msg, blocking until there is room or ctx expires.
func (m *Mailbox) Publish(ctx context.Context, msg Message) error {
	select {
	case <-m.done:
		return fmt.Errorf("mailbox closed")
	case <-ctx.Done():
		return fmt.Errorf("publish: %w", ctx.Err())
	case m.queue <- msg:
		return nil
	}
}

// Close stops the drain goroutine. Queued messages are still delivered.
func (m *Mailbox) Close() {
	m.closeOnce.Do(func() { close(m.done) })
}

func (m *Mailbox) drain() {
	for {
		select {
		case msg := <-m.queue:
			m.deliver(msg)
		case <-m.done:
			for {
				select {
				case msg := <-m.queue:
					m.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

func (m *Mailbox) deliver(msg Message) {
	m.mu.RLock()
	sinks := m.sinks
	m.mu.RUnlock()

	logger.WithFields(map[string]interface{}{
		"order_uid":    msg.OrderUID,
		"message_type": msg.MessageType,
	}).Debug("delivering order notification")

	for _, sink := range sinks {
		sink(msg)
	}
}
