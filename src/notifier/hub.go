package notifier

import (
	"sync"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"
)

// Hub fans drained notifications out to websocket subscribers grouped by
// order identifier.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{groups: make(map[string]map[*websocket.Conn]struct{})}
}

// Subscribe attaches conn to the group of one order.
func (h *Hub) Subscribe(orderUID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group, ok := h.groups[orderUID]
	if !ok {
		group = make(map[*websocket.Conn]struct{})
		h.groups[orderUID] = group
	}
	group[conn] = struct{}{}
}

// Unsubscribe detaches conn from the group of one order.
func (h *Hub) Unsubscribe(orderUID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if group, ok := h.groups[orderUID]; ok {
		delete(group, conn)
		if len(group) == 0 {
			delete(h.groups, orderUID)
		}
	}
}

// Deliver writes msg to every subscriber of its order group. Connections
// that fail the write are dropped from the group.
func (h *Hub) Deliver(msg Message) {
	body, err := json.Marshal(msg)
	if err != nil {
		logger.WithError(err).Error("failed to encode notification")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[msg.OrderUID]
	for conn := range group {
		if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
			logger.WithError(err).WithField("order_uid", msg.OrderUID).
				Warn("dropping dead notification subscriber")
			_ = conn.Close()
			delete(group, conn)
		}
	}
	if len(group) == 0 {
		delete(h.groups, msg.OrderUID)
	}
}
