// Package notifier publishes order result messages to interested
// subscribers, keyed by order identifier.
package notifier

// MessageTypeSendOrder is the envelope type of every order notification.
const MessageTypeSendOrder = "send_order_message"

const (
	MessageOrderError   = "order_error"
	MessageOrderPending = "order_pending"
	MessageOrderCancel  = "order_cancel"
	MessageOrderFilled  = "order_filled"
)

// Message is the structured result notification published per order.
// Delivery ordering across messages for the same order preserves
// submission order.
type Message struct {
	Type        string `json:"type"`
	MessageType string `json:"message_type"`
	Title       string `json:"title,omitempty"`
	Body        string `json:"message"`
	StatusCode  int    `json:"status_code"`

	// OrderUID is the routing key; it is not part of the wire body.
	OrderUID string `json:"-"`
}
