package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	logger "github.com/sirupsen/logrus"

	"orderengine/src/notifier"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SubscribeOrderHandler upgrades the connection and joins the order's
// notification group until the client disconnects.
func SubscribeOrderHandler(hub *notifier.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderUID := chi.URLParam(r, "orderUID")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.WithError(err).WithField("order_uid", orderUID).Error("websocket upgrade failed")
			return
		}

		hub.Subscribe(orderUID, conn)
		defer func() {
			hub.Unsubscribe(orderUID, conn)
			conn.Close()
		}()

		// Consume control frames until the peer goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
