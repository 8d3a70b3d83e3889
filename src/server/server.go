package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"orderengine/src/handler"
	"orderengine/src/notifier"
	"orderengine/src/processor"
)

// NewRouter wires the order lifecycle routes.
func NewRouter(deps processor.Deps, hub *notifier.Hub) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error(" \"/health error")
		}
	})

	r.Post("/accounts", handler.CreateAccountHandler(deps))
	r.Post("/orders", handler.PlaceOrderHandler(deps))
	r.Get("/orders/{orderUID}", handler.GetOrderHandler(deps))
	r.Post("/orders/{orderUID}/actions", handler.OrderActionHandler(deps))
	r.Get("/ws/orders/{orderUID}", handler.SubscribeOrderHandler(hub))

	return r
}

// StartServer serves the router and blocks until SIGINT or SIGTERM.
func StartServer(port string, router chi.Router) {
	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
