package engine

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"orderengine/src/controller"
	"orderengine/src/database"
	"orderengine/src/notifier"
	"orderengine/src/pricing"
	"orderengine/src/processor"
	"orderengine/src/repository"
	"orderengine/src/server"
	"orderengine/src/settlement"
	"orderengine/src/worker"
)

type Engine struct{}

// Start wires the full order pipeline and serves until interrupted: the
// HTTP surface, the background executor queue and the notification stream
// all run in this process.
func (e *Engine) Start() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	// Initialize main (read/write) database
	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to main database")
		return err
	}

	registry, err := settlement.DefaultRegistry()
	if err != nil {
		logrus.WithError(err).Error("Failed to build settlement registry")
		return err
	}

	config := server.GetConfig()

	mailbox := notifier.NewMailbox(config.MailboxCapacity)
	hub := notifier.NewHub()
	mailbox.AddSink(hub.Deliver)

	queue := worker.NewQueue(worker.GetConfig(), repository.NewExceptionRepository(database.MainDB))

	deps := processor.Deps{
		DB: database.MainDB,
		Price: &pricing.Router{
			Quotes: pricing.NewQuoteClient(pricing.GetConfig()),
			Crypto: pricing.NewCryptoGetter(),
		},
		Emitter:  mailbox,
		Queue:    queue,
		Registry: registry,
		Now:      time.Now,
	}

	queue.Start(ctx, controller.WorkerHandler(deps))

	server.StartServer(config.Port, server.NewRouter(deps, hub))

	stop()
	queue.Wait()
	mailbox.Close()

	return nil
}
