package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	logger "github.com/sirupsen/logrus"

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

var APP_NAME = os.Getenv("APP_NAME")

func SetupLogger() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))

	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		level = logger.DebugLevel
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	SetupLogger()
	defer handlePanic()

	// Initialize main (read/write) database
	if err := database.InitMainDB(); err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	registry, err := settlement.DefaultRegistry()
	if err != nil {
		logger.WithError(err).Fatal("Failed to build settlement registry")
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

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	queue.Start(ctx, controller.WorkerHandler(deps))

	server.StartServer(config.Port, server.NewRouter(deps, hub))

	// Server is down; let in-flight actions finish before exiting.
	stop()
	queue.Wait()
	mailbox.Close()
}

func handlePanic() {
	if r := recover(); r != nil {
		logger.WithError(fmt.Errorf("%+v", r)).Error(fmt.Sprintf("Application %s panic", APP_NAME))
	}
	//nolint
	time.Sleep(time.Second * 5)
}
