package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/diagnosis/travelmate/internal/mailer"
	"github.com/diagnosis/travelmate/internal/notify"
	"github.com/diagnosis/travelmate/pkg/config"
	"github.com/diagnosis/travelmate/pkg/events"
	"github.com/diagnosis/travelmate/pkg/logger"
)

func main() {
	cfg := config.Load()

	bus, err := events.NewNATSEventBus(cfg.NATS.URL, "travelmate-notify")
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	n := notify.New(mailer.New(cfg.Email))
	if err := n.Subscribe(bus, cfg.NATS.Queue); err != nil {
		logger.Error("Failed to subscribe", "error", err)
		os.Exit(1)
	}

	logger.Info("Notify worker started", "queue", cfg.NATS.Queue, "subjects", notify.Subjects)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down notify worker...")
}
