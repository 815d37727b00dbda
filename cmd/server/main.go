package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bizsuite/internal/platform/config"
	"bizsuite/internal/platform/logger"
)

// main loads configuration, wires the notification pipeline and runs it until
// SIGINT or SIGTERM. Wiring lives in app.go.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := build(ctx, cfg, log)
	if err != nil {
		log.Error("failed to start bizsuite notifications", "error", err)
		os.Exit(1)
	}
	if err := a.run(ctx); err != nil {
		log.Error("bizsuite notifications stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("bizsuite notifications stopped")
}
