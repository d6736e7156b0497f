package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"onedrop/internal/config"
	"onedrop/internal/dashboard"
)

// Terminal attendance display. Polls the read endpoint on a fixed interval;
// SIGHUP forces an immediate refresh, SIGINT/SIGTERM stop the poller and
// its timers.
func main() {
	_ = godotenv.Load()
	app := config.Load()
	cfg := dashboard.FromApp(app)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	refreshCh := make(chan os.Signal, 1)
	signal.Notify(refreshCh, syscall.SIGHUP)

	focus := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case <-refreshCh:
				select {
				case focus <- struct{}{}:
				default:
				}
			case <-sigCh:
				log.Println("shutdown signal received")
				cancel()
				return
			}
		}
	}()

	client := dashboard.NewClient(cfg.EndpointURL, cfg.Timeout)
	poller := dashboard.NewPoller(cfg, client, dashboard.NewTermRenderer(os.Stdout))

	err := poller.Run(ctx, focus)
	switch {
	case errors.Is(err, dashboard.ErrNotConfigured):
		os.Exit(1)
	case errors.Is(err, context.Canceled):
	case err != nil:
		log.Fatalf("poller failed: %v", err)
	}
}
