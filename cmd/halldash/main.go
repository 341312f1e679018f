// halldash is a headless dashboard consumer: it polls the chair service,
// reconciles sensor state into the local seating chart, and logs availability
// stats per tick. The rendering layer proper lives outside this repository;
// this binary exercises the same read contract it would use.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"chair-status-backend/config"
	"chair-status-backend/internal/directory"
	"chair-status-backend/internal/model"
	"chair-status-backend/internal/poller"
	"chair-status-backend/internal/reconcile"
)

func main() {
	logger := log.New(os.Stdout, "halldash ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	mapping, err := reconcile.NewMapping(cfg.Mapping)
	if err != nil {
		logger.Fatalf("invalid chair mapping: %v", err)
	}
	logger.Printf("loaded %d chair-to-seat mappings", mapping.Len())

	dir := directory.New()

	baseURL := cfg.Poller.BaseURL
	if baseURL == "" {
		logger.Fatalf("poller.base_url must be configured")
	}

	p := poller.New(baseURL, cfg.Poller.Interval, func(snapshot model.StateSnapshot) {
		dir.ApplySeats(mapping.Reconcile(snapshot, dir.Seats()))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.OnTransition(func(s poller.State) {
		if s != poller.StateIdle {
			return
		}
		occupied, total := dir.Counts()
		status := p.Status()
		indicator := "disconnected"
		if status.Connected {
			indicator = "connected"
		}
		logger.Printf("seats: %d available, %d occupied, %d total (%s, last update %s)",
			total-occupied, occupied, total, indicator, status.LastUpdated.Format("15:04:05"))
	})

	go p.Run(ctx)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Println("Shutting down dashboard.")
}
