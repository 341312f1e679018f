package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"chair-status-backend/config"
	"chair-status-backend/internal/api"
	"chair-status-backend/internal/db"
	"chair-status-backend/internal/notification"
	"chair-status-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "chair-backend ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The database serves two optional roles: the snapshot mirror when
	// persistence mode is "database", and the subscription store when push
	// notifications are enabled.
	var gormDB *gorm.DB
	if cfg.Persistence.Mode == "database" || cfg.Push.Enabled {
		gormDB, err = db.Init(&cfg.Persistence)
		if err != nil {
			logger.Fatalf("failed to initialize database: %v", err)
		}
		logger.Println("database initialized successfully")
	}

	var persister store.Persister
	switch cfg.Persistence.Mode {
	case "file":
		persister = store.NewFilePersister(cfg.Persistence.FilePath)
		logger.Printf("persisting chair state to %s", cfg.Persistence.FilePath)
	case "database":
		persister = store.NewDatabasePersister(gormDB)
		logger.Println("persisting chair state to the database")
	default:
		logger.Fatalf("unknown persistence mode %q", cfg.Persistence.Mode)
	}

	appStore, err := store.New(ctx, persister)
	if err != nil {
		logger.Fatalf("failed to initialize state store: %v", err)
	}
	logger.Printf("state store initialized with %d known chairs", len(appStore.Get().Chairs))

	var webpushOptions *webpush.Options
	var workerPool *notification.WorkerPool
	if cfg.Push.Enabled {
		if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
			logger.Fatalf("VAPID keys must be configured when push is enabled.")
		}
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		workerPool = notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		workerPool.Start(ctx)
		logger.Printf("notification worker pool started with %d workers", cfg.WorkerPool.Size)
	}

	handler := api.NewHandler(appStore, gormDB, webpushOptions, workerPool)
	router := api.NewRouter(&cfg.Server, handler)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
