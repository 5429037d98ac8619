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

	"factory-resource-backend/config"
	"factory-resource-backend/internal/api"
	"factory-resource-backend/internal/changelog"
	"factory-resource-backend/internal/db"
	"factory-resource-backend/internal/notification"
	"factory-resource-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "factoryd ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded from %s", configPath)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changeLog := changelog.New(cfg.ChangeLog.Capacity)

	// Push is optional. Without VAPID keys the store runs with a nil
	// notifier and maintenance completions are only visible in the log.
	var webpushOptions *webpush.Options
	var notifier store.Notifier
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		pool.Start(ctx)
		notifier = pool
		logger.Printf("notification worker pool started with %d worker(s)", cfg.WorkerPool.Size)
	} else {
		logger.Println("VAPID keys not configured, push notifications disabled")
	}

	appStore := store.NewGormStore(gormDB, changeLog, notifier)
	logger.Println("data store initialized")

	router := api.NewRouter(appStore, webpushOptions, changeLog, cfg.Server)
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
	logger.Println("shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("server gracefully stopped")
}
