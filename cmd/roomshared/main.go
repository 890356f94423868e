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
	"go.uber.org/zap"

	"roomshare-backend/config"
	"roomshare-backend/internal/api"
	"roomshare-backend/internal/db"
	"roomshare-backend/internal/household"
	"roomshare-backend/internal/jobs"
	"roomshare-backend/internal/logger"
	"roomshare-backend/internal/notification"
	"roomshare-backend/internal/schedule"
	"roomshare-backend/internal/store"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	zlog, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()
	zlog.Info("configuration loaded", zap.String("path", configPath))

	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		zlog.Fatal("VAPID keys must be configured; generate them and add them to the config file")
	}
	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	zlog.Info("database initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.New(gormDB)

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, &webpushOptions, zlog)
	workerPool.Start(ctx)

	engine := schedule.NewEngine(appStore, workerPool, zlog)
	householdSvc := household.NewService(appStore, engine, zlog)

	scheduler := jobs.NewScheduler(&cfg.Jobs, engine, zlog)
	go scheduler.Run(ctx)

	handler := api.NewHandler(engine, householdSvc, appStore, &webpushOptions, zlog)
	router := api.NewRouter(handler, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		zlog.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	zlog.Info("shutdown signal received, stopping services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal("HTTP server shutdown", zap.Error(err))
	}

	zlog.Info("server gracefully stopped")
}
