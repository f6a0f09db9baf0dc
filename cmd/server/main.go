package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	storeapp "github.com/storelink/backend/internal/application/store"
	appsync "github.com/storelink/backend/internal/application/sync"
	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/domain/shared/valueobject"
	"github.com/storelink/backend/internal/infrastructure/config"
	"github.com/storelink/backend/internal/infrastructure/lock"
	"github.com/storelink/backend/internal/infrastructure/logger"
	"github.com/storelink/backend/internal/infrastructure/persistence"
	"github.com/storelink/backend/internal/infrastructure/shopify"
	"github.com/storelink/backend/internal/infrastructure/worker"
	"github.com/storelink/backend/internal/interfaces/http/handler"
	"github.com/storelink/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Storelink sync backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Remote store client and pushers
	client, err := shopify.NewClient(shopify.Config{
		ShopDomain:  cfg.Shopify.ShopDomain,
		AccessToken: cfg.Shopify.AccessToken,
		APIVersion:  cfg.Shopify.APIVersion,
		Timeout:     cfg.Shopify.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to create Shopify client", zap.Error(err))
	}

	// Repositories double as outbox sources
	maxAttempts := cfg.Sync.MaxAttempts
	productRepo := persistence.NewGormProductRepository(db.DB, maxAttempts)
	customerRepo := persistence.NewGormCustomerRepository(db.DB, maxAttempts)
	addressRepo := persistence.NewGormAddressRepository(db.DB, maxAttempts)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB, maxAttempts)
	sellingPlanRepo := persistence.NewGormSellingPlanRepository(db.DB, maxAttempts)

	// Coordinator; registration order is dependency order, parents first
	coordinator := outbox.NewCoordinator(outbox.Policy{
		MaxAttempts:      maxAttempts,
		DefaultBatchSize: cfg.Sync.BatchSize,
	}, log)
	registrations := []struct {
		source outbox.Source
		pusher outbox.Pusher
	}{
		{productRepo, shopify.NewProductPusher(client)},
		{customerRepo, shopify.NewCustomerPusher(client)},
		{addressRepo, shopify.NewAddressPusher(client)},
		{inventoryRepo, shopify.NewInventoryPusher(client)},
		{sellingPlanRepo, shopify.NewSellingPlanPusher(client)},
	}
	for _, reg := range registrations {
		if err := coordinator.Register(reg.source, reg.pusher); err != nil {
			log.Fatal("Failed to register record type", zap.Error(err))
		}
	}

	// Pass lease
	passLock, err := lock.NewRedisLock(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		_ = passLock.Close()
	}()

	// Application services
	syncService := appsync.NewService(coordinator, passLock, cfg.Sync.BatchSize, cfg.Sync.LockTTL, log)
	productService := storeapp.NewProductService(productRepo)
	customerService := storeapp.NewCustomerService(customerRepo, valueobject.Region(cfg.Shopify.PhoneRegion))

	// Background worker
	var syncWorker *worker.SyncWorker
	if cfg.Sync.WorkerEnabled {
		syncWorker = worker.NewSyncWorker(syncService, worker.SyncWorkerConfig{
			BatchSize:    cfg.Sync.BatchSize,
			PollInterval: cfg.Sync.PollInterval,
		}, log)
		if err := syncWorker.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync worker", zap.Error(err))
		}
	}

	// HTTP surface
	engine := router.New(log).
		Register(handler.NewSyncHandler(syncService)).
		Register(handler.NewProductHandler(productService)).
		Register(handler.NewCustomerHandler(customerService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if syncWorker != nil {
		if err := syncWorker.Stop(ctx); err != nil {
			log.Error("Sync worker forced to stop", zap.Error(err))
		}
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
