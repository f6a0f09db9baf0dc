package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appsync "github.com/storelink/backend/internal/application/sync"
	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/infrastructure/config"
	"github.com/storelink/backend/internal/infrastructure/lock"
	"github.com/storelink/backend/internal/infrastructure/logger"
	"github.com/storelink/backend/internal/infrastructure/persistence"
	"github.com/storelink/backend/internal/infrastructure/shopify"
)

// NewRootCommand creates the root command for syncctl
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "syncctl",
		Short:         "Operate the store sync backlog",
		Long:          "syncctl runs propagation passes and inspects the outbox backlog of the Storelink sync backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewPushCommand())
	cmd.AddCommand(NewStatusCommand())
	cmd.AddCommand(NewResetCommand())

	return cmd
}

// syncStack is what a CLI command needs to run against the backlog
type syncStack struct {
	service *appsync.Service
	cleanup func()
}

// buildSyncStack wires config, database, remote client, and lock into a
// ready sync service. It is the CLI counterpart of the server wiring.
func buildSyncStack() (*syncStack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Log)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	client, err := shopify.NewClient(shopify.Config{
		ShopDomain:  cfg.Shopify.ShopDomain,
		AccessToken: cfg.Shopify.AccessToken,
		APIVersion:  cfg.Shopify.APIVersion,
		Timeout:     cfg.Shopify.Timeout,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("shopify client: %w", err)
	}

	passLock, err := lock.NewRedisLock(cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("redis lock: %w", err)
	}

	coordinator, err := buildCoordinator(db, client, cfg, log)
	if err != nil {
		_ = passLock.Close()
		_ = db.Close()
		return nil, err
	}

	service := appsync.NewService(coordinator, passLock, cfg.Sync.BatchSize, cfg.Sync.LockTTL, log)

	return &syncStack{
		service: service,
		cleanup: func() {
			_ = passLock.Close()
			_ = db.Close()
			_ = log.Sync()
		},
	}, nil
}

// buildCoordinator registers every synced record type. Registration
// order is processing order: parents before dependents.
func buildCoordinator(db *persistence.Database, client *shopify.Client, cfg *config.Config, log *zap.Logger) (*outbox.Coordinator, error) {
	maxAttempts := cfg.Sync.MaxAttempts

	coordinator := outbox.NewCoordinator(outbox.Policy{
		MaxAttempts:      maxAttempts,
		DefaultBatchSize: cfg.Sync.BatchSize,
	}, log)

	registrations := []struct {
		source outbox.Source
		pusher outbox.Pusher
	}{
		{persistence.NewGormProductRepository(db.DB, maxAttempts), shopify.NewProductPusher(client)},
		{persistence.NewGormCustomerRepository(db.DB, maxAttempts), shopify.NewCustomerPusher(client)},
		{persistence.NewGormAddressRepository(db.DB, maxAttempts), shopify.NewAddressPusher(client)},
		{persistence.NewGormInventoryRepository(db.DB, maxAttempts), shopify.NewInventoryPusher(client)},
		{persistence.NewGormSellingPlanRepository(db.DB, maxAttempts), shopify.NewSellingPlanPusher(client)},
	}
	for _, reg := range registrations {
		if err := coordinator.Register(reg.source, reg.pusher); err != nil {
			return nil, err
		}
	}
	return coordinator, nil
}
