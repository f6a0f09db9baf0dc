package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	appsync "github.com/storelink/backend/internal/application/sync"
)

// SyncRunner runs one full propagation pass over every registered
// record type. Satisfied by the application sync service.
type SyncRunner interface {
	RunAll(ctx context.Context, limit int) ([]*appsync.BatchResultResponse, error)
}

// SyncWorkerConfig holds configuration for the background sync worker
type SyncWorkerConfig struct {
	BatchSize    int
	PollInterval time.Duration
}

// DefaultSyncWorkerConfig returns default configuration
func DefaultSyncWorkerConfig() SyncWorkerConfig {
	return SyncWorkerConfig{
		BatchSize:    100,
		PollInterval: 30 * time.Second,
	}
}

// SyncWorker periodically drains the dirty backlog in the background.
// Passes are serialized by the service's lease, so a worker sharing a
// store with other instances simply skips ticks that lose the race.
type SyncWorker struct {
	runner SyncRunner
	config SyncWorkerConfig
	logger *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncWorker creates a background sync worker
func NewSyncWorker(runner SyncRunner, config SyncWorkerConfig, logger *zap.Logger) *SyncWorker {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultSyncWorkerConfig().PollInterval
	}
	return &SyncWorker{
		runner: runner,
		config: config,
		logger: logger,
	}
}

// Start starts the polling loop
func (w *SyncWorker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go w.pollLoop(ctx)

	w.logger.Info("sync worker started",
		zap.Int("batch_size", w.config.BatchSize),
		zap.Duration("poll_interval", w.config.PollInterval),
	)
	return nil
}

// Stop gracefully stops the worker, waiting for an in-flight pass to
// finish or the context to expire.
func (w *SyncWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("sync worker stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *SyncWorker) pollLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runPass(ctx)
		}
	}
}

// runPass runs one pass and logs the outcome
func (w *SyncWorker) runPass(ctx context.Context) {
	results, err := w.runner.RunAll(ctx, w.config.BatchSize)
	if err != nil {
		if errors.Is(err, appsync.ErrPassInProgress) {
			w.logger.Debug("sync pass skipped, another pass holds the lease")
			return
		}
		w.logger.Error("sync pass failed", zap.Error(err))
	}

	for _, r := range results {
		if r.Total == 0 {
			continue
		}
		w.logger.Info("sync pass batch finished",
			zap.String("record_type", r.RecordType),
			zap.Int("total", r.Total),
			zap.Int("succeeded", r.Succeeded),
			zap.Int("failed", r.Failed),
		)
	}
}
