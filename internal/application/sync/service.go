package sync

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/storelink/backend/internal/domain/outbox"
)

// passLockName is the shared lease taken by every sync pass. A single
// lease keeps record types from being pushed out of dependency order by
// concurrent passes.
const passLockName = "pass"

// Errors reported to API callers
var (
	ErrPassInProgress    = errors.New("sync: another sync pass is in progress")
	ErrUnknownRecordType = outbox.ErrUnknownRecordType
)

// PassLock serializes sync passes across processes
type PassLock interface {
	// Acquire tries to take the named lease, reporting false when held
	// by another process
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	// Release returns the lease
	Release(ctx context.Context, name string) error
}

// Service exposes the outbox propagation operations: run a pass, inspect
// the backlog, and re-arm parked records.
type Service struct {
	coordinator *outbox.Coordinator
	lock        PassLock
	batchSize   int
	lockTTL     time.Duration
	logger      *zap.Logger
}

// NewService creates a sync service
func NewService(coordinator *outbox.Coordinator, lock PassLock, batchSize int, lockTTL time.Duration, logger *zap.Logger) *Service {
	if batchSize <= 0 {
		batchSize = 100
	}
	if lockTTL <= 0 {
		lockTTL = 5 * time.Minute
	}
	return &Service{
		coordinator: coordinator,
		lock:        lock,
		batchSize:   batchSize,
		lockTTL:     lockTTL,
		logger:      logger,
	}
}

// RunType runs one sync pass for the named record type. A non-positive
// limit falls back to the configured batch size.
func (s *Service) RunType(ctx context.Context, typeName string, limit int) (*BatchResultResponse, error) {
	rt, err := outbox.ParseRecordType(typeName)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.batchSize
	}

	release, err := s.acquirePass(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	result, err := s.coordinator.RunSync(ctx, rt, limit)
	if result == nil {
		return nil, err
	}
	return toBatchResultResponse(result), err
}

// RunAll runs one pass for every registered record type in dependency
// order. Partial failures never abort the run.
func (s *Service) RunAll(ctx context.Context, limit int) ([]*BatchResultResponse, error) {
	if limit <= 0 {
		limit = s.batchSize
	}

	release, err := s.acquirePass(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	results, err := s.coordinator.RunAll(ctx, limit)
	responses := make([]*BatchResultResponse, 0, len(results))
	for _, r := range results {
		responses = append(responses, toBatchResultResponse(r))
	}
	return responses, err
}

// Status reports the dirty/parked/clean backlog per record type
func (s *Service) Status(ctx context.Context) ([]TypeStatusResponse, error) {
	types := s.coordinator.RegisteredTypes()
	statuses := make([]TypeStatusResponse, 0, len(types))
	for _, rt := range types {
		source, err := s.coordinator.Source(rt)
		if err != nil {
			return nil, err
		}
		count, err := source.CountStatus(ctx)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, TypeStatusResponse{
			RecordType: rt.String(),
			Dirty:      count.Dirty,
			Parked:     count.Parked,
			Clean:      count.Clean,
		})
	}
	return statuses, nil
}

// ResetParked re-arms parked records of the named type for retry
func (s *Service) ResetParked(ctx context.Context, typeName string) (*ResetResponse, error) {
	rt, err := outbox.ParseRecordType(typeName)
	if err != nil {
		return nil, err
	}
	source, err := s.coordinator.Source(rt)
	if err != nil {
		return nil, err
	}
	n, err := source.ResetParked(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("parked records reset",
		zap.String("record_type", rt.String()),
		zap.Int64("reset", n),
	)
	return &ResetResponse{RecordType: rt.String(), Reset: n}, nil
}

// acquirePass takes the pass lease and returns its release function
func (s *Service) acquirePass(ctx context.Context) (func(), error) {
	ok, err := s.lock.Acquire(ctx, passLockName, s.lockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPassInProgress
	}
	return func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), passLockName); err != nil {
			s.logger.Warn("failed to release pass lock", zap.Error(err))
		}
	}, nil
}
