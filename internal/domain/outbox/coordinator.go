package outbox

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/storelink/backend/internal/domain/shared"
)

// Policy holds the retry policy applied by the coordinator
type Policy struct {
	// MaxAttempts parks a record after this many failed pushes.
	// Zero means retry forever.
	MaxAttempts int
	// DefaultBatchSize bounds a pass when the caller gives no limit
	DefaultBatchSize int
}

// DefaultPolicy returns the default sync policy
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:      0,
		DefaultBatchSize: 100,
	}
}

type registration struct {
	source Source
	pusher Pusher
}

// Coordinator orchestrates scanner and pusher across a batch: it obtains
// dirty records, pushes them strictly sequentially, updates each record's
// marker, and aggregates the outcome. A batch never aborts on individual
// record failures.
type Coordinator struct {
	registry map[RecordType]registration
	order    []RecordType
	policy   Policy
	logger   *zap.Logger
	now      func() time.Time
}

// NewCoordinator creates a coordinator with the given policy
func NewCoordinator(policy Policy, logger *zap.Logger) *Coordinator {
	if policy.DefaultBatchSize <= 0 {
		policy.DefaultBatchSize = DefaultPolicy().DefaultBatchSize
	}
	return &Coordinator{
		registry: make(map[RecordType]registration),
		policy:   policy,
		logger:   logger,
		now:      time.Now,
	}
}

// Register wires a source/pusher pair for one record type. Registration
// order defines the processing order of RunAll, so parents must be
// registered before dependents.
func (c *Coordinator) Register(source Source, pusher Pusher) error {
	rt := source.RecordType()
	if rt != pusher.RecordType() {
		return errors.New("outbox: source and pusher record types differ")
	}
	if _, ok := c.registry[rt]; ok {
		return errors.New("outbox: record type already registered: " + rt.String())
	}
	c.registry[rt] = registration{source: source, pusher: pusher}
	c.order = append(c.order, rt)
	return nil
}

// RegisteredTypes returns the record types in registration order
func (c *Coordinator) RegisteredTypes() []RecordType {
	out := make([]RecordType, len(c.order))
	copy(out, c.order)
	return out
}

// Source returns the registered source for a record type
func (c *Coordinator) Source(rt RecordType) (Source, error) {
	reg, ok := c.registry[rt]
	if !ok {
		return nil, ErrNotRegistered
	}
	return reg.source, nil
}

// RunSync runs one bounded batch pass for a record type. The returned
// error covers only scan/setup problems; per-record push failures are
// reported inside the BatchResult.
func (c *Coordinator) RunSync(ctx context.Context, rt RecordType, limit int) (*BatchResult, error) {
	if !rt.IsValid() {
		return nil, ErrUnknownRecordType
	}
	reg, ok := c.registry[rt]
	if !ok {
		return nil, ErrNotRegistered
	}
	if limit <= 0 {
		limit = c.policy.DefaultBatchSize
	}

	records, err := reg.source.ScanDirty(ctx, limit)
	if err != nil {
		return nil, err
	}

	result := NewBatchResult(rt)
	for _, rec := range records {
		select {
		case <-ctx.Done():
			result.FinishedAt = c.now()
			return result, ctx.Err()
		default:
		}
		c.pushOne(ctx, reg, rec, result)
	}
	result.FinishedAt = c.now()

	c.logger.Info("sync pass finished",
		zap.String("record_type", rt.String()),
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}

// RunAll runs one pass per registered type, in registration order, so
// dependencies are pushed before their dependents within the same run.
func (c *Coordinator) RunAll(ctx context.Context, limit int) ([]*BatchResult, error) {
	results := make([]*BatchResult, 0, len(c.order))
	for _, rt := range c.order {
		res, err := c.RunSync(ctx, rt, limit)
		if res != nil {
			results = append(results, res)
		}
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// pushOne pushes a single record and persists the marker outcome.
// The remote call happens before the local marker write: a crash between
// the two leaves the record dirty, which is safe and only costs a
// duplicate update on the next pass.
func (c *Coordinator) pushOne(ctx context.Context, reg registration, rec Record, result *BatchResult) {
	res := reg.pusher.Push(ctx, rec)

	state := rec.Sync()
	if res.Success {
		state.MarkClean(res.RemoteID, c.now())
	} else {
		state.MarkFailed(res.Message)
		if state.IsParked(c.policy.MaxAttempts) {
			c.logger.Warn("record parked after exhausting attempts",
				zap.String("record_type", rec.RecordType().String()),
				zap.String("record_id", rec.RecordID().String()),
				zap.Int("attempts", state.Attempts),
				zap.String("last_error", state.LastError),
			)
		}
	}

	if err := reg.source.Store(ctx, rec); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			// Lost the race against another pass; the record stays in
			// whatever state the winner left it.
			result.AddFailure(rec.RecordID(), FailureKindConflict, err.Error())
			return
		}
		c.logger.Error("failed to persist sync marker",
			zap.String("record_type", rec.RecordType().String()),
			zap.String("record_id", rec.RecordID().String()),
			zap.Error(err),
		)
		result.AddFailure(rec.RecordID(), FailureKindTransport, "store marker: "+err.Error())
		return
	}

	if res.Success {
		result.AddSuccess()
		return
	}
	result.AddFailure(rec.RecordID(), res.Kind, res.Message)
}
