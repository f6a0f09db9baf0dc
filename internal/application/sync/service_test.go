package sync

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storelink/backend/internal/domain/outbox"
)

type fakeLock struct {
	held     bool
	acquired int
	released int
}

func (l *fakeLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	if l.held {
		return false, nil
	}
	l.held = true
	l.acquired++
	return true, nil
}

func (l *fakeLock) Release(ctx context.Context, name string) error {
	l.held = false
	l.released++
	return nil
}

type fakeRecord struct {
	id    uuid.UUID
	rt    outbox.RecordType
	state outbox.SyncState
}

func (r *fakeRecord) RecordID() uuid.UUID           { return r.id }
func (r *fakeRecord) RecordType() outbox.RecordType { return r.rt }
func (r *fakeRecord) Sync() *outbox.SyncState       { return &r.state }

type fakeSource struct {
	rt      outbox.RecordType
	records []outbox.Record
	count   outbox.StatusCount
	reset   int64
}

func (s *fakeSource) RecordType() outbox.RecordType { return s.rt }

func (s *fakeSource) ScanDirty(ctx context.Context, limit int) ([]outbox.Record, error) {
	if limit < len(s.records) {
		return s.records[:limit], nil
	}
	return s.records, nil
}

func (s *fakeSource) Store(ctx context.Context, rec outbox.Record) error { return nil }

func (s *fakeSource) CountStatus(ctx context.Context) (outbox.StatusCount, error) {
	return s.count, nil
}

func (s *fakeSource) ResetParked(ctx context.Context) (int64, error) { return s.reset, nil }

type fakePusher struct {
	rt outbox.RecordType
}

func (p *fakePusher) RecordType() outbox.RecordType { return p.rt }

func (p *fakePusher) Push(ctx context.Context, rec outbox.Record) outbox.PushResult {
	return outbox.PushSucceeded("gid://shopify/Product/1")
}

func newTestService(t *testing.T, lock PassLock) *Service {
	t.Helper()
	coordinator := outbox.NewCoordinator(outbox.DefaultPolicy(), zap.NewNop())

	dirty := &fakeRecord{id: uuid.New(), rt: outbox.RecordTypeProduct}
	dirty.state.MarkDirty()

	source := &fakeSource{
		rt:      outbox.RecordTypeProduct,
		records: []outbox.Record{dirty},
		count:   outbox.StatusCount{Dirty: 1, Parked: 2, Clean: 3},
		reset:   2,
	}
	require.NoError(t, coordinator.Register(source, &fakePusher{rt: outbox.RecordTypeProduct}))

	return NewService(coordinator, lock, 10, time.Minute, zap.NewNop())
}

func TestServiceRunType(t *testing.T) {
	t.Run("runs a pass and releases the lock", func(t *testing.T) {
		lock := &fakeLock{}
		svc := newTestService(t, lock)

		result, err := svc.RunType(context.Background(), "product", 0)
		require.NoError(t, err)
		assert.Equal(t, "product", result.RecordType)
		assert.Equal(t, 1, result.Total)
		assert.Equal(t, 1, result.Succeeded)
		assert.Equal(t, 1, lock.acquired)
		assert.Equal(t, 1, lock.released)
		assert.False(t, lock.held)
	})

	t.Run("rejects an unknown record type", func(t *testing.T) {
		svc := newTestService(t, &fakeLock{})

		_, err := svc.RunType(context.Background(), "order", 0)
		assert.ErrorIs(t, err, outbox.ErrUnknownRecordType)
	})

	t.Run("concurrent pass is refused", func(t *testing.T) {
		lock := &fakeLock{held: true}
		svc := newTestService(t, lock)

		_, err := svc.RunType(context.Background(), "product", 0)
		assert.ErrorIs(t, err, ErrPassInProgress)
	})
}

func TestServiceRunAll(t *testing.T) {
	lock := &fakeLock{}
	svc := newTestService(t, lock)

	results, err := svc.RunAll(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "product", results[0].RecordType)
	assert.False(t, lock.held)
}

func TestServiceStatus(t *testing.T) {
	svc := newTestService(t, &fakeLock{})

	statuses, err := svc.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "product", statuses[0].RecordType)
	assert.Equal(t, int64(1), statuses[0].Dirty)
	assert.Equal(t, int64(2), statuses[0].Parked)
	assert.Equal(t, int64(3), statuses[0].Clean)
}

func TestServiceResetParked(t *testing.T) {
	svc := newTestService(t, &fakeLock{})

	resp, err := svc.ResetParked(context.Background(), "product")
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Reset)
}
