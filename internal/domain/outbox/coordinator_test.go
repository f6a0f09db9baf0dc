package outbox

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storelink/backend/internal/domain/shared"
)

type fakeRecord struct {
	id    uuid.UUID
	rt    RecordType
	state SyncState
}

func (r *fakeRecord) RecordID() uuid.UUID    { return r.id }
func (r *fakeRecord) RecordType() RecordType { return r.rt }
func (r *fakeRecord) Sync() *SyncState       { return &r.state }

type fakeSource struct {
	rt       RecordType
	records  []*fakeRecord
	stored   []Record
	storeErr error
	scanErr  error
}

func (s *fakeSource) RecordType() RecordType { return s.rt }

func (s *fakeSource) ScanDirty(_ context.Context, limit int) ([]Record, error) {
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		if !r.state.Dirty {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeSource) Store(_ context.Context, rec Record) error {
	if s.storeErr != nil {
		return s.storeErr
	}
	s.stored = append(s.stored, rec)
	return nil
}

func (s *fakeSource) CountStatus(context.Context) (StatusCount, error) {
	return StatusCount{}, nil
}

func (s *fakeSource) ResetParked(context.Context) (int64, error) {
	return 0, nil
}

type fakePusher struct {
	rt      RecordType
	results map[uuid.UUID]PushResult
	pushed  []uuid.UUID
}

func (p *fakePusher) RecordType() RecordType { return p.rt }

func (p *fakePusher) Push(_ context.Context, rec Record) PushResult {
	p.pushed = append(p.pushed, rec.RecordID())
	if res, ok := p.results[rec.RecordID()]; ok {
		return res
	}
	return PushSucceeded("gid://shopify/Product/" + rec.RecordID().String())
}

func dirtyRecord(rt RecordType) *fakeRecord {
	return &fakeRecord{id: uuid.New(), rt: rt, state: SyncState{Dirty: true}}
}

func TestCoordinator_RunSync_PartialFailure(t *testing.T) {
	a, b, c := dirtyRecord(RecordTypeProduct), dirtyRecord(RecordTypeProduct), dirtyRecord(RecordTypeProduct)
	source := &fakeSource{rt: RecordTypeProduct, records: []*fakeRecord{a, b, c}}
	pusher := &fakePusher{rt: RecordTypeProduct, results: map[uuid.UUID]PushResult{
		b.id: PushRejected([]UserError{{Field: "title", Message: "can't be blank"}}),
	}}

	coord := NewCoordinator(DefaultPolicy(), zap.NewNop())
	require.NoError(t, coord.Register(source, pusher))

	result, err := coord.RunSync(context.Background(), RecordTypeProduct, 0)
	require.NoError(t, err, "partial failure must not error the batch")

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, b.id, result.Failures[0].RecordID)
	assert.Equal(t, FailureKindValidation, result.Failures[0].Kind)
	assert.Contains(t, result.Failures[0].Message, "title: can't be blank")

	// Failed record stays dirty with its error populated
	assert.True(t, b.state.Dirty)
	assert.Equal(t, 1, b.state.Attempts)
	assert.NotEmpty(t, b.state.LastError)

	// Succeeded records are clean with remote IDs assigned
	for _, r := range []*fakeRecord{a, c} {
		assert.False(t, r.state.Dirty)
		assert.True(t, r.state.HasRemote())
		assert.NotNil(t, r.state.LastSyncedAt)
	}

	// Every marker change was persisted
	assert.Len(t, source.stored, 3)
}

func TestCoordinator_RunSync_SequentialScanOrder(t *testing.T) {
	recs := []*fakeRecord{
		dirtyRecord(RecordTypeCustomer),
		dirtyRecord(RecordTypeCustomer),
		dirtyRecord(RecordTypeCustomer),
	}
	source := &fakeSource{rt: RecordTypeCustomer, records: recs}
	pusher := &fakePusher{rt: RecordTypeCustomer}

	coord := NewCoordinator(DefaultPolicy(), zap.NewNop())
	require.NoError(t, coord.Register(source, pusher))

	_, err := coord.RunSync(context.Background(), RecordTypeCustomer, 0)
	require.NoError(t, err)

	require.Len(t, pusher.pushed, 3)
	for i, r := range recs {
		assert.Equal(t, r.id, pusher.pushed[i], "records pushed in scan order")
	}
}

func TestCoordinator_RunSync_RespectsLimit(t *testing.T) {
	source := &fakeSource{rt: RecordTypeProduct, records: []*fakeRecord{
		dirtyRecord(RecordTypeProduct),
		dirtyRecord(RecordTypeProduct),
		dirtyRecord(RecordTypeProduct),
	}}
	pusher := &fakePusher{rt: RecordTypeProduct}

	coord := NewCoordinator(DefaultPolicy(), zap.NewNop())
	require.NoError(t, coord.Register(source, pusher))

	result, err := coord.RunSync(context.Background(), RecordTypeProduct, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
}

func TestCoordinator_RunSync_CleanRecordsNotPushed(t *testing.T) {
	clean := &fakeRecord{id: uuid.New(), rt: RecordTypeProduct}
	source := &fakeSource{rt: RecordTypeProduct, records: []*fakeRecord{clean}}
	pusher := &fakePusher{rt: RecordTypeProduct}

	coord := NewCoordinator(DefaultPolicy(), zap.NewNop())
	require.NoError(t, coord.Register(source, pusher))

	result, err := coord.RunSync(context.Background(), RecordTypeProduct, 0)
	require.NoError(t, err)
	assert.Zero(t, result.Total)
	assert.Empty(t, pusher.pushed)
}

func TestCoordinator_RunSync_StoreConflictCountsAsFailure(t *testing.T) {
	rec := dirtyRecord(RecordTypeProduct)
	source := &fakeSource{
		rt:       RecordTypeProduct,
		records:  []*fakeRecord{rec},
		storeErr: shared.ErrConcurrencyConflict,
	}
	pusher := &fakePusher{rt: RecordTypeProduct}

	coord := NewCoordinator(DefaultPolicy(), zap.NewNop())
	require.NoError(t, coord.Register(source, pusher))

	result, err := coord.RunSync(context.Background(), RecordTypeProduct, 0)
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, FailureKindConflict, result.Failures[0].Kind)
}

func TestCoordinator_RunSync_Unregistered(t *testing.T) {
	coord := NewCoordinator(DefaultPolicy(), zap.NewNop())

	_, err := coord.RunSync(context.Background(), RecordTypeProduct, 0)
	assert.ErrorIs(t, err, ErrNotRegistered)

	_, err = coord.RunSync(context.Background(), RecordType("bogus"), 0)
	assert.ErrorIs(t, err, ErrUnknownRecordType)
}

func TestCoordinator_RunAll_RegistrationOrder(t *testing.T) {
	productSource := &fakeSource{rt: RecordTypeProduct, records: []*fakeRecord{dirtyRecord(RecordTypeProduct)}}
	inventorySource := &fakeSource{rt: RecordTypeInventory, records: []*fakeRecord{dirtyRecord(RecordTypeInventory)}}

	coord := NewCoordinator(DefaultPolicy(), zap.NewNop())
	require.NoError(t, coord.Register(productSource, &fakePusher{rt: RecordTypeProduct}))
	require.NoError(t, coord.Register(inventorySource, &fakePusher{rt: RecordTypeInventory}))

	results, err := coord.RunAll(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, RecordTypeProduct, results[0].RecordType)
	assert.Equal(t, RecordTypeInventory, results[1].RecordType)
}

func TestCoordinator_Register_Duplicate(t *testing.T) {
	coord := NewCoordinator(DefaultPolicy(), zap.NewNop())
	source := &fakeSource{rt: RecordTypeProduct}
	pusher := &fakePusher{rt: RecordTypeProduct}

	require.NoError(t, coord.Register(source, pusher))
	assert.Error(t, coord.Register(source, pusher))
}

func TestCoordinator_Register_TypeMismatch(t *testing.T) {
	coord := NewCoordinator(DefaultPolicy(), zap.NewNop())
	err := coord.Register(&fakeSource{rt: RecordTypeProduct}, &fakePusher{rt: RecordTypeCustomer})
	assert.Error(t, err)
}

func TestJoinUserErrors(t *testing.T) {
	msg := JoinUserErrors([]UserError{
		{Field: "email", Message: "has already been taken"},
		{Message: "phone is invalid"},
	})
	assert.Equal(t, "email: has already been taken; phone is invalid", msg)
}
