package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appsync "github.com/storelink/backend/internal/application/sync"
	"github.com/storelink/backend/internal/domain/outbox"
)

type fakeLock struct {
	held bool
}

func (l *fakeLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *fakeLock) Release(ctx context.Context, name string) error {
	l.held = false
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
	return outbox.StatusCount{Dirty: int64(len(s.records)), Parked: 1, Clean: 4}, nil
}

func (s *fakeSource) ResetParked(ctx context.Context) (int64, error) { return 1, nil }

type fakePusher struct {
	rt outbox.RecordType
}

func (p *fakePusher) RecordType() outbox.RecordType { return p.rt }

func (p *fakePusher) Push(ctx context.Context, rec outbox.Record) outbox.PushResult {
	return outbox.PushSucceeded("gid://shopify/Product/1")
}

func newSyncTestRouter(t *testing.T, lock appsync.PassLock) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	coordinator := outbox.NewCoordinator(outbox.DefaultPolicy(), zap.NewNop())
	dirty := &fakeRecord{id: uuid.New(), rt: outbox.RecordTypeProduct}
	dirty.state.MarkDirty()
	require.NoError(t, coordinator.Register(
		&fakeSource{rt: outbox.RecordTypeProduct, records: []outbox.Record{dirty}},
		&fakePusher{rt: outbox.RecordTypeProduct},
	))

	svc := appsync.NewService(coordinator, lock, 10, time.Minute, zap.NewNop())

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewSyncHandler(svc).RegisterRoutes(api)
	return engine
}

func doRequest(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestSyncHandlerRun(t *testing.T) {
	t.Run("runs one type", func(t *testing.T) {
		engine := newSyncTestRouter(t, &fakeLock{})

		w := doRequest(engine, http.MethodPost, "/api/v1/sync/run/product")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Success bool                        `json:"success"`
			Data    appsync.BatchResultResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, "product", body.Data.RecordType)
		assert.Equal(t, 1, body.Data.Succeeded)
	})

	t.Run("runs all types", func(t *testing.T) {
		engine := newSyncTestRouter(t, &fakeLock{})

		w := doRequest(engine, http.MethodPost, "/api/v1/sync/run/all")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data []appsync.BatchResultResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
	})

	t.Run("unknown type is a bad request", func(t *testing.T) {
		engine := newSyncTestRouter(t, &fakeLock{})

		w := doRequest(engine, http.MethodPost, "/api/v1/sync/run/order")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("busy lease is a conflict", func(t *testing.T) {
		engine := newSyncTestRouter(t, &fakeLock{held: true})

		w := doRequest(engine, http.MethodPost, "/api/v1/sync/run/product")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("rejects malformed limit", func(t *testing.T) {
		engine := newSyncTestRouter(t, &fakeLock{})

		w := doRequest(engine, http.MethodPost, "/api/v1/sync/run/product?limit=zero")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSyncHandlerStatus(t *testing.T) {
	engine := newSyncTestRouter(t, &fakeLock{})

	w := doRequest(engine, http.MethodGet, "/api/v1/sync/status")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []appsync.TypeStatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "product", body.Data[0].RecordType)
	assert.Equal(t, int64(1), body.Data[0].Dirty)
}

func TestSyncHandlerResetParked(t *testing.T) {
	engine := newSyncTestRouter(t, &fakeLock{})

	w := doRequest(engine, http.MethodPost, "/api/v1/sync/reset/product")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data appsync.ResetResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Data.Reset)

	w = doRequest(engine, http.MethodPost, "/api/v1/sync/reset/order")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
