package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/domain/shared"
	"github.com/storelink/backend/internal/domain/store"
	"github.com/storelink/backend/internal/infrastructure/persistence/models"
)

func setupSellingPlanTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.SellingPlanModel{})
	require.NoError(t, err)

	return db
}

// seedPlan saves a plan with a fixed creation time so ordering is
// deterministic across test rows.
func seedPlan(t *testing.T, repo *GormSellingPlanRepository, name string, createdAt time.Time) *store.SellingPlan {
	t.Helper()
	plan, err := store.NewSellingPlan(name, store.PlanIntervalMonth, 1)
	require.NoError(t, err)
	plan.CreatedAt = createdAt
	require.NoError(t, repo.Save(context.Background(), plan))
	return plan
}

func TestSellingPlanRepositorySave(t *testing.T) {
	db := setupSellingPlanTestDB(t)
	repo := NewGormSellingPlanRepository(db, 10)
	ctx := context.Background()

	plan, err := store.NewSellingPlan("Monthly Coffee", store.PlanIntervalMonth, 1)
	require.NoError(t, err)
	require.NoError(t, plan.SetDiscount(decimal.NewFromInt(15)))

	require.NoError(t, repo.Save(ctx, plan))

	found, err := repo.FindByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, found.ID)
	assert.Equal(t, "Monthly Coffee", found.Name)
	assert.Equal(t, store.PlanIntervalMonth, found.Interval)
	assert.True(t, found.PercentageOff.Equal(decimal.NewFromInt(15)))
	assert.True(t, found.SyncState.Dirty)

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestSellingPlanRepositoryScanDirty(t *testing.T) {
	db := setupSellingPlanTestDB(t)
	repo := NewGormSellingPlanRepository(db, 3)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	first := seedPlan(t, repo, "Weekly Box", base)
	second := seedPlan(t, repo, "Monthly Box", base.Add(time.Hour))
	third := seedPlan(t, repo, "Yearly Box", base.Add(2*time.Hour))

	// A clean row never surfaces in a scan.
	second.SyncState.MarkClean("gid://shopify/SellingPlanGroup/2", time.Now())
	require.NoError(t, repo.Save(ctx, second))

	records, err := repo.ScanDirty(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].RecordID())
	assert.Equal(t, third.ID, records[1].RecordID())

	t.Run("respects limit in creation order", func(t *testing.T) {
		records, err := repo.ScanDirty(ctx, 1)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, first.ID, records[0].RecordID())
	})

	t.Run("skips parked rows", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			first.SyncState.MarkFailed("throttled")
		}
		require.NoError(t, repo.Save(ctx, first))

		records, err := repo.ScanDirty(ctx, 10)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, third.ID, records[0].RecordID())
	})
}

func TestSellingPlanRepositoryStore(t *testing.T) {
	db := setupSellingPlanTestDB(t)
	repo := NewGormSellingPlanRepository(db, 10)
	ctx := context.Background()

	plan := seedPlan(t, repo, "Quarterly Box", time.Now().UTC())

	t.Run("persists marker and bumps version", func(t *testing.T) {
		plan.SyncState.MarkClean("gid://shopify/SellingPlanGroup/42", time.Now())
		plan.RemotePlanID = "gid://shopify/SellingPlan/7"
		require.NoError(t, repo.Store(ctx, plan))
		assert.Equal(t, 2, plan.Version)

		found, err := repo.FindByID(ctx, plan.ID)
		require.NoError(t, err)
		assert.False(t, found.SyncState.Dirty)
		require.NotNil(t, found.SyncState.RemoteID)
		assert.Equal(t, "gid://shopify/SellingPlanGroup/42", *found.SyncState.RemoteID)
		assert.Equal(t, "gid://shopify/SellingPlan/7", found.RemotePlanID)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		stale := *plan
		stale.Version = 1
		err := repo.Store(ctx, &stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Equal(t, 1, stale.Version)
	})

	t.Run("leaves business columns untouched", func(t *testing.T) {
		plan.Name = "Renamed only in memory"
		plan.SyncState.MarkFailed("throttled")
		require.NoError(t, repo.Store(ctx, plan))

		found, err := repo.FindByID(ctx, plan.ID)
		require.NoError(t, err)
		assert.Equal(t, "Quarterly Box", found.Name)
		assert.Equal(t, 1, found.SyncState.Attempts)
	})

	t.Run("rejects foreign record types", func(t *testing.T) {
		product, err := store.NewProduct("Beans", "beans", decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Store(ctx, product), outbox.ErrUnknownRecordType)
	})
}

func TestSellingPlanRepositoryConcurrentEdit(t *testing.T) {
	db := setupSellingPlanTestDB(t)
	repo := NewGormSellingPlanRepository(db, 10)
	ctx := context.Background()

	plan := seedPlan(t, repo, "Monthly Box", time.Now().UTC())

	records, err := repo.ScanDirty(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	scanned, ok := records[0].(*store.SellingPlan)
	require.True(t, ok)

	// An operator edit lands after the scan but before the pass writes
	// the marker back.
	edited, err := repo.FindByID(ctx, plan.ID)
	require.NoError(t, err)
	require.NoError(t, edited.SetDiscount(decimal.NewFromInt(15)))
	require.NoError(t, repo.Save(ctx, edited))
	assert.Equal(t, 2, edited.Version)

	scanned.SyncState.MarkClean("gid://shopify/SellingPlanGroup/9", time.Now())
	err = repo.Store(ctx, scanned)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	// The edit survives and the record stays dirty for the next pass.
	final, err := repo.FindByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.True(t, final.SyncState.Dirty)
	assert.True(t, final.PercentageOff.Equal(decimal.NewFromInt(15)))

	t.Run("stale operator copy conflicts too", func(t *testing.T) {
		stale := *plan
		stale.Version = 1
		err := repo.Save(ctx, &stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestSellingPlanRepositoryCountStatus(t *testing.T) {
	db := setupSellingPlanTestDB(t)
	repo := NewGormSellingPlanRepository(db, 2)
	ctx := context.Background()

	now := time.Now().UTC()
	seedPlan(t, repo, "Dirty", now)

	clean := seedPlan(t, repo, "Clean", now.Add(time.Minute))
	clean.SyncState.MarkClean("gid://shopify/SellingPlanGroup/7", time.Now())
	require.NoError(t, repo.Save(ctx, clean))

	parked := seedPlan(t, repo, "Parked", now.Add(2*time.Minute))
	parked.SyncState.MarkFailed("invalid interval")
	parked.SyncState.MarkFailed("invalid interval")
	require.NoError(t, repo.Save(ctx, parked))

	sc, err := repo.CountStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sc.Dirty)
	assert.Equal(t, int64(1), sc.Parked)
	assert.Equal(t, int64(1), sc.Clean)
}

func TestSellingPlanRepositoryResetParked(t *testing.T) {
	db := setupSellingPlanTestDB(t)
	repo := NewGormSellingPlanRepository(db, 2)
	ctx := context.Background()

	parked := seedPlan(t, repo, "Stuck", time.Now().UTC())
	parked.SyncState.MarkFailed("throttled")
	parked.SyncState.MarkFailed("throttled")
	require.NoError(t, repo.Save(ctx, parked))

	reset, err := repo.ResetParked(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reset)

	found, err := repo.FindByID(ctx, parked.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.SyncState.Attempts)
	assert.Empty(t, found.SyncState.LastError)
	assert.True(t, found.SyncState.Dirty)

	t.Run("no-op when retries are unbounded", func(t *testing.T) {
		unbounded := NewGormSellingPlanRepository(db, 0)
		reset, err := unbounded.ResetParked(ctx)
		require.NoError(t, err)
		assert.Zero(t, reset)
	})
}
