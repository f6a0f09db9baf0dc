package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/storelink/backend/internal/domain/shared"
	"github.com/storelink/backend/internal/domain/store"
)

// newMockProductRepository creates a GormProductRepository with a mocked SQL connection
func newMockProductRepository(t *testing.T, maxAttempts int) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormProductRepository(gormDB, maxAttempts), mock, mockDB
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestGormProductRepository_FindByID(t *testing.T) {
	t.Run("finds existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t, 0)
		defer mockDB.Close()

		productID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "version", "sync_dirty", "title", "handle", "status"}).
			AddRow(productID, 1, true, "Flat White Beans", "flat-white-beans", "draft")

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnRows(rows)

		product, err := repo.FindByID(context.Background(), productID)

		assert.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, "Flat White Beans", product.Title)
		assert.True(t, product.SyncState.Dirty)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t, 0)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		product, err := repo.FindByID(context.Background(), productID)

		assert.Error(t, err)
		assert.Nil(t, product)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_ScanDirty(t *testing.T) {
	t.Run("scans dirty products in creation order", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t, 0)
		defer mockDB.Close()

		first := uuid.New()
		second := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "version", "sync_dirty", "title", "handle", "status"}).
			AddRow(first, 1, true, "First", "first", "draft").
			AddRow(second, 1, true, "Second", "second", "draft")

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE sync_dirty = \$1 ORDER BY created_at ASC, id ASC LIMIT .*`).
			WithArgs(true, 10).
			WillReturnRows(rows)

		records, err := repo.ScanDirty(context.Background(), 10)

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, first, records[0].RecordID())
		assert.Equal(t, second, records[1].RecordID())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("excludes parked products when attempts are bounded", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t, 5)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE sync_dirty = \$1 AND sync_attempts < \$2 ORDER BY created_at ASC, id ASC LIMIT .*`).
			WithArgs(true, 5, 10).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		records, err := repo.ScanDirty(context.Background(), 10)

		require.NoError(t, err)
		assert.Empty(t, records)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_Save(t *testing.T) {
	t.Run("updates an existing product with a version guard", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t, 0)
		defer mockDB.Close()

		product, err := store.NewProduct("Flat White Beans", "", mustDecimal(t, "24.50"))
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "products" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Save(context.Background(), product))
		assert.Equal(t, 2, product.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent write surfaces as a conflict", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t, 0)
		defer mockDB.Close()

		product, err := store.NewProduct("Flat White Beans", "", mustDecimal(t, "24.50"))
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "products" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE id = \$1`).
			WithArgs(product.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err = repo.Save(context.Background(), product)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.Equal(t, 1, product.Version, "version is not bumped on conflict")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_Store(t *testing.T) {
	t.Run("persists marker changes with a version check", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t, 0)
		defer mockDB.Close()

		product, err := store.NewProduct("Flat White Beans", "", mustDecimal(t, "24.50"))
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "products" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Store(context.Background(), product))
		assert.Equal(t, 2, product.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version surfaces as a concurrency conflict", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t, 0)
		defer mockDB.Close()

		product, err := store.NewProduct("Flat White Beans", "", mustDecimal(t, "24.50"))
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "products" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Store(context.Background(), product)
		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.Equal(t, 1, product.Version, "version is not bumped on conflict")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_ResetParked(t *testing.T) {
	t.Run("re-arms parked products", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t, 5)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "products" SET .* WHERE sync_dirty = \$\d+ AND sync_attempts >= \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 3))

		n, err := repo.ResetParked(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no-op when retries are unbounded", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t, 0)
		defer mockDB.Close()

		n, err := repo.ResetParked(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
