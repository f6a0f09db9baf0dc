package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelink/backend/internal/domain/outbox"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates dirty product with derived handle", func(t *testing.T) {
		p, err := NewProduct("Flat White Beans 1kg", "", decimal.NewFromFloat(24.50))
		require.NoError(t, err)

		assert.Equal(t, "flat-white-beans-1kg", p.Handle)
		assert.Equal(t, ProductStatusDraft, p.Status)
		assert.True(t, p.SyncState.Dirty, "new product owes a remote create")
		assert.False(t, p.SyncState.HasRemote())
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewProduct("   ", "", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct("Beans", "", decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestProduct_MutationsMarkDirty(t *testing.T) {
	newClean := func(t *testing.T) *Product {
		p, err := NewProduct("Beans", "beans", decimal.NewFromInt(10))
		require.NoError(t, err)
		p.SyncState = outbox.SyncState{} // simulate a previously synced record
		return p
	}

	t.Run("rename", func(t *testing.T) {
		p := newClean(t)
		require.NoError(t, p.Rename("Better Beans"))
		assert.True(t, p.SyncState.Dirty)
	})

	t.Run("update details", func(t *testing.T) {
		p := newClean(t)
		p.UpdateDetails("<p>fresh</p>", "Storelink", "coffee", []string{"beans"})
		assert.True(t, p.SyncState.Dirty)
	})

	t.Run("change price", func(t *testing.T) {
		p := newClean(t)
		require.NoError(t, p.ChangePrice(decimal.NewFromInt(12)))
		assert.True(t, p.SyncState.Dirty)

		assert.Error(t, p.ChangePrice(decimal.NewFromInt(-12)))
	})

	t.Run("set status", func(t *testing.T) {
		p := newClean(t)
		require.NoError(t, p.SetStatus(ProductStatusActive))
		assert.True(t, p.SyncState.Dirty)

		assert.Error(t, p.SetStatus(ProductStatus("bogus")))
	})
}

func TestProduct_RecordInterface(t *testing.T) {
	p, err := NewProduct("Beans", "", decimal.NewFromInt(10))
	require.NoError(t, err)

	var rec outbox.Record = p
	assert.Equal(t, p.ID, rec.RecordID())
	assert.Equal(t, outbox.RecordTypeProduct, rec.RecordType())
	assert.Same(t, &p.SyncState, rec.Sync())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "flat-white-beans", slugify("Flat   White -- Beans!"))
	assert.Equal(t, "a1-b2", slugify("A1 (B2)"))
}
