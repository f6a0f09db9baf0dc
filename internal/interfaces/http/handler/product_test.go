package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	storeapp "github.com/storelink/backend/internal/application/store"
	"github.com/storelink/backend/internal/domain/shared"
	"github.com/storelink/backend/internal/domain/store"
)

// MockProductRepository implements store.ProductRepository for testing
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Product), args.Error(1)
}

func (m *MockProductRepository) FindByHandle(ctx context.Context, handle string) (*store.Product, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]store.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]store.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Save(ctx context.Context, product *store.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newProductTestRouter(repo *MockProductRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewProductHandler(storeapp.NewProductService(repo)).RegisterRoutes(api)
	return engine
}

func TestProductHandlerCreate(t *testing.T) {
	t.Run("creates a product", func(t *testing.T) {
		repo := new(MockProductRepository)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*store.Product")).Return(nil)
		engine := newProductTestRouter(repo)

		payload := `{"title":"Flat White Beans","price":"24.50","vendor":"Storelink Roasters"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var body struct {
			Success bool                     `json:"success"`
			Data    storeapp.ProductResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, "Flat White Beans", body.Data.Title)
		assert.Equal(t, "flat-white-beans", body.Data.Handle)
		assert.True(t, body.Data.Sync.Dirty)
	})

	t.Run("rejects a missing title", func(t *testing.T) {
		engine := newProductTestRouter(new(MockProductRepository))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString(`{"price":"1.00"}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProductHandlerUpdate(t *testing.T) {
	t.Run("re-dirties a clean product", func(t *testing.T) {
		repo := new(MockProductRepository)
		product, err := store.NewProduct("Beans", "beans", decimal.NewFromInt(20))
		require.NoError(t, err)
		product.SyncState.MarkClean("gid://shopify/Product/1", product.CreatedAt)

		repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		repo.On("Save", mock.Anything, product).Return(nil)
		engine := newProductTestRouter(repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+product.ID.String(),
			bytes.NewBufferString(`{"price":"22.00"}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data storeapp.ProductResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Data.Sync.Dirty)
	})

	t.Run("unknown product is a 404", func(t *testing.T) {
		repo := new(MockProductRepository)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)
		engine := newProductTestRouter(repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+id.String(),
			bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id is a bad request", func(t *testing.T) {
		engine := newProductTestRouter(new(MockProductRepository))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/products/not-a-uuid",
			bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProductHandlerList(t *testing.T) {
	repo := new(MockProductRepository)
	product, err := store.NewProduct("Beans", "beans", decimal.NewFromInt(20))
	require.NoError(t, err)

	repo.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).
		Return([]store.Product{*product}, int64(1), nil)
	engine := newProductTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=1&page_size=10", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []storeapp.ProductResponse `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, int64(1), body.Meta.Total)
}
