package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/domain/shared"
	"github.com/storelink/backend/internal/domain/store"
	"github.com/storelink/backend/internal/infrastructure/persistence/models"
)

// GormProductRepository implements ProductRepository and the product
// outbox source using GORM
type GormProductRepository struct {
	db          *gorm.DB
	maxAttempts int
}

// NewGormProductRepository creates a new GormProductRepository.
// maxAttempts bounds retries before a record is parked; zero means never.
func NewGormProductRepository(db *gorm.DB, maxAttempts int) *GormProductRepository {
	return &GormProductRepository{db: db, maxAttempts: maxAttempts}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByHandle finds a product by its URL handle
func (r *GormProductRepository) FindByHandle(ctx context.Context, handle string) (*store.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("handle = ?", strings.ToLower(handle)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]store.Product, int64, error) {
	var productModels []models.ProductModel

	query := r.db.WithContext(ctx).Model(&models.ProductModel{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR handle ILIKE ? OR sku ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := applyFilter(query, filter).Find(&productModels).Error; err != nil {
		return nil, 0, err
	}

	products := make([]store.Product, len(productModels))
	for i := range productModels {
		products[i] = *productModels[i].ToDomain()
	}
	return products, total, nil
}

// Save creates or updates a product with an optimistic version check
func (r *GormProductRepository) Save(ctx context.Context, product *store.Product) error {
	model := models.ProductModelFromDomain(product)
	return saveAggregate(ctx, r.db, &models.ProductModel{}, model, &product.BaseAggregateRoot)
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// RecordType implements outbox.Source
func (r *GormProductRepository) RecordType() outbox.RecordType {
	return outbox.RecordTypeProduct
}

// ScanDirty returns up to limit dirty products in creation order,
// skipping parked records
func (r *GormProductRepository) ScanDirty(ctx context.Context, limit int) ([]outbox.Record, error) {
	var rows []models.ProductModel
	query := scanDirtyScope(r.db.WithContext(ctx), r.maxAttempts, limit)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]outbox.Record, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, nil
}

// Store persists the product's marker with an optimistic version check.
// The inventory item identifier is captured from the create mutation's
// response, so the pass writes it back alongside the marker.
func (r *GormProductRepository) Store(ctx context.Context, rec outbox.Record) error {
	product, ok := rec.(*store.Product)
	if !ok {
		return outbox.ErrUnknownRecordType
	}
	model := models.ProductModelFromDomain(product)
	return storeMarker(ctx, r.db, &models.ProductModel{}, model, &product.BaseAggregateRoot,
		"inventory_item_remote_id")
}

// CountStatus reports dirty/parked/clean product totals
func (r *GormProductRepository) CountStatus(ctx context.Context) (outbox.StatusCount, error) {
	return countStatus(r.db.WithContext(ctx).Model(&models.ProductModel{}), r.maxAttempts)
}

// ResetParked re-arms parked products for retry
func (r *GormProductRepository) ResetParked(ctx context.Context) (int64, error) {
	return resetParked(r.db.WithContext(ctx).Model(&models.ProductModel{}), r.maxAttempts)
}
