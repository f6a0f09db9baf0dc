package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/domain/shared"
	"github.com/storelink/backend/internal/domain/store"
	"github.com/storelink/backend/internal/infrastructure/persistence/models"
)

// GormInventoryRepository implements InventoryRepository and the
// inventory outbox source using GORM. Scans preload the parent product
// for the dependency precondition check.
type GormInventoryRepository struct {
	db          *gorm.DB
	maxAttempts int
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB, maxAttempts int) *GormInventoryRepository {
	return &GormInventoryRepository{db: db, maxAttempts: maxAttempts}
}

// FindByID finds an inventory level by its ID
func (r *GormInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.InventoryLevel, error) {
	var model models.InventoryLevelModel
	if err := r.db.WithContext(ctx).
		Preload("Product").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProduct finds all inventory levels for a product
func (r *GormInventoryRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]store.InventoryLevel, error) {
	var rows []models.InventoryLevelModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	levels := make([]store.InventoryLevel, len(rows))
	for i := range rows {
		levels[i] = *rows[i].ToDomain()
	}
	return levels, nil
}

// Save creates or updates an inventory level with an optimistic version check
func (r *GormInventoryRepository) Save(ctx context.Context, level *store.InventoryLevel) error {
	model := models.InventoryLevelModelFromDomain(level)
	return saveAggregate(ctx, r.db, &models.InventoryLevelModel{}, model, &level.BaseAggregateRoot)
}

// RecordType implements outbox.Source
func (r *GormInventoryRepository) RecordType() outbox.RecordType {
	return outbox.RecordTypeInventory
}

// ScanDirty returns up to limit dirty inventory levels in creation order
// with their parent product preloaded, skipping parked records
func (r *GormInventoryRepository) ScanDirty(ctx context.Context, limit int) ([]outbox.Record, error) {
	var rows []models.InventoryLevelModel
	query := scanDirtyScope(r.db.WithContext(ctx).Preload("Product"), r.maxAttempts, limit)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]outbox.Record, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, nil
}

// Store persists the inventory level's marker with an optimistic version check
func (r *GormInventoryRepository) Store(ctx context.Context, rec outbox.Record) error {
	level, ok := rec.(*store.InventoryLevel)
	if !ok {
		return outbox.ErrUnknownRecordType
	}
	model := models.InventoryLevelModelFromDomain(level)
	return storeMarker(ctx, r.db, &models.InventoryLevelModel{}, model, &level.BaseAggregateRoot)
}

// CountStatus reports dirty/parked/clean inventory totals
func (r *GormInventoryRepository) CountStatus(ctx context.Context) (outbox.StatusCount, error) {
	return countStatus(r.db.WithContext(ctx).Model(&models.InventoryLevelModel{}), r.maxAttempts)
}

// ResetParked re-arms parked inventory levels for retry
func (r *GormInventoryRepository) ResetParked(ctx context.Context) (int64, error) {
	return resetParked(r.db.WithContext(ctx).Model(&models.InventoryLevelModel{}), r.maxAttempts)
}
