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

// GormAddressRepository implements AddressRepository and the address
// outbox source using GORM. Scans preload the parent customer so the
// pusher can check the dependency precondition without extra queries.
type GormAddressRepository struct {
	db          *gorm.DB
	maxAttempts int
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB, maxAttempts int) *GormAddressRepository {
	return &GormAddressRepository{db: db, maxAttempts: maxAttempts}
}

// FindByID finds an address by its ID
func (r *GormAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.CustomerAddress, error) {
	var model models.CustomerAddressModel
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomer finds all addresses belonging to a customer
func (r *GormAddressRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]store.CustomerAddress, error) {
	var rows []models.CustomerAddressModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	addresses := make([]store.CustomerAddress, len(rows))
	for i := range rows {
		addresses[i] = *rows[i].ToDomain()
	}
	return addresses, nil
}

// Save creates or updates an address with an optimistic version check
func (r *GormAddressRepository) Save(ctx context.Context, address *store.CustomerAddress) error {
	model := models.CustomerAddressModelFromDomain(address)
	return saveAggregate(ctx, r.db, &models.CustomerAddressModel{}, model, &address.BaseAggregateRoot)
}

// Delete deletes an address
func (r *GormAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerAddressModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// RecordType implements outbox.Source
func (r *GormAddressRepository) RecordType() outbox.RecordType {
	return outbox.RecordTypeAddress
}

// ScanDirty returns up to limit dirty addresses in creation order with
// their parent customer preloaded, skipping parked records
func (r *GormAddressRepository) ScanDirty(ctx context.Context, limit int) ([]outbox.Record, error) {
	var rows []models.CustomerAddressModel
	query := scanDirtyScope(r.db.WithContext(ctx).Preload("Customer"), r.maxAttempts, limit)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]outbox.Record, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, nil
}

// Store persists the address's marker with an optimistic version check
func (r *GormAddressRepository) Store(ctx context.Context, rec outbox.Record) error {
	address, ok := rec.(*store.CustomerAddress)
	if !ok {
		return outbox.ErrUnknownRecordType
	}
	model := models.CustomerAddressModelFromDomain(address)
	return storeMarker(ctx, r.db, &models.CustomerAddressModel{}, model, &address.BaseAggregateRoot)
}

// CountStatus reports dirty/parked/clean address totals
func (r *GormAddressRepository) CountStatus(ctx context.Context) (outbox.StatusCount, error) {
	return countStatus(r.db.WithContext(ctx).Model(&models.CustomerAddressModel{}), r.maxAttempts)
}

// ResetParked re-arms parked addresses for retry
func (r *GormAddressRepository) ResetParked(ctx context.Context) (int64, error) {
	return resetParked(r.db.WithContext(ctx).Model(&models.CustomerAddressModel{}), r.maxAttempts)
}
