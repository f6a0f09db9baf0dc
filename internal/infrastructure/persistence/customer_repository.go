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

// GormCustomerRepository implements CustomerRepository and the customer
// outbox source using GORM
type GormCustomerRepository struct {
	db          *gorm.DB
	maxAttempts int
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB, maxAttempts int) *GormCustomerRepository {
	return &GormCustomerRepository{db: db, maxAttempts: maxAttempts}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a customer by email
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*store.Customer, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]store.Customer, int64, error) {
	var customerModels []models.CustomerModel

	query := r.db.WithContext(ctx).Model(&models.CustomerModel{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := applyFilter(query, filter).Find(&customerModels).Error; err != nil {
		return nil, 0, err
	}

	customers := make([]store.Customer, len(customerModels))
	for i := range customerModels {
		customers[i] = *customerModels[i].ToDomain()
	}
	return customers, total, nil
}

// Save creates or updates a customer with an optimistic version check
func (r *GormCustomerRepository) Save(ctx context.Context, customer *store.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return saveAggregate(ctx, r.db, &models.CustomerModel{}, model, &customer.BaseAggregateRoot)
}

// Delete deletes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// RecordType implements outbox.Source
func (r *GormCustomerRepository) RecordType() outbox.RecordType {
	return outbox.RecordTypeCustomer
}

// ScanDirty returns up to limit dirty customers in creation order,
// skipping parked records
func (r *GormCustomerRepository) ScanDirty(ctx context.Context, limit int) ([]outbox.Record, error) {
	var rows []models.CustomerModel
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

// Store persists the customer's marker with an optimistic version check
func (r *GormCustomerRepository) Store(ctx context.Context, rec outbox.Record) error {
	customer, ok := rec.(*store.Customer)
	if !ok {
		return outbox.ErrUnknownRecordType
	}
	model := models.CustomerModelFromDomain(customer)
	return storeMarker(ctx, r.db, &models.CustomerModel{}, model, &customer.BaseAggregateRoot)
}

// CountStatus reports dirty/parked/clean customer totals
func (r *GormCustomerRepository) CountStatus(ctx context.Context) (outbox.StatusCount, error) {
	return countStatus(r.db.WithContext(ctx).Model(&models.CustomerModel{}), r.maxAttempts)
}

// ResetParked re-arms parked customers for retry
func (r *GormCustomerRepository) ResetParked(ctx context.Context) (int64, error) {
	return resetParked(r.db.WithContext(ctx).Model(&models.CustomerModel{}), r.maxAttempts)
}
