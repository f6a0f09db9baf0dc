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

// GormSellingPlanRepository implements SellingPlanRepository and the
// selling plan outbox source using GORM
type GormSellingPlanRepository struct {
	db          *gorm.DB
	maxAttempts int
}

// NewGormSellingPlanRepository creates a new GormSellingPlanRepository
func NewGormSellingPlanRepository(db *gorm.DB, maxAttempts int) *GormSellingPlanRepository {
	return &GormSellingPlanRepository{db: db, maxAttempts: maxAttempts}
}

// FindByID finds a selling plan by its ID
func (r *GormSellingPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.SellingPlan, error) {
	var model models.SellingPlanModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all selling plans matching the filter
func (r *GormSellingPlanRepository) FindAll(ctx context.Context, filter shared.Filter) ([]store.SellingPlan, int64, error) {
	var planModels []models.SellingPlanModel

	query := r.db.WithContext(ctx).Model(&models.SellingPlanModel{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := applyFilter(query, filter).Find(&planModels).Error; err != nil {
		return nil, 0, err
	}

	plans := make([]store.SellingPlan, len(planModels))
	for i := range planModels {
		plans[i] = *planModels[i].ToDomain()
	}
	return plans, total, nil
}

// Save creates or updates a selling plan with an optimistic version check
func (r *GormSellingPlanRepository) Save(ctx context.Context, plan *store.SellingPlan) error {
	model := models.SellingPlanModelFromDomain(plan)
	return saveAggregate(ctx, r.db, &models.SellingPlanModel{}, model, &plan.BaseAggregateRoot)
}

// RecordType implements outbox.Source
func (r *GormSellingPlanRepository) RecordType() outbox.RecordType {
	return outbox.RecordTypeSellingPlan
}

// ScanDirty returns up to limit dirty selling plans in creation order,
// skipping parked records
func (r *GormSellingPlanRepository) ScanDirty(ctx context.Context, limit int) ([]outbox.Record, error) {
	var rows []models.SellingPlanModel
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

// Store persists the selling plan's marker with an optimistic version
// check. The plan identifier inside the group is captured from the create
// mutation's response, so the pass writes it back alongside the marker.
func (r *GormSellingPlanRepository) Store(ctx context.Context, rec outbox.Record) error {
	plan, ok := rec.(*store.SellingPlan)
	if !ok {
		return outbox.ErrUnknownRecordType
	}
	model := models.SellingPlanModelFromDomain(plan)
	return storeMarker(ctx, r.db, &models.SellingPlanModel{}, model, &plan.BaseAggregateRoot,
		"remote_plan_id")
}

// CountStatus reports dirty/parked/clean selling plan totals
func (r *GormSellingPlanRepository) CountStatus(ctx context.Context) (outbox.StatusCount, error) {
	return countStatus(r.db.WithContext(ctx).Model(&models.SellingPlanModel{}), r.maxAttempts)
}

// ResetParked re-arms parked selling plans for retry
func (r *GormSellingPlanRepository) ResetParked(ctx context.Context) (int64, error) {
	return resetParked(r.db.WithContext(ctx).Model(&models.SellingPlanModel{}), r.maxAttempts)
}
