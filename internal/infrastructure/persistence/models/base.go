package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// SetVersion overrides the persisted version, used by lock-checked saves
func (m *AggregateModel) SetVersion(v int) {
	m.Version = v
}

// PopulateAggregateRoot populates a domain BaseAggregateRoot from the model
func (m *AggregateModel) PopulateAggregateRoot(a *shared.BaseAggregateRoot) {
	a.BaseEntity = m.BaseModel.ToDomain()
	a.Version = m.Version
}

// SyncMarkerModel holds the change-marker columns shared by every table
// whose rows are mirrored to the remote store. SyncDirty is indexed
// because the scanner's hot query filters on it.
type SyncMarkerModel struct {
	SyncDirty     bool       `gorm:"not null;default:true;index"`
	SyncRemoteID  *string    `gorm:"type:varchar(255);index"`
	LastSyncedAt  *time.Time `gorm:""`
	LastSyncError string     `gorm:"type:text"`
	SyncAttempts  int        `gorm:"not null;default:0"`
}

// ToDomain converts the marker columns to a domain SyncState
func (m *SyncMarkerModel) ToDomain() outbox.SyncState {
	return outbox.SyncState{
		Dirty:        m.SyncDirty,
		RemoteID:     m.SyncRemoteID,
		LastSyncedAt: m.LastSyncedAt,
		LastError:    m.LastSyncError,
		Attempts:     m.SyncAttempts,
	}
}

// FromDomain populates the marker columns from a domain SyncState
func (m *SyncMarkerModel) FromDomain(s outbox.SyncState) {
	m.SyncDirty = s.Dirty
	m.SyncRemoteID = s.RemoteID
	m.LastSyncedAt = s.LastSyncedAt
	m.LastSyncError = s.LastError
	m.SyncAttempts = s.Attempts
}
