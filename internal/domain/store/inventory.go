package store

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/domain/shared"
)

// InventoryLevel is the on-hand quantity of a product at a remote
// location. It cannot be pushed until its parent product has a remote
// identifier.
type InventoryLevel struct {
	shared.BaseAggregateRoot
	SyncState outbox.SyncState

	ProductID        uuid.UUID
	LocationRemoteID string // remote location identifier, operator-configured
	Available        decimal.Decimal

	// Product is the parent record, loaded by the repository for the
	// dependency precondition check.
	Product *Product
}

// NewInventoryLevel creates an inventory level for a product at a location
func NewInventoryLevel(productID uuid.UUID, locationRemoteID string, available decimal.Decimal) (*InventoryLevel, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Inventory level requires a product")
	}
	if locationRemoteID == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Inventory level requires a location")
	}
	if available.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Available quantity cannot be negative")
	}

	l := &InventoryLevel{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		LocationRemoteID:  locationRemoteID,
		Available:         available,
	}
	l.SyncState.MarkDirty()
	return l, nil
}

// SetAvailable replaces the on-hand quantity
func (l *InventoryLevel) SetAvailable(available decimal.Decimal) error {
	if available.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Available quantity cannot be negative")
	}
	l.Available = available
	l.SyncState.MarkDirty()
	return nil
}

// Adjust applies a delta to the on-hand quantity
func (l *InventoryLevel) Adjust(delta decimal.Decimal) error {
	next := l.Available.Add(delta)
	if next.IsNegative() {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Adjustment would make quantity negative")
	}
	l.Available = next
	l.SyncState.MarkDirty()
	return nil
}

// RecordID implements outbox.Record
func (l *InventoryLevel) RecordID() uuid.UUID { return l.ID }

// RecordType implements outbox.Record
func (l *InventoryLevel) RecordType() outbox.RecordType { return outbox.RecordTypeInventory }

// Sync implements outbox.Record
func (l *InventoryLevel) Sync() *outbox.SyncState { return &l.SyncState }
