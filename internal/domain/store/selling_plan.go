package store

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/domain/shared"
)

// PlanInterval is the recurrence unit of a selling plan
type PlanInterval string

const (
	PlanIntervalDay   PlanInterval = "DAY"
	PlanIntervalWeek  PlanInterval = "WEEK"
	PlanIntervalMonth PlanInterval = "MONTH"
	PlanIntervalYear  PlanInterval = "YEAR"
)

// IsValid returns true if the interval is valid
func (i PlanInterval) IsValid() bool {
	switch i {
	case PlanIntervalDay, PlanIntervalWeek, PlanIntervalMonth, PlanIntervalYear:
		return true
	default:
		return false
	}
}

// SellingPlan is a subscription program (delivery cadence plus discount)
// mirrored to the remote store as a selling plan group.
type SellingPlan struct {
	shared.BaseAggregateRoot
	SyncState outbox.SyncState

	Name          string
	Interval      PlanInterval
	IntervalCount int
	PercentageOff decimal.Decimal

	// RemotePlanID is the remote identifier of the plan inside its
	// group, assigned by the create mutation. Updates must target the
	// plan by this identifier or the remote rejects them.
	RemotePlanID string
}

// NewSellingPlan creates a selling plan; it starts dirty so the next sync
// pass creates it remotely.
func NewSellingPlan(name string, interval PlanInterval, intervalCount int) (*SellingPlan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Selling plan name cannot be empty")
	}
	if !interval.IsValid() {
		return nil, shared.NewDomainError("INVALID_INTERVAL", "Unknown selling plan interval")
	}
	if intervalCount < 1 {
		return nil, shared.NewDomainError("INVALID_INTERVAL", "Interval count must be at least 1")
	}

	p := &SellingPlan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Interval:          interval,
		IntervalCount:     intervalCount,
	}
	p.SyncState.MarkDirty()
	return p, nil
}

// SetDiscount sets the percentage discount applied to subscribers
func (p *SellingPlan) SetDiscount(percentage decimal.Decimal) error {
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100 percent")
	}
	p.PercentageOff = percentage
	p.SyncState.MarkDirty()
	return nil
}

// Reschedule changes the recurrence cadence
func (p *SellingPlan) Reschedule(interval PlanInterval, intervalCount int) error {
	if !interval.IsValid() {
		return shared.NewDomainError("INVALID_INTERVAL", "Unknown selling plan interval")
	}
	if intervalCount < 1 {
		return shared.NewDomainError("INVALID_INTERVAL", "Interval count must be at least 1")
	}
	p.Interval = interval
	p.IntervalCount = intervalCount
	p.SyncState.MarkDirty()
	return nil
}

// RecordID implements outbox.Record
func (p *SellingPlan) RecordID() uuid.UUID { return p.ID }

// RecordType implements outbox.Record
func (p *SellingPlan) RecordType() outbox.RecordType { return outbox.RecordTypeSellingPlan }

// Sync implements outbox.Record
func (p *SellingPlan) Sync() *outbox.SyncState { return &p.SyncState }
