package store

import (
	"strings"

	"github.com/google/uuid"

	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/domain/shared"
	"github.com/storelink/backend/internal/domain/shared/valueobject"
)

// Customer is a locally owned customer record mirrored to the remote store.
type Customer struct {
	shared.BaseAggregateRoot
	SyncState outbox.SyncState

	Email            string
	FirstName        string
	LastName         string
	Phone            string // international dialing format, may be empty
	Note             string
	Tags             []string
	AcceptsMarketing bool
}

// NewCustomer creates a customer; it starts dirty so the next sync pass
// creates it remotely.
func NewCustomer(email, firstName, lastName string) (*Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Customer email is invalid")
	}

	c := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		FirstName:         strings.TrimSpace(firstName),
		LastName:          strings.TrimSpace(lastName),
	}
	c.SyncState.MarkDirty()
	return c, nil
}

// UpdateName changes the customer's name
func (c *Customer) UpdateName(firstName, lastName string) {
	c.FirstName = strings.TrimSpace(firstName)
	c.LastName = strings.TrimSpace(lastName)
	c.SyncState.MarkDirty()
}

// SetPhone normalizes and stores the phone number. Raw input that cannot
// be normalized is rejected before it ever reaches the remote API.
func (c *Customer) SetPhone(raw string, region valueobject.Region) error {
	if strings.TrimSpace(raw) == "" {
		c.Phone = ""
		c.SyncState.MarkDirty()
		return nil
	}
	phone, err := valueobject.NormalizePhone(raw, region)
	if err != nil {
		return shared.NewDomainError("INVALID_PHONE", err.Error())
	}
	c.Phone = phone.String()
	c.SyncState.MarkDirty()
	return nil
}

// SetNote updates the operator note
func (c *Customer) SetNote(note string) {
	c.Note = note
	c.SyncState.MarkDirty()
}

// SetTags replaces the customer's tags
func (c *Customer) SetTags(tags []string) {
	c.Tags = tags
	c.SyncState.MarkDirty()
}

// SetMarketingOptIn updates the marketing consent flag
func (c *Customer) SetMarketingOptIn(accepts bool) {
	c.AcceptsMarketing = accepts
	c.SyncState.MarkDirty()
}

// RecordID implements outbox.Record
func (c *Customer) RecordID() uuid.UUID { return c.ID }

// RecordType implements outbox.Record
func (c *Customer) RecordType() outbox.RecordType { return outbox.RecordTypeCustomer }

// Sync implements outbox.Record
func (c *Customer) Sync() *outbox.SyncState { return &c.SyncState }
