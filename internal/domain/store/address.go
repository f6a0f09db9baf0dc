package store

import (
	"strings"

	"github.com/google/uuid"

	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/domain/shared"
)

// CustomerAddress is a mailing address owned by a customer. It cannot be
// pushed until its parent customer has a remote identifier; the pusher
// reports that as a dependency failure.
type CustomerAddress struct {
	shared.BaseAggregateRoot
	SyncState outbox.SyncState

	CustomerID  uuid.UUID
	Address1    string
	Address2    string
	City        string
	Province    string
	CountryCode string
	Zip         string
	IsDefault   bool

	// Customer is the parent record, loaded by the repository so the
	// pusher can check the dependency precondition without extra queries.
	Customer *Customer
}

// NewCustomerAddress creates an address for a customer
func NewCustomerAddress(customerID uuid.UUID, address1, city, countryCode string) (*CustomerAddress, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Address requires a customer")
	}
	address1 = strings.TrimSpace(address1)
	if address1 == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address line cannot be empty")
	}
	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))
	if len(countryCode) != 2 {
		return nil, shared.NewDomainError("INVALID_COUNTRY", "Country code must be ISO 3166-1 alpha-2")
	}

	a := &CustomerAddress{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Address1:          address1,
		City:              strings.TrimSpace(city),
		CountryCode:       countryCode,
	}
	a.SyncState.MarkDirty()
	return a, nil
}

// Update replaces the address fields
func (a *CustomerAddress) Update(address1, address2, city, province, zip string) error {
	address1 = strings.TrimSpace(address1)
	if address1 == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Address line cannot be empty")
	}
	a.Address1 = address1
	a.Address2 = strings.TrimSpace(address2)
	a.City = strings.TrimSpace(city)
	a.Province = strings.TrimSpace(province)
	a.Zip = strings.TrimSpace(zip)
	a.SyncState.MarkDirty()
	return nil
}

// MakeDefault marks this address as the customer's default
func (a *CustomerAddress) MakeDefault() {
	if a.IsDefault {
		return
	}
	a.IsDefault = true
	a.SyncState.MarkDirty()
}

// RecordID implements outbox.Record
func (a *CustomerAddress) RecordID() uuid.UUID { return a.ID }

// RecordType implements outbox.Record
func (a *CustomerAddress) RecordType() outbox.RecordType { return outbox.RecordTypeAddress }

// Sync implements outbox.Record
func (a *CustomerAddress) Sync() *outbox.SyncState { return &a.SyncState }
