package outbox

import (
	"fmt"

	"github.com/google/uuid"
)

// RecordType identifies a syncable record type
type RecordType string

const (
	// RecordTypeProduct is a catalog product
	RecordTypeProduct RecordType = "product"
	// RecordTypeCustomer is a store customer
	RecordTypeCustomer RecordType = "customer"
	// RecordTypeAddress is a customer mailing address
	RecordTypeAddress RecordType = "customer_address"
	// RecordTypeInventory is an inventory level at a location
	RecordTypeInventory RecordType = "inventory_level"
	// RecordTypeSellingPlan is a subscription selling plan
	RecordTypeSellingPlan RecordType = "selling_plan"
)

// AllRecordTypes lists every record type in dependency order: parents
// before the records that require their remote identifier.
var AllRecordTypes = []RecordType{
	RecordTypeProduct,
	RecordTypeCustomer,
	RecordTypeAddress,
	RecordTypeInventory,
	RecordTypeSellingPlan,
}

// IsValid returns true if the record type is known
func (t RecordType) IsValid() bool {
	switch t {
	case RecordTypeProduct, RecordTypeCustomer, RecordTypeAddress,
		RecordTypeInventory, RecordTypeSellingPlan:
		return true
	default:
		return false
	}
}

// String returns the string representation of the record type
func (t RecordType) String() string {
	return string(t)
}

// ParseRecordType parses a record type selector from operator input
func ParseRecordType(s string) (RecordType, error) {
	t := RecordType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRecordType, s)
	}
	return t, nil
}

// Record is the view the sync core has of any syncable entity.
type Record interface {
	// RecordID is the local identifier, owned exclusively by this store
	RecordID() uuid.UUID
	// RecordType identifies which pusher handles the record
	RecordType() RecordType
	// Sync exposes the record's change marker
	Sync() *SyncState
}
