package shopify

import (
	"context"

	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/domain/store"
)

const addressCreateMutation = `
mutation customerAddressCreate($customerId: ID!, $address: MailingAddressInput!, $setAsDefault: Boolean) {
  customerAddressCreate(customerId: $customerId, address: $address, setAsDefault: $setAsDefault) {
    address { id }
    userErrors { field message }
  }
}`

const addressUpdateMutation = `
mutation customerAddressUpdate($addressId: ID!, $address: MailingAddressInput!, $setAsDefault: Boolean) {
  customerAddressUpdate(addressId: $addressId, address: $address, setAsDefault: $setAsDefault) {
    address { id }
    userErrors { field message }
  }
}`

type addressPayload struct {
	Address *struct {
		ID string `json:"id"`
	} `json:"address"`
	UserErrors []userError `json:"userErrors"`
}

// AddressPusher mirrors customer addresses to the remote store. An
// address is only pushable after its parent customer exists remotely.
type AddressPusher struct {
	client *Client
}

// NewAddressPusher creates an address pusher
func NewAddressPusher(client *Client) *AddressPusher {
	return &AddressPusher{client: client}
}

// RecordType implements outbox.Pusher
func (p *AddressPusher) RecordType() outbox.RecordType {
	return outbox.RecordTypeAddress
}

// Push issues one create-or-update mutation for the address. When the
// parent customer has no remote identifier yet, no call is made and the
// address stays dirty for a later pass.
func (p *AddressPusher) Push(ctx context.Context, rec outbox.Record) outbox.PushResult {
	address, ok := rec.(*store.CustomerAddress)
	if !ok {
		return wrongRecordType(outbox.RecordTypeAddress, rec)
	}
	if address.Customer == nil || !address.Customer.SyncState.HasRemote() {
		return outbox.PushFailed(outbox.FailureKindDependency,
			"customer "+address.CustomerID.String()+" has no remote identifier yet")
	}

	fields := map[string]any{
		"address1":     address.Address1,
		"address2":     address.Address2,
		"city":         address.City,
		"provinceCode": address.Province,
		"countryCode":  address.CountryCode,
		"zip":          address.Zip,
	}

	variables := map[string]any{
		"address":      fields,
		"setAsDefault": address.IsDefault,
	}

	mutation := addressCreateMutation
	key := "customerAddressCreate"
	if address.SyncState.HasRemote() {
		variables["addressId"] = address.SyncState.Remote()
		mutation = addressUpdateMutation
		key = "customerAddressUpdate"
	} else {
		variables["customerId"] = address.Customer.SyncState.Remote()
	}

	var resp map[string]addressPayload
	if err := p.client.Do(ctx, mutation, variables, &resp); err != nil {
		return transportFailure(err)
	}

	payload := resp[key]
	if len(payload.UserErrors) > 0 {
		return outbox.PushRejected(mapUserErrors(payload.UserErrors))
	}
	if payload.Address == nil {
		return transportFailure(ErrInvalidResponse)
	}
	return outbox.PushSucceeded(payload.Address.ID)
}
