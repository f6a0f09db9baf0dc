package shopify

import (
	"context"

	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/domain/store"
)

const customerCreateMutation = `
mutation customerCreate($input: CustomerInput!) {
  customerCreate(input: $input) {
    customer { id }
    userErrors { field message }
  }
}`

const customerUpdateMutation = `
mutation customerUpdate($input: CustomerInput!) {
  customerUpdate(input: $input) {
    customer { id }
    userErrors { field message }
  }
}`

type customerPayload struct {
	Customer *struct {
		ID string `json:"id"`
	} `json:"customer"`
	UserErrors []userError `json:"userErrors"`
}

// CustomerPusher mirrors customers to the remote store
type CustomerPusher struct {
	client *Client
}

// NewCustomerPusher creates a customer pusher
func NewCustomerPusher(client *Client) *CustomerPusher {
	return &CustomerPusher{client: client}
}

// RecordType implements outbox.Pusher
func (p *CustomerPusher) RecordType() outbox.RecordType {
	return outbox.RecordTypeCustomer
}

// Push issues one create-or-update mutation for the customer
func (p *CustomerPusher) Push(ctx context.Context, rec outbox.Record) outbox.PushResult {
	customer, ok := rec.(*store.Customer)
	if !ok {
		return wrongRecordType(outbox.RecordTypeCustomer, rec)
	}

	input := map[string]any{
		"email":     customer.Email,
		"firstName": customer.FirstName,
		"lastName":  customer.LastName,
		"note":      customer.Note,
		"tags":      customer.Tags,
	}
	if customer.Phone != "" {
		input["phone"] = customer.Phone
	}

	mutation := customerCreateMutation
	key := "customerCreate"
	if customer.SyncState.HasRemote() {
		input["id"] = customer.SyncState.Remote()
		mutation = customerUpdateMutation
		key = "customerUpdate"
	}

	var resp map[string]customerPayload
	if err := p.client.Do(ctx, mutation, map[string]any{"input": input}, &resp); err != nil {
		return transportFailure(err)
	}

	payload := resp[key]
	if len(payload.UserErrors) > 0 {
		return outbox.PushRejected(mapUserErrors(payload.UserErrors))
	}
	if payload.Customer == nil {
		return transportFailure(ErrInvalidResponse)
	}
	return outbox.PushSucceeded(payload.Customer.ID)
}
