package shopify

import (
	"context"

	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/domain/store"
)

const inventorySetMutation = `
mutation inventorySetOnHandQuantities($input: InventorySetOnHandQuantitiesInput!) {
  inventorySetOnHandQuantities(input: $input) {
    inventoryAdjustmentGroup { id }
    userErrors { field message }
  }
}`

type inventoryPayload struct {
	InventoryAdjustmentGroup *struct {
		ID string `json:"id"`
	} `json:"inventoryAdjustmentGroup"`
	UserErrors []userError `json:"userErrors"`
}

// InventoryPusher mirrors on-hand quantities to the remote store. A
// level is only pushable after its parent product exists remotely with
// a known inventory item.
type InventoryPusher struct {
	client *Client
}

// NewInventoryPusher creates an inventory pusher
func NewInventoryPusher(client *Client) *InventoryPusher {
	return &InventoryPusher{client: client}
}

// RecordType implements outbox.Pusher
func (p *InventoryPusher) RecordType() outbox.RecordType {
	return outbox.RecordTypeInventory
}

// Push sets the absolute on-hand quantity at the level's location. The
// same mutation serves both the first and subsequent pushes; the remote
// identifier recorded on success is the backing inventory item.
func (p *InventoryPusher) Push(ctx context.Context, rec outbox.Record) outbox.PushResult {
	level, ok := rec.(*store.InventoryLevel)
	if !ok {
		return wrongRecordType(outbox.RecordTypeInventory, rec)
	}
	if level.Product == nil || !level.Product.SyncState.HasRemote() || level.Product.InventoryItemRemoteID == "" {
		return outbox.PushFailed(outbox.FailureKindDependency,
			"product "+level.ProductID.String()+" has no remote inventory item yet")
	}

	input := map[string]any{
		"reason": "correction",
		"setQuantities": []map[string]any{
			{
				"inventoryItemId": level.Product.InventoryItemRemoteID,
				"locationId":      level.LocationRemoteID,
				"quantity":        level.Available.IntPart(),
			},
		},
	}

	var resp map[string]inventoryPayload
	if err := p.client.Do(ctx, inventorySetMutation, map[string]any{"input": input}, &resp); err != nil {
		return transportFailure(err)
	}

	payload := resp["inventorySetOnHandQuantities"]
	if len(payload.UserErrors) > 0 {
		return outbox.PushRejected(mapUserErrors(payload.UserErrors))
	}
	if payload.InventoryAdjustmentGroup == nil {
		return transportFailure(ErrInvalidResponse)
	}
	return outbox.PushSucceeded(level.Product.InventoryItemRemoteID)
}
