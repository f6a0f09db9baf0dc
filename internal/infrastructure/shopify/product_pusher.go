package shopify

import (
	"context"

	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/domain/store"
)

const productCreateMutation = `
mutation productCreate($input: ProductInput!) {
  productCreate(input: $input) {
    product {
      id
      variants(first: 1) {
        nodes {
          inventoryItem { id }
        }
      }
    }
    userErrors { field message }
  }
}`

const productUpdateMutation = `
mutation productUpdate($input: ProductInput!) {
  productUpdate(input: $input) {
    product { id }
    userErrors { field message }
  }
}`

type productPayload struct {
	Product *struct {
		ID       string `json:"id"`
		Variants struct {
			Nodes []struct {
				InventoryItem struct {
					ID string `json:"id"`
				} `json:"inventoryItem"`
			} `json:"nodes"`
		} `json:"variants"`
	} `json:"product"`
	UserErrors []userError `json:"userErrors"`
}

// ProductPusher mirrors products to the remote store
type ProductPusher struct {
	client *Client
}

// NewProductPusher creates a product pusher
func NewProductPusher(client *Client) *ProductPusher {
	return &ProductPusher{client: client}
}

// RecordType implements outbox.Pusher
func (p *ProductPusher) RecordType() outbox.RecordType {
	return outbox.RecordTypeProduct
}

// Push issues one create-or-update mutation for the product
func (p *ProductPusher) Push(ctx context.Context, rec outbox.Record) outbox.PushResult {
	product, ok := rec.(*store.Product)
	if !ok {
		return wrongRecordType(outbox.RecordTypeProduct, rec)
	}

	input := map[string]any{
		"title":           product.Title,
		"handle":          product.Handle,
		"descriptionHtml": product.BodyHTML,
		"vendor":          product.Vendor,
		"productType":     product.ProductType,
		"tags":            product.Tags,
		"status":          productStatusEnum(product.Status),
		"variants": []map[string]any{
			{
				"price":               product.Price.StringFixed(2),
				"sku":                 product.SKU,
				"inventoryManagement": variantInventoryManagement(product.TracksInventory),
			},
		},
	}

	var resp map[string]productPayload
	if product.SyncState.HasRemote() {
		input["id"] = product.SyncState.Remote()
		if err := p.client.Do(ctx, productUpdateMutation, map[string]any{"input": input}, &resp); err != nil {
			return transportFailure(err)
		}
		return finishProductPush(product, resp["productUpdate"])
	}

	if err := p.client.Do(ctx, productCreateMutation, map[string]any{"input": input}, &resp); err != nil {
		return transportFailure(err)
	}
	return finishProductPush(product, resp["productCreate"])
}

func finishProductPush(product *store.Product, payload productPayload) outbox.PushResult {
	if len(payload.UserErrors) > 0 {
		return outbox.PushRejected(mapUserErrors(payload.UserErrors))
	}
	if payload.Product == nil {
		return transportFailure(ErrInvalidResponse)
	}
	if nodes := payload.Product.Variants.Nodes; len(nodes) > 0 && product.InventoryItemRemoteID == "" {
		product.InventoryItemRemoteID = nodes[0].InventoryItem.ID
	}
	return outbox.PushSucceeded(payload.Product.ID)
}

func variantInventoryManagement(tracked bool) string {
	if tracked {
		return "SHOPIFY"
	}
	return "NOT_MANAGED"
}

func productStatusEnum(s store.ProductStatus) string {
	switch s {
	case store.ProductStatusActive:
		return "ACTIVE"
	case store.ProductStatusArchived:
		return "ARCHIVED"
	default:
		return "DRAFT"
	}
}
