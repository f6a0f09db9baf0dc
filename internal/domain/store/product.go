package store

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/domain/shared"
)

// ProductStatus represents the listing status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusArchived ProductStatus = "archived"
)

// IsValid returns true if the status is valid
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusDraft, ProductStatusArchived:
		return true
	default:
		return false
	}
}

// Product is a locally owned catalog product that is mirrored to the
// remote store. Any business-field mutation marks it dirty.
type Product struct {
	shared.BaseAggregateRoot
	SyncState outbox.SyncState

	Title           string
	Handle          string
	BodyHTML        string
	Vendor          string
	ProductType     string
	Tags            []string
	Status          ProductStatus
	Price           decimal.Decimal
	SKU             string
	TracksInventory bool

	// InventoryItemRemoteID is the remote identifier of the inventory
	// item backing this product's variant. Assigned on remote create and
	// required before inventory levels can be pushed.
	InventoryItemRemoteID string
}

// NewProduct creates a product; it starts dirty so the next sync pass
// creates it remotely.
func NewProduct(title, handle string, price decimal.Decimal) (*Product, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if handle == "" {
		handle = slugify(title)
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Handle:            handle,
		Status:            ProductStatusDraft,
		Price:             price,
		TracksInventory:   true,
	}
	p.SyncState.MarkDirty()
	return p, nil
}

// Rename changes the product title
func (p *Product) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	p.Title = title
	p.SyncState.MarkDirty()
	return nil
}

// UpdateDetails updates the descriptive fields
func (p *Product) UpdateDetails(bodyHTML, vendor, productType string, tags []string) {
	p.BodyHTML = bodyHTML
	p.Vendor = vendor
	p.ProductType = productType
	p.Tags = tags
	p.SyncState.MarkDirty()
}

// ChangePrice updates the selling price
func (p *Product) ChangePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	p.Price = price
	p.SyncState.MarkDirty()
	return nil
}

// SetSKU updates the stock keeping unit
func (p *Product) SetSKU(sku string) {
	p.SKU = strings.TrimSpace(sku)
	p.SyncState.MarkDirty()
}

// SetStatus changes the listing status
func (p *Product) SetStatus(status ProductStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown product status")
	}
	p.Status = status
	p.SyncState.MarkDirty()
	return nil
}

// RecordID implements outbox.Record
func (p *Product) RecordID() uuid.UUID { return p.ID }

// RecordType implements outbox.Record
func (p *Product) RecordType() outbox.RecordType { return outbox.RecordTypeProduct }

// Sync implements outbox.Record
func (p *Product) Sync() *outbox.SyncState { return &p.SyncState }

// slugify derives a URL handle from a title
func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
