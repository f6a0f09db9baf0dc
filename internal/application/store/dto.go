package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storelink/backend/internal/domain/outbox"
	"github.com/storelink/backend/internal/domain/store"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Title       string           `json:"title" binding:"required,min=1,max=255"`
	Handle      string           `json:"handle" binding:"omitempty,max=255"`
	BodyHTML    string           `json:"body_html"`
	Vendor      string           `json:"vendor" binding:"max=255"`
	ProductType string           `json:"product_type" binding:"max=255"`
	Tags        []string         `json:"tags"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	SKU         string           `json:"sku" binding:"max=255"`
	Status      string           `json:"status" binding:"omitempty,oneof=active draft archived"`
}

// UpdateProductRequest represents a request to update a product.
// Nil fields are left untouched.
type UpdateProductRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=1,max=255"`
	BodyHTML    *string          `json:"body_html"`
	Vendor      *string          `json:"vendor" binding:"omitempty,max=255"`
	ProductType *string          `json:"product_type" binding:"omitempty,max=255"`
	Tags        []string         `json:"tags"`
	Price       *decimal.Decimal `json:"price"`
	SKU         *string          `json:"sku" binding:"omitempty,max=255"`
	Status      *string          `json:"status" binding:"omitempty,oneof=active draft archived"`
}

// SyncStateResponse exposes a record's propagation marker in API responses
type SyncStateResponse struct {
	Dirty        bool       `json:"dirty"`
	RemoteID     *string    `json:"remote_id"`
	LastSyncedAt *time.Time `json:"last_synced_at"`
	LastError    string     `json:"last_error,omitempty"`
	Attempts     int        `json:"attempts"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Handle    string            `json:"handle"`
	BodyHTML  string            `json:"body_html"`
	Vendor    string            `json:"vendor"`
	Type      string            `json:"product_type"`
	Tags      []string          `json:"tags"`
	Status    string            `json:"status"`
	Price     decimal.Decimal   `json:"price"`
	SKU       string            `json:"sku"`
	Sync      SyncStateResponse `json:"sync"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Version   int               `json:"version"`
}

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Email            string   `json:"email" binding:"required,email,max=255"`
	FirstName        string   `json:"first_name" binding:"max=255"`
	LastName         string   `json:"last_name" binding:"max=255"`
	Phone            string   `json:"phone" binding:"max=50"`
	Note             string   `json:"note"`
	Tags             []string `json:"tags"`
	AcceptsMarketing *bool    `json:"accepts_marketing"`
}

// UpdateCustomerRequest represents a request to update a customer.
// Nil fields are left untouched.
type UpdateCustomerRequest struct {
	FirstName        *string  `json:"first_name" binding:"omitempty,max=255"`
	LastName         *string  `json:"last_name" binding:"omitempty,max=255"`
	Phone            *string  `json:"phone" binding:"omitempty,max=50"`
	Note             *string  `json:"note"`
	Tags             []string `json:"tags"`
	AcceptsMarketing *bool    `json:"accepts_marketing"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID               uuid.UUID         `json:"id"`
	Email            string            `json:"email"`
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	Phone            string            `json:"phone"`
	Note             string            `json:"note"`
	Tags             []string          `json:"tags"`
	AcceptsMarketing bool              `json:"accepts_marketing"`
	Sync             SyncStateResponse `json:"sync"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	Version          int               `json:"version"`
}

func toSyncStateResponse(s outbox.SyncState) SyncStateResponse {
	return SyncStateResponse{
		Dirty:        s.Dirty,
		RemoteID:     s.RemoteID,
		LastSyncedAt: s.LastSyncedAt,
		LastError:    s.LastError,
		Attempts:     s.Attempts,
	}
}

// ToProductResponse converts a domain product to its API representation
func ToProductResponse(p *store.Product) *ProductResponse {
	return &ProductResponse{
		ID:        p.ID,
		Title:     p.Title,
		Handle:    p.Handle,
		BodyHTML:  p.BodyHTML,
		Vendor:    p.Vendor,
		Type:      p.ProductType,
		Tags:      p.Tags,
		Status:    string(p.Status),
		Price:     p.Price,
		SKU:       p.SKU,
		Sync:      toSyncStateResponse(p.SyncState),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Version:   p.Version,
	}
}

// ToCustomerResponse converts a domain customer to its API representation
func ToCustomerResponse(c *store.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:               c.ID,
		Email:            c.Email,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		Phone:            c.Phone,
		Note:             c.Note,
		Tags:             c.Tags,
		AcceptsMarketing: c.AcceptsMarketing,
		Sync:             toSyncStateResponse(c.SyncState),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		Version:          c.Version,
	}
}
