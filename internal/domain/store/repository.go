package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/storelink/backend/internal/domain/shared"
)

// ProductRepository persists products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByHandle(ctx context.Context, handle string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerRepository persists customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, int64, error)
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AddressRepository persists customer addresses
type AddressRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CustomerAddress, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]CustomerAddress, error)
	Save(ctx context.Context, address *CustomerAddress) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// InventoryRepository persists inventory levels
type InventoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryLevel, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]InventoryLevel, error)
	Save(ctx context.Context, level *InventoryLevel) error
}

// SellingPlanRepository persists selling plans
type SellingPlanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SellingPlan, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]SellingPlan, int64, error)
	Save(ctx context.Context, plan *SellingPlan) error
}
