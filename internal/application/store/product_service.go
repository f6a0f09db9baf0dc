package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/storelink/backend/internal/domain/shared"
	"github.com/storelink/backend/internal/domain/store"
)

// ProductService handles product catalog operations. Every mutation goes
// through a domain method that marks the record dirty, so the next sync
// pass picks it up without any extra bookkeeping here.
type ProductService struct {
	productRepo store.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo store.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if req.Handle != "" {
		existing, err := s.productRepo.FindByHandle(ctx, req.Handle)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this handle already exists")
		}
	}

	product, err := store.NewProduct(req.Title, req.Handle, *req.Price)
	if err != nil {
		return nil, err
	}

	if req.BodyHTML != "" || req.Vendor != "" || req.ProductType != "" || len(req.Tags) > 0 {
		product.UpdateDetails(req.BodyHTML, req.Vendor, req.ProductType, req.Tags)
	}
	if req.SKU != "" {
		product.SetSKU(req.SKU)
	}
	if req.Status != "" {
		if err := product.SetStatus(store.ProductStatus(req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := product.Rename(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.BodyHTML != nil || req.Vendor != nil || req.ProductType != nil || req.Tags != nil {
		bodyHTML := product.BodyHTML
		if req.BodyHTML != nil {
			bodyHTML = *req.BodyHTML
		}
		vendor := product.Vendor
		if req.Vendor != nil {
			vendor = *req.Vendor
		}
		productType := product.ProductType
		if req.ProductType != nil {
			productType = *req.ProductType
		}
		tags := product.Tags
		if req.Tags != nil {
			tags = req.Tags
		}
		product.UpdateDetails(bodyHTML, vendor, productType, tags)
	}
	if req.Price != nil {
		if err := product.ChangePrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.SKU != nil {
		product.SetSKU(*req.SKU)
	}
	if req.Status != nil {
		if err := product.SetStatus(store.ProductStatus(*req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List returns a paginated product listing
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = *ToProductResponse(&products[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Delete removes a product locally. Remote deletion is out of scope for
// the propagation pass, which only creates and updates.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}
