package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/storelink/backend/internal/domain/shared"
	"github.com/storelink/backend/internal/domain/shared/valueobject"
	"github.com/storelink/backend/internal/domain/store"
)

// CustomerService handles customer operations
type CustomerService struct {
	customerRepo store.CustomerRepository
	phoneRegion  valueobject.Region
}

// NewCustomerService creates a new CustomerService. The region is used
// to normalize national phone numbers before they reach the remote API.
func NewCustomerService(customerRepo store.CustomerRepository, phoneRegion valueobject.Region) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		phoneRegion:  phoneRegion,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	existing, err := s.customerRepo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
	}

	customer, err := store.NewCustomer(req.Email, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}

	if req.Phone != "" {
		if err := customer.SetPhone(req.Phone, s.phoneRegion); err != nil {
			return nil, err
		}
	}
	if req.Note != "" {
		customer.SetNote(req.Note)
	}
	if len(req.Tags) > 0 {
		customer.SetTags(req.Tags)
	}
	if req.AcceptsMarketing != nil {
		customer.SetMarketingOptIn(*req.AcceptsMarketing)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// Update applies a partial update to a customer
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil || req.LastName != nil {
		firstName := customer.FirstName
		if req.FirstName != nil {
			firstName = *req.FirstName
		}
		lastName := customer.LastName
		if req.LastName != nil {
			lastName = *req.LastName
		}
		customer.UpdateName(firstName, lastName)
	}
	if req.Phone != nil {
		if err := customer.SetPhone(*req.Phone, s.phoneRegion); err != nil {
			return nil, err
		}
	}
	if req.Note != nil {
		customer.SetNote(*req.Note)
	}
	if req.Tags != nil {
		customer.SetTags(req.Tags)
	}
	if req.AcceptsMarketing != nil {
		customer.SetMarketingOptIn(*req.AcceptsMarketing)
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// Get returns a customer by ID
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponse(customer), nil
}

// List returns a paginated customer listing
func (s *CustomerService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[CustomerResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	customers, total, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]CustomerResponse, len(customers))
	for i := range customers {
		items[i] = *ToCustomerResponse(&customers[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}
