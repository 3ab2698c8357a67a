package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukapoint/cloudsales-api/internal/domain/entity"
	domainRepo "github.com/dukapoint/cloudsales-api/internal/domain/repository"
	"github.com/dukapoint/cloudsales-api/pkg/apperror"
)

// CustomerService handles customer operations
type CustomerService struct {
	customerRepo domainRepo.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo domainRepo.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput holds new customer attributes
type CreateCustomerInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// CreateCustomer registers a customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Customer name is required")
	}

	customer := &entity.Customer{
		Name:    input.Name,
		Phone:   input.Phone,
		Email:   input.Email,
		Address: input.Address,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by id
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers, optionally filtered by a search term
func (s *CustomerService) ListCustomers(ctx context.Context, search string) ([]entity.Customer, error) {
	return s.customerRepo.List(ctx, search)
}
