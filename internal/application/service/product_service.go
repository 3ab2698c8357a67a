package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukapoint/cloudsales-api/internal/domain/entity"
	domainRepo "github.com/dukapoint/cloudsales-api/internal/domain/repository"
	"github.com/dukapoint/cloudsales-api/pkg/apperror"
)

// ProductService handles product catalog operations
type ProductService struct {
	productRepo domainRepo.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo domainRepo.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput holds new product attributes with decimal prices
type CreateProductInput struct {
	Name         string
	SKU          string
	Barcode      string
	Description  string
	SellingPrice float64
	CostPrice    float64
	TaxRate      float64
}

// CreateProduct adds a product to the catalog
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Product name is required")
	}
	if input.SellingPrice < 0 || input.CostPrice < 0 {
		return nil, apperror.NewBadRequestError("Prices must be non-negative")
	}

	if input.SKU != "" {
		existing, err := s.productRepo.GetBySKU(ctx, input.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Product with this SKU already exists")
		}
	}

	product := &entity.Product{
		Name:         input.Name,
		SKU:          input.SKU,
		Barcode:      input.Barcode,
		Description:  input.Description,
		SellingPrice: toCents(input.SellingPrice),
		CostPrice:    toCents(input.CostPrice),
		TaxRate:      input.TaxRate,
		IsActive:     true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by id
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products, optionally filtered by a search term
func (s *ProductService) ListProducts(ctx context.Context, search string) ([]entity.Product, error) {
	return s.productRepo.List(ctx, search)
}
