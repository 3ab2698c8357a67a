package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukapoint/cloudsales-api/internal/domain/entity"
	domainRepo "github.com/dukapoint/cloudsales-api/internal/domain/repository"
	"github.com/dukapoint/cloudsales-api/pkg/apperror"
)

// InventoryService handles the read side of inventory plus restocking.
// Checkout decrements are part of the sale transaction and never go through
// this service.
type InventoryService struct {
	inventoryRepo domainRepo.InventoryRepository
	productRepo   domainRepo.ProductRepository
}

// NewInventoryService creates a new inventory service
func NewInventoryService(inventoryRepo domainRepo.InventoryRepository, productRepo domainRepo.ProductRepository) *InventoryService {
	return &InventoryService{inventoryRepo: inventoryRepo, productRepo: productRepo}
}

// GetStock returns the inventory record for a product in a store
func (s *InventoryService) GetStock(ctx context.Context, productID, storeID uuid.UUID) (*entity.Inventory, error) {
	inv, err := s.inventoryRepo.GetByProductAndStore(ctx, productID, storeID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperror.NewInventoryNotFoundError("No inventory record for product in this store")
	}
	return inv, nil
}

// ListStock lists all inventory for a store
func (s *InventoryService) ListStock(ctx context.Context, storeID uuid.UUID) ([]entity.Inventory, error) {
	return s.inventoryRepo.ListByStore(ctx, storeID)
}

// ListLowStock lists inventory at or below its reorder level
func (s *InventoryService) ListLowStock(ctx context.Context, storeID uuid.UUID) ([]entity.Inventory, error) {
	return s.inventoryRepo.ListLowStock(ctx, storeID)
}

// Restock adds stock for a product, creating the inventory record if needed
func (s *InventoryService) Restock(ctx context.Context, productID, storeID uuid.UUID, quantity int) (*entity.Inventory, error) {
	if quantity <= 0 {
		return nil, apperror.NewBadRequestError("Restock quantity must be positive")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if err := s.inventoryRepo.Restock(ctx, productID, storeID, quantity); err != nil {
		return nil, err
	}
	return s.inventoryRepo.GetByProductAndStore(ctx, productID, storeID)
}
