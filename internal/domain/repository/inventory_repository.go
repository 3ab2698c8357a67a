package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukapoint/cloudsales-api/internal/domain/entity"
)

// InventoryRepository defines inventory data access operations. Checkout
// decrements happen inside SaleRepository.CreateWithItems; this interface covers
// the read side and restocking.
type InventoryRepository interface {
	GetByProductAndStore(ctx context.Context, productID, storeID uuid.UUID) (*entity.Inventory, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]entity.Inventory, error)
	ListLowStock(ctx context.Context, storeID uuid.UUID) ([]entity.Inventory, error)
	// Restock atomically increments quantity and stamps the restock date.
	Restock(ctx context.Context, productID, storeID uuid.UUID, quantity int) error
}
