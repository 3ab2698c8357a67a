package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukapoint/cloudsales-api/internal/domain/entity"
	"github.com/dukapoint/cloudsales-api/internal/domain/enum"
)

// SaleRepository defines sale data access operations
type SaleRepository interface {
	// CreateWithItems persists the sale, its line items, the matching inventory
	// decrements and an optional already-completed payment as a single atomic
	// transaction. Any failure rolls the whole unit back, inventory included.
	CreateWithItems(ctx context.Context, sale *entity.Sale, items []entity.SaleItem, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetByReference(ctx context.Context, reference string) (*entity.Sale, error)
	// GetWithDetails loads the sale with items, products and payments.
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// UpdateEtimsStatus records the fiscal pipeline outcome. Runs as its own
	// transaction, strictly after the sale has committed.
	UpdateEtimsStatus(ctx context.Context, id uuid.UUID, status enum.FiscalStatus) error
	ListByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]entity.Sale, error)
}
