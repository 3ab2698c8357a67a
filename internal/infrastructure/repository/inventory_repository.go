package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dukapoint/cloudsales-api/internal/domain/entity"
	domainRepo "github.com/dukapoint/cloudsales-api/internal/domain/repository"
)

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB) domainRepo.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetByProductAndStore(ctx context.Context, productID, storeID uuid.UUID) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := r.db.WithContext(ctx).
		Preload("Product").
		First(&inv, "product_id = ? AND store_id = ?", productID, storeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &inv, err
}

func (r *inventoryRepository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]entity.Inventory, error) {
	var items []entity.Inventory
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Preload("Product").
		Find(&items).Error
	return items, err
}

func (r *inventoryRepository) ListLowStock(ctx context.Context, storeID uuid.UUID) ([]entity.Inventory, error) {
	var items []entity.Inventory
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND quantity <= reorder_level", storeID).
		Preload("Product").
		Find(&items).Error
	return items, err
}

func (r *inventoryRepository) Restock(ctx context.Context, productID, storeID uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).Model(&entity.Inventory{}).
		Where("product_id = ? AND store_id = ?", productID, storeID).
		Updates(map[string]interface{}{
			"quantity":          gorm.Expr("quantity + ?", quantity),
			"last_restock_date": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		inv := &entity.Inventory{
			ProductID:       productID,
			StoreID:         storeID,
			Quantity:        quantity,
			LastRestockDate: ptrTime(time.Now()),
		}
		return r.db.WithContext(ctx).Create(inv).Error
	}
	return nil
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
