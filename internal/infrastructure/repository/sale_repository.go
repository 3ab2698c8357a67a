package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dukapoint/cloudsales-api/internal/domain/entity"
	"github.com/dukapoint/cloudsales-api/internal/domain/enum"
	domainRepo "github.com/dukapoint/cloudsales-api/internal/domain/repository"
	"github.com/dukapoint/cloudsales-api/pkg/apperror"
)

type saleRepository struct {
	db            *gorm.DB
	allowNegative bool
}

// NewSaleRepository creates a new sale repository. allowNegative controls
// whether inventory decrements may drive quantity below zero.
func NewSaleRepository(db *gorm.DB, allowNegative bool) domainRepo.SaleRepository {
	return &saleRepository{db: db, allowNegative: allowNegative}
}

// CreateWithItems commits the sale, items, inventory decrements and optional
// payment as one transaction. Decrements use a relative UPDATE so concurrent
// checkouts for the same (product, store) row serialize on row-level locking
// rather than read-then-write.
func (r *saleRepository) CreateWithItems(ctx context.Context, sale *entity.Sale, items []entity.SaleItem, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sale).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].SaleID = sale.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		for _, item := range items {
			if err := r.decrementInventory(tx, sale, &item); err != nil {
				return err
			}
		}

		if payment != nil {
			payment.SaleID = sale.ID
			if err := tx.Create(payment).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *saleRepository) decrementInventory(tx *gorm.DB, sale *entity.Sale, item *entity.SaleItem) error {
	query := tx.Model(&entity.Inventory{}).
		Where("product_id = ? AND store_id = ?", item.ProductID, sale.StoreID)
	if !r.allowNegative {
		query = query.Where("quantity >= ?", item.Quantity)
	}

	result := query.Update("quantity", gorm.Expr("quantity - ?", item.Quantity))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&entity.Inventory{}).
			Where("product_id = ? AND store_id = ?", item.ProductID, sale.StoreID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperror.NewInventoryNotFoundError(
				fmt.Sprintf("Inventory for product %s", item.ProductID))
		}
		return apperror.NewInsufficientStockError(
			fmt.Sprintf("Insufficient stock for product %s", item.ProductID))
	}

	if r.allowNegative {
		var inv entity.Inventory
		err := tx.Where("product_id = ? AND store_id = ?", item.ProductID, sale.StoreID).
			First(&inv).Error
		if err == nil && inv.Quantity < 0 {
			log.Printf("inventory underflow: product %s store %s now at %d after sale %s",
				item.ProductID, sale.StoreID, inv.Quantity, sale.Reference)
		}
	}

	return nil
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetByReference(ctx context.Context, reference string) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).First(&sale, "reference = ?", reference).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items.Product").
		Preload("Payments").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) UpdateEtimsStatus(ctx context.Context, id uuid.UUID, status enum.FiscalStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("id = ?", id).
		Update("etims_status", status).Error
}

func (r *saleRepository) ListByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]entity.Sale, error) {
	if limit <= 0 {
		limit = 50
	}
	var sales []entity.Sale
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Preload("Payments").
		Order("sale_date DESC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}
