package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dukapoint/cloudsales-api/internal/domain/entity"
	"github.com/dukapoint/cloudsales-api/internal/domain/enum"
	domainRepo "github.com/dukapoint/cloudsales-api/internal/domain/repository"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) GetByReference(ctx context.Context, reference string) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).First(&payment, "reference = ?", reference).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

// CompleteByReference is a single conditional UPDATE; the status guard makes it
// a compare-and-set, so racing callback and poll threads cannot both win.
func (r *paymentRepository) CompleteByReference(ctx context.Context, reference string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("reference = ? AND status = ?", reference, enum.PaymentStatusPending).
		Update("status", enum.PaymentStatusCompleted)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *paymentRepository) FailByReference(ctx context.Context, reference string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("reference = ? AND status = ?", reference, enum.PaymentStatusPending).
		Update("status", enum.PaymentStatusFailed)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *paymentRepository) SumCompletedBySale(ctx context.Context, saleID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Where("sale_id = ? AND status = ?", saleID, enum.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
