package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukapoint/cloudsales-api/internal/domain/entity"
)

// PaymentRepository defines payment data access operations.
// The compare-and-set transitions are the atomic primitive behind payment
// reconciliation: callback and poll race for them and only one can win.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByReference(ctx context.Context, reference string) (*entity.Payment, error)
	// CompleteByReference transitions pending -> completed. Returns true only for
	// the caller whose update was applied; a payment already terminal loses.
	CompleteByReference(ctx context.Context, reference string) (bool, error)
	// FailByReference transitions pending -> failed under the same rules.
	FailByReference(ctx context.Context, reference string) (bool, error)
	SumCompletedBySale(ctx context.Context, saleID uuid.UUID) (int64, error)
}
