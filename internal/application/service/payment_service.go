package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/dukapoint/cloudsales-api/internal/domain/entity"
	"github.com/dukapoint/cloudsales-api/internal/domain/enum"
	domainRepo "github.com/dukapoint/cloudsales-api/internal/domain/repository"
	"github.com/dukapoint/cloudsales-api/internal/infrastructure/mpesa"
	"github.com/dukapoint/cloudsales-api/pkg/apperror"
)

// PaymentGateway is the outbound provider surface: initiation and status
// queries. Payment state never lives behind this interface.
type PaymentGateway interface {
	STKPush(ctx context.Context, phone string, amount int64, reference string) (*mpesa.STKPushResponse, error)
	QueryStatus(ctx context.Context, checkoutRequestID string) (*mpesa.StatusResponse, error)
}

// PaymentService owns the mobile money payment lifecycle: initiation, callback
// reconciliation and status polling. Completed and failed are terminal; the
// transition out of pending happens exactly once regardless of how many
// callbacks or polls race for it.
type PaymentService struct {
	paymentRepo domainRepo.PaymentRepository
	saleRepo    domainRepo.SaleRepository
	gateway     PaymentGateway
	fiscal      FiscalDispatcher
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo domainRepo.PaymentRepository,
	saleRepo domainRepo.SaleRepository,
	gateway PaymentGateway,
	fiscal FiscalDispatcher,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		saleRepo:    saleRepo,
		gateway:     gateway,
		fiscal:      fiscal,
	}
}

// InitiatePaymentInput asks the provider to push a payment prompt to the phone
type InitiatePaymentInput struct {
	SaleID uuid.UUID
	Phone  string
	Amount float64
}

// InitiatePaymentResult echoes the provider acknowledgement. The
// CheckoutRequestID is the correlation key for callbacks and polls.
type InitiatePaymentResult struct {
	CheckoutRequestID   string `json:"checkout_request_id"`
	ResponseCode        string `json:"response_code"`
	ResponseDescription string `json:"response_description"`
	CustomerMessage     string `json:"customer_message"`
}

// InitiateMobilePayment pushes a payment prompt and records a pending payment
// keyed by the provider's CheckoutRequestID. No payment row is written unless
// the provider accepts the push, so a failed initiation is safely retryable.
func (s *PaymentService) InitiateMobilePayment(ctx context.Context, input *InitiatePaymentInput) (*InitiatePaymentResult, error) {
	if input.Phone == "" {
		return nil, apperror.NewBadRequestError("Phone number is required")
	}
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Amount must be positive")
	}

	sale, err := s.saleRepo.GetByID(ctx, input.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	// The provider takes whole shillings: fractional cents are truncated from
	// the push, while the payment row keeps the full amount in cents.
	push, err := s.gateway.STKPush(ctx, input.Phone, int64(input.Amount), sale.Reference)
	if err != nil {
		return nil, apperror.NewGatewayError("M-Pesa request failed: " + err.Error())
	}
	if !push.Accepted() {
		return nil, apperror.NewBadRequestError("M-Pesa error: " + push.ResponseDescription)
	}

	payment := &entity.Payment{
		SaleID:    sale.ID,
		Amount:    toCents(input.Amount),
		Method:    enum.PaymentMethodMobileMoney,
		Reference: push.CheckoutRequestID,
		Status:    enum.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return &InitiatePaymentResult{
		CheckoutRequestID:   push.CheckoutRequestID,
		ResponseCode:        push.ResponseCode,
		ResponseDescription: push.ResponseDescription,
		CustomerMessage:     push.CustomerMessage,
	}, nil
}

// CallbackResult reports how a provider callback was applied
type CallbackResult struct {
	Found        bool
	Status       enum.PaymentStatus
	Transitioned bool
}

// HandleCallback applies a provider settlement callback. Callbacks are
// idempotent: an unknown reference or an already-terminal payment is a no-op.
// The winner of the pending-to-completed transition fires the fiscal pipeline.
func (s *PaymentService) HandleCallback(ctx context.Context, checkoutRequestID string, resultCode int, resultDesc string) (*CallbackResult, error) {
	if checkoutRequestID == "" {
		return nil, apperror.NewBadRequestError("Missing CheckoutRequestID")
	}

	payment, err := s.paymentRepo.GetByReference(ctx, checkoutRequestID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return &CallbackResult{Found: false}, nil
	}

	if resultCode == 0 {
		won, err := s.paymentRepo.CompleteByReference(ctx, checkoutRequestID)
		if err != nil {
			return nil, err
		}
		if won {
			s.dispatchFiscal(ctx, payment.SaleID, checkoutRequestID)
			return &CallbackResult{Found: true, Status: enum.PaymentStatusCompleted, Transitioned: true}, nil
		}
		return &CallbackResult{Found: true, Status: payment.Status}, nil
	}

	log.Printf("payment %s failed at provider: %s (code %d)", checkoutRequestID, resultDesc, resultCode)
	won, err := s.paymentRepo.FailByReference(ctx, checkoutRequestID)
	if err != nil {
		return nil, err
	}
	if won {
		return &CallbackResult{Found: true, Status: enum.PaymentStatusFailed, Transitioned: true}, nil
	}
	return &CallbackResult{Found: true, Status: payment.Status}, nil
}

// PaymentStatusResult answers a status poll
type PaymentStatusResult struct {
	Status     enum.PaymentStatus `json:"status"`
	IsComplete bool               `json:"is_complete"`
}

// CheckStatus answers a poll for a payment. Terminal payments are answered
// locally. For pending payments the gateway is queried: a confirmed settlement
// transitions the payment, anything else leaves it pending. Polls never mark a
// payment failed; only callbacks carry a definitive failure.
func (s *PaymentService) CheckStatus(ctx context.Context, checkoutRequestID string) (*PaymentStatusResult, error) {
	payment, err := s.paymentRepo.GetByReference(ctx, checkoutRequestID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}

	if payment.Status.IsTerminal() {
		return &PaymentStatusResult{
			Status:     payment.Status,
			IsComplete: payment.Status == enum.PaymentStatusCompleted,
		}, nil
	}

	status, err := s.gateway.QueryStatus(ctx, checkoutRequestID)
	if err != nil {
		// Transient gateway trouble leaves the payment pending.
		log.Printf("status query for %s: %v", checkoutRequestID, err)
		return &PaymentStatusResult{Status: enum.PaymentStatusPending}, nil
	}

	if status.Succeeded() {
		won, err := s.paymentRepo.CompleteByReference(ctx, checkoutRequestID)
		if err != nil {
			return nil, err
		}
		if won {
			s.dispatchFiscal(ctx, payment.SaleID, checkoutRequestID)
		}
		return &PaymentStatusResult{Status: enum.PaymentStatusCompleted, IsComplete: true}, nil
	}

	return &PaymentStatusResult{Status: enum.PaymentStatusPending}, nil
}

func (s *PaymentService) dispatchFiscal(ctx context.Context, saleID uuid.UUID, reference string) {
	if _, err := s.fiscal.ProcessSale(ctx, saleID); err != nil {
		log.Printf("fiscal pipeline for payment %s: %v", reference, err)
	}
}
