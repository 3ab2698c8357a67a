package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukapoint/cloudsales-api/internal/domain/entity"
	"github.com/dukapoint/cloudsales-api/internal/domain/enum"
	domainRepo "github.com/dukapoint/cloudsales-api/internal/domain/repository"
	"github.com/dukapoint/cloudsales-api/pkg/apperror"
)

// totalToleranceCents absorbs float rounding between caller-computed totals
// and the recomputed subtotal + tax - discount.
const totalToleranceCents = 1

// FiscalDispatcher triggers the fiscal compliance pipeline for a sale that has
// reached a payable state. Its outcome never vetoes the committed sale.
type FiscalDispatcher interface {
	ProcessSale(ctx context.Context, saleID uuid.UUID) (*FiscalResult, error)
}

// CheckoutService is the entry point for checkout: it validates the request and
// commits the sale, its items, the inventory decrements and any synchronous
// payment as one atomic unit.
type CheckoutService struct {
	saleRepo     domainRepo.SaleRepository
	productRepo  domainRepo.ProductRepository
	customerRepo domainRepo.CustomerRepository
	fiscal       FiscalDispatcher
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	saleRepo domainRepo.SaleRepository,
	productRepo domainRepo.ProductRepository,
	customerRepo domainRepo.CustomerRepository,
	fiscal FiscalDispatcher,
) *CheckoutService {
	return &CheckoutService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		fiscal:       fiscal,
	}
}

// CheckoutItemInput is one cart line with caller-computed amounts
type CheckoutItemInput struct {
	ProductID      uuid.UUID
	Quantity       int
	UnitPrice      float64
	TaxRate        float64
	DiscountAmount float64
	TotalPrice     float64
}

// CheckoutInput is the checkout request with caller-computed totals
type CheckoutInput struct {
	CashierID      uuid.UUID
	StoreID        uuid.UUID
	CustomerID     *uuid.UUID
	PaymentMethod  enum.PaymentMethod
	Items          []CheckoutItemInput
	Subtotal       float64
	TaxAmount      float64
	DiscountAmount float64
	TotalAmount    float64
}

// CheckoutResult reports the committed sale. PaymentSuccess is false for mobile
// money, whose settlement completes asynchronously via reconciliation.
type CheckoutResult struct {
	SaleID         uuid.UUID `json:"sale_id"`
	Reference      string    `json:"reference"`
	PaymentSuccess bool      `json:"payment_success"`
}

// Checkout commits a sale. All persistence happens in a single transaction:
// any failure rolls back the sale, items, payment and inventory changes.
func (s *CheckoutService) Checkout(ctx context.Context, input *CheckoutInput) (*CheckoutResult, error) {
	if err := validateCheckout(input); err != nil {
		return nil, err
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	items := make([]entity.SaleItem, 0, len(input.Items))
	for _, item := range input.Items {
		if _, exists := productMap[item.ProductID]; !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		items = append(items, entity.SaleItem{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      toCents(item.UnitPrice),
			TaxRate:        item.TaxRate,
			DiscountAmount: toCents(item.DiscountAmount),
			TotalPrice:     toCents(item.TotalPrice),
		})
	}

	sale := &entity.Sale{
		Reference:      newSaleReference(),
		SaleDate:       time.Now(),
		Subtotal:       toCents(input.Subtotal),
		TaxAmount:      toCents(input.TaxAmount),
		DiscountAmount: toCents(input.DiscountAmount),
		TotalAmount:    toCents(input.TotalAmount),
		Status:         enum.SaleStatusCompleted,
		CashierID:      input.CashierID,
		CustomerID:     input.CustomerID,
		StoreID:        input.StoreID,
	}

	var payment *entity.Payment
	if input.PaymentMethod.IsSynchronous() {
		payment = &entity.Payment{
			Amount: sale.TotalAmount,
			Method: input.PaymentMethod,
			Status: enum.PaymentStatusCompleted,
		}
	}

	if err := s.saleRepo.CreateWithItems(ctx, sale, items, payment); err != nil {
		return nil, err
	}

	// Cash and card sales are payable immediately; fiscal trouble is logged,
	// never surfaced, because the sale has already committed.
	if input.PaymentMethod.IsSynchronous() {
		if _, err := s.fiscal.ProcessSale(ctx, sale.ID); err != nil {
			log.Printf("fiscal pipeline for sale %s: %v", sale.Reference, err)
		}
	}

	return &CheckoutResult{
		SaleID:         sale.ID,
		Reference:      sale.Reference,
		PaymentSuccess: input.PaymentMethod.IsSynchronous(),
	}, nil
}

// GetSale retrieves a sale with items and payments
func (s *CheckoutService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists recent sales for a store
func (s *CheckoutService) ListSales(ctx context.Context, storeID uuid.UUID, limit int) ([]entity.Sale, error) {
	return s.saleRepo.ListByStore(ctx, storeID, limit)
}

func validateCheckout(input *CheckoutInput) error {
	if len(input.Items) == 0 {
		return apperror.NewInvalidSaleError("No items in cart")
	}
	if !input.PaymentMethod.Valid() {
		return apperror.NewInvalidSaleError("Unsupported payment method")
	}
	if input.Subtotal < 0 || input.TaxAmount < 0 || input.DiscountAmount < 0 || input.TotalAmount < 0 {
		return apperror.NewInvalidSaleError("Amounts must be non-negative")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return apperror.NewInvalidSaleError("Item quantity must be positive")
		}
		if item.UnitPrice < 0 || item.DiscountAmount < 0 {
			return apperror.NewInvalidSaleError("Item amounts must be non-negative")
		}
	}

	expected := toCents(input.Subtotal) + toCents(input.TaxAmount) - toCents(input.DiscountAmount)
	diff := expected - toCents(input.TotalAmount)
	if diff < -totalToleranceCents || diff > totalToleranceCents {
		return apperror.NewInvalidSaleError("Total does not match subtotal + tax - discount")
	}
	return nil
}

func newSaleReference() string {
	return "SALE-" + strings.ToUpper(uuid.New().String()[:8])
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
