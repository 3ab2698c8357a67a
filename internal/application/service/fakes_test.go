package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dukapoint/cloudsales-api/internal/domain/entity"
	"github.com/dukapoint/cloudsales-api/internal/domain/enum"
	"github.com/dukapoint/cloudsales-api/internal/infrastructure/etims"
	"github.com/dukapoint/cloudsales-api/internal/infrastructure/mpesa"
	"github.com/dukapoint/cloudsales-api/pkg/apperror"
)

// fakeSaleRepo is an in-memory SaleRepository. Stock is tracked per product so
// tests can assert the decrements that commit with the sale.
type fakeSaleRepo struct {
	mu            sync.Mutex
	sales         map[uuid.UUID]*entity.Sale
	stock         map[uuid.UUID]int
	allowNegative bool
	createErr     error
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{
		sales:         make(map[uuid.UUID]*entity.Sale),
		stock:         make(map[uuid.UUID]int),
		allowNegative: true,
	}
}

func (r *fakeSaleRepo) setStock(productID uuid.UUID, quantity int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stock[productID] = quantity
}

func (r *fakeSaleRepo) stockOf(productID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stock[productID]
}

func (r *fakeSaleRepo) CreateWithItems(ctx context.Context, sale *entity.Sale, items []entity.SaleItem, payment *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}

	// All decrements are checked before anything is applied, mirroring the
	// all-or-nothing transaction: a failing item leaves no partial state.
	for _, item := range items {
		qty, ok := r.stock[item.ProductID]
		if !ok {
			return apperror.NewInventoryNotFoundError(
				fmt.Sprintf("Inventory for product %s", item.ProductID))
		}
		if !r.allowNegative && qty < item.Quantity {
			return apperror.NewInsufficientStockError(
				fmt.Sprintf("Insufficient stock for product %s", item.ProductID))
		}
	}
	for _, item := range items {
		r.stock[item.ProductID] -= item.Quantity
	}
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].SaleID = sale.ID
	}
	sale.Items = items
	if payment != nil {
		if payment.ID == uuid.Nil {
			payment.ID = uuid.New()
		}
		payment.SaleID = sale.ID
		sale.Payments = []entity.Payment{*payment}
	}
	r.sales[sale.ID] = sale
	return nil
}

func (r *fakeSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sales[id], nil
}

func (r *fakeSaleRepo) GetByReference(ctx context.Context, reference string) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sales {
		if s.Reference == reference {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeSaleRepo) UpdateEtimsStatus(ctx context.Context, id uuid.UUID, status enum.FiscalStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sale, ok := r.sales[id]
	if !ok {
		return errors.New("sale not found")
	}
	sale.EtimsStatus = status
	return nil
}

func (r *fakeSaleRepo) ListByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Sale
	for _, s := range r.sales {
		if s.StoreID == storeID {
			out = append(out, *s)
		}
	}
	return out, nil
}

// fakePaymentRepo is an in-memory PaymentRepository with CAS transitions
type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*entity.Payment // keyed by reference
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*entity.Payment)}
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	r.payments[payment.Reference] = payment
	return nil
}

func (r *fakePaymentRepo) GetByReference(ctx context.Context, reference string) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[reference]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) transition(reference string, to enum.PaymentStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[reference]
	if !ok || p.Status != enum.PaymentStatusPending {
		return false, nil
	}
	p.Status = to
	return true, nil
}

func (r *fakePaymentRepo) CompleteByReference(ctx context.Context, reference string) (bool, error) {
	return r.transition(reference, enum.PaymentStatusCompleted)
}

func (r *fakePaymentRepo) FailByReference(ctx context.Context, reference string) (bool, error) {
	return r.transition(reference, enum.PaymentStatusFailed)
}

func (r *fakePaymentRepo) SumCompletedBySale(ctx context.Context, saleID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, p := range r.payments {
		if p.SaleID == saleID && p.Status == enum.PaymentStatusCompleted {
			sum += p.Amount
		}
	}
	return sum, nil
}

// fakeProductRepo is an in-memory ProductRepository
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (r *fakeProductRepo) add(name, sku string, priceCents int64, taxRate float64) *entity.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &entity.Product{
		ID:           uuid.New(),
		Name:         name,
		SKU:          sku,
		SellingPrice: priceCents,
		TaxRate:      taxRate,
		IsActive:     true,
	}
	r.products[p.ID] = p
	return p
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id], nil
}

func (r *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) List(ctx context.Context, search string) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

// fakeCustomerRepo is an in-memory CustomerRepository
type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.customers[id], nil
}

func (r *fakeCustomerRepo) List(ctx context.Context, search string) ([]entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

// fakeFiscal counts pipeline dispatches
type fakeFiscal struct {
	mu    sync.Mutex
	calls []uuid.UUID
}

func (f *fakeFiscal) ProcessSale(ctx context.Context, saleID uuid.UUID) (*FiscalResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, saleID)
	return &FiscalResult{Status: enum.FiscalStatusSkipped}, nil
}

func (f *fakeFiscal) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeGateway scripts provider responses
type fakeGateway struct {
	mu          sync.Mutex
	pushResp    *mpesa.STKPushResponse
	pushErr     error
	pushAmount  int64
	statusResp  *mpesa.StatusResponse
	statusErr   error
	statusCalls int
}

func (g *fakeGateway) STKPush(ctx context.Context, phone string, amount int64, reference string) (*mpesa.STKPushResponse, error) {
	g.mu.Lock()
	g.pushAmount = amount
	g.mu.Unlock()
	return g.pushResp, g.pushErr
}

func (g *fakeGateway) QueryStatus(ctx context.Context, checkoutRequestID string) (*mpesa.StatusResponse, error) {
	g.mu.Lock()
	g.statusCalls++
	g.mu.Unlock()
	return g.statusResp, g.statusErr
}

// fakeTransmitter scripts authority responses
type fakeTransmitter struct {
	mu    sync.Mutex
	err   error
	resp  map[string]interface{}
	calls int
}

func (t *fakeTransmitter) Transmit(ctx context.Context, invoice *etims.Invoice, signer etims.PayloadSigner) (map[string]interface{}, error) {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	if t.err != nil {
		return nil, t.err
	}
	if t.resp != nil {
		return t.resp, nil
	}
	return map[string]interface{}{"status": "accepted"}, nil
}

// stubSigner signs nothing but satisfies the signer surface
type stubSigner struct{}

func (stubSigner) Sign(data []byte) (string, error) { return "c3R1Yg==", nil }
func (stubSigner) CertificateSerial() string        { return "deadbeef" }
