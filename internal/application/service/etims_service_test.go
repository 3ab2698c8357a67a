package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dukapoint/cloudsales-api/internal/config"
	"github.com/dukapoint/cloudsales-api/internal/domain/entity"
	"github.com/dukapoint/cloudsales-api/internal/domain/enum"
	"github.com/dukapoint/cloudsales-api/internal/infrastructure/etims"
)

func etimsTestConfig(t *testing.T) config.EtimsConfig {
	return config.EtimsConfig{
		Enabled:   true,
		TaxPIN:    "P051234567A",
		DeviceID:  "CU-0001",
		QueuePath: filepath.Join(t.TempDir(), "queue.json"),
	}
}

func seedFiscalSale(saleRepo *fakeSaleRepo) *entity.Sale {
	sale := &entity.Sale{
		ID:          uuid.New(),
		Reference:   "SALE-FISCAL01",
		SaleDate:    time.Now(),
		Subtotal:    38000,
		TaxAmount:   2600,
		TotalAmount: 40600,
		Status:      enum.SaleStatusCompleted,
		StoreID:     uuid.New(),
		Items: []entity.SaleItem{
			{
				ID:         uuid.New(),
				ProductID:  uuid.New(),
				Quantity:   2,
				UnitPrice:  6000,
				TaxRate:    16,
				TotalPrice: 12000,
				Product:    entity.Product{ID: uuid.New(), Name: "Bread", SKU: "BRD-001"},
			},
		},
	}
	saleRepo.sales[sale.ID] = sale
	return sale
}

func workingSignerLoader() SignerLoader {
	return func() (etims.PayloadSigner, error) { return stubSigner{}, nil }
}

func brokenSignerLoader() SignerLoader {
	return func() (etims.PayloadSigner, error) { return nil, errors.New("read certificate: no such file") }
}

func TestProcessSaleDisabled(t *testing.T) {
	cfg := etimsTestConfig(t)
	cfg.Enabled = false
	saleRepo := newFakeSaleRepo()
	sale := seedFiscalSale(saleRepo)
	svc := NewEtimsService(cfg, saleRepo, etims.NewQueue(cfg.QueuePath), &fakeTransmitter{}, workingSignerLoader())

	result, err := svc.ProcessSale(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("ProcessSale() error = %v", err)
	}
	if result.Status != enum.FiscalStatusSkipped {
		t.Errorf("status = %s, want skipped", result.Status)
	}
	if sale.EtimsStatus != enum.FiscalStatusSkipped {
		t.Errorf("sale fiscal status = %s, want skipped", sale.EtimsStatus)
	}
}

func TestProcessSaleMissingConfiguration(t *testing.T) {
	cfg := etimsTestConfig(t)
	cfg.TaxPIN = ""
	saleRepo := newFakeSaleRepo()
	sale := seedFiscalSale(saleRepo)
	svc := NewEtimsService(cfg, saleRepo, etims.NewQueue(cfg.QueuePath), &fakeTransmitter{}, workingSignerLoader())

	result, err := svc.ProcessSale(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("ProcessSale() error = %v", err)
	}
	if result.Status != enum.FiscalStatusError {
		t.Errorf("status = %s, want error", result.Status)
	}
}

func TestProcessSaleTransmitted(t *testing.T) {
	cfg := etimsTestConfig(t)
	saleRepo := newFakeSaleRepo()
	sale := seedFiscalSale(saleRepo)
	transmitter := &fakeTransmitter{resp: map[string]interface{}{"invoiceNumber": "KRA-001"}}
	queue := etims.NewQueue(cfg.QueuePath)
	svc := NewEtimsService(cfg, saleRepo, queue, transmitter, workingSignerLoader())

	result, err := svc.ProcessSale(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("ProcessSale() error = %v", err)
	}
	if result.Status != enum.FiscalStatusTransmitted {
		t.Errorf("status = %s, want transmitted", result.Status)
	}
	if result.Response["invoiceNumber"] != "KRA-001" {
		t.Errorf("response = %v", result.Response)
	}
	if result.QRCode == "" {
		t.Error("expected a qr code")
	}
	if sale.EtimsStatus != enum.FiscalStatusTransmitted {
		t.Errorf("sale fiscal status = %s, want transmitted", sale.EtimsStatus)
	}

	stats, _ := queue.Stats()
	if stats.Total != 0 {
		t.Errorf("queue has %d entries after a successful transmit, want 0", stats.Total)
	}
}

func TestProcessSaleQueuesWhenCredentialUnavailable(t *testing.T) {
	cfg := etimsTestConfig(t)
	saleRepo := newFakeSaleRepo()
	sale := seedFiscalSale(saleRepo)
	transmitter := &fakeTransmitter{}
	queue := etims.NewQueue(cfg.QueuePath)
	svc := NewEtimsService(cfg, saleRepo, queue, transmitter, brokenSignerLoader())

	result, err := svc.ProcessSale(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("ProcessSale() error = %v", err)
	}
	if result.Status != enum.FiscalStatusQueued {
		t.Errorf("status = %s, want queued", result.Status)
	}
	if result.QueueID == "" {
		t.Error("expected a queue id")
	}
	if transmitter.calls != 0 {
		t.Error("no transmission attempt may happen without a credential")
	}

	stats, _ := queue.Stats()
	if stats.Pending != 1 {
		t.Errorf("queue pending = %d, want 1", stats.Pending)
	}
}

func TestProcessSaleQueuesAfterTransmissionFailure(t *testing.T) {
	cfg := etimsTestConfig(t)
	saleRepo := newFakeSaleRepo()
	sale := seedFiscalSale(saleRepo)
	transmitter := &fakeTransmitter{err: errors.New("communication error: connection refused")}
	queue := etims.NewQueue(cfg.QueuePath)
	svc := NewEtimsService(cfg, saleRepo, queue, transmitter, workingSignerLoader())

	result, err := svc.ProcessSale(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("ProcessSale() error = %v", err)
	}
	if result.Status != enum.FiscalStatusQueuedAfterFailure {
		t.Errorf("status = %s, want queued_after_failure", result.Status)
	}
	if sale.EtimsStatus != enum.FiscalStatusQueuedAfterFailure {
		t.Errorf("sale fiscal status = %s", sale.EtimsStatus)
	}

	stats, _ := queue.Stats()
	if stats.Pending != 1 {
		t.Errorf("queue pending = %d, want 1", stats.Pending)
	}
}

func TestProcessQueueSweep(t *testing.T) {
	cfg := etimsTestConfig(t)
	saleRepo := newFakeSaleRepo()
	sale := seedFiscalSale(saleRepo)
	queue := etims.NewQueue(cfg.QueuePath)

	// Queue two entries while the authority is down.
	down := NewEtimsService(cfg, saleRepo, queue, &fakeTransmitter{err: errors.New("down")}, workingSignerLoader())
	if _, err := down.ProcessSale(context.Background(), sale.ID); err != nil {
		t.Fatalf("ProcessSale() error = %v", err)
	}
	if _, err := down.ProcessSale(context.Background(), sale.ID); err != nil {
		t.Fatalf("ProcessSale() error = %v", err)
	}

	// Sweep once the authority is reachable again.
	up := NewEtimsService(cfg, saleRepo, queue, &fakeTransmitter{}, workingSignerLoader())
	result, err := up.ProcessQueue(context.Background())
	if err != nil {
		t.Fatalf("ProcessQueue() error = %v", err)
	}
	if result.Processed != 2 || result.Transmitted != 2 {
		t.Errorf("sweep = %+v, want 2 processed, 2 transmitted", result)
	}

	stats, _ := queue.Stats()
	if stats.Transmitted != 2 || stats.Pending != 0 {
		t.Errorf("queue stats = %+v", stats)
	}

	// Entries stay in the file after transmission; a second sweep is a no-op.
	result, err = up.ProcessQueue(context.Background())
	if err != nil {
		t.Fatalf("second ProcessQueue() error = %v", err)
	}
	if result.Processed != 0 {
		t.Errorf("second sweep processed %d entries, want 0", result.Processed)
	}
}

func TestProcessQueueRetriesFailedEntries(t *testing.T) {
	cfg := etimsTestConfig(t)
	saleRepo := newFakeSaleRepo()
	sale := seedFiscalSale(saleRepo)
	queue := etims.NewQueue(cfg.QueuePath)

	down := NewEtimsService(cfg, saleRepo, queue, &fakeTransmitter{err: errors.New("down")}, workingSignerLoader())
	if _, err := down.ProcessSale(context.Background(), sale.ID); err != nil {
		t.Fatalf("ProcessSale() error = %v", err)
	}

	// First sweep fails too, marking the entry failed.
	if _, err := down.ProcessQueue(context.Background()); err != nil {
		t.Fatalf("ProcessQueue() error = %v", err)
	}
	stats, _ := queue.Stats()
	if stats.Failed != 1 {
		t.Fatalf("queue failed = %d, want 1", stats.Failed)
	}

	// Failed entries stay eligible: the next sweep picks them up again.
	up := NewEtimsService(cfg, saleRepo, queue, &fakeTransmitter{}, workingSignerLoader())
	result, err := up.ProcessQueue(context.Background())
	if err != nil {
		t.Fatalf("ProcessQueue() error = %v", err)
	}
	if result.Transmitted != 1 {
		t.Errorf("sweep transmitted %d, want 1", result.Transmitted)
	}
}

func TestProcessQueueDisabled(t *testing.T) {
	cfg := etimsTestConfig(t)
	cfg.Enabled = false
	svc := NewEtimsService(cfg, newFakeSaleRepo(), etims.NewQueue(cfg.QueuePath), &fakeTransmitter{}, workingSignerLoader())

	if _, err := svc.ProcessQueue(context.Background()); err == nil {
		t.Fatal("expected an error when the integration is disabled")
	}
}
