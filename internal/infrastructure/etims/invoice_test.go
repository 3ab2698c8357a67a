package etims

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dukapoint/cloudsales-api/internal/domain/entity"
)

func TestFormatInvoice(t *testing.T) {
	saleDate := time.Date(2026, 9, 1, 10, 15, 0, 0, time.UTC)
	sale := &entity.Sale{
		ID:          uuid.New(),
		Reference:   "SALE-ABC12345",
		SaleDate:    saleDate,
		Subtotal:    38000,
		TaxAmount:   2600,
		TotalAmount: 40600,
		Items: []entity.SaleItem{
			{
				Quantity:   2,
				UnitPrice:  6000,
				TaxRate:    16,
				TotalPrice: 12000,
				Product:    entity.Product{Name: "Bread", SKU: "BRD-001"},
			},
			{
				Quantity:   2,
				UnitPrice:  13000,
				TaxRate:    16,
				TotalPrice: 26000,
				Product:    entity.Product{ID: uuid.New(), Name: "Milk 500ml"},
			},
		},
	}

	inv, err := FormatInvoice(sale, "P051234567A", "CU-0001")
	if err != nil {
		t.Fatalf("FormatInvoice() error = %v", err)
	}

	if inv.TraderSystemInvoiceNumber != "SALE-ABC12345" {
		t.Errorf("invoice number = %q", inv.TraderSystemInvoiceNumber)
	}
	if inv.InvoiceDate != "2026-09-01" || inv.InvoiceTime != "10:15:00" {
		t.Errorf("date/time = %q %q", inv.InvoiceDate, inv.InvoiceTime)
	}
	if inv.TaxableAmount != 380 || inv.TotalTax != 26 || inv.TotalInvoiceAmount != 406 {
		t.Errorf("amounts = %v %v %v", inv.TaxableAmount, inv.TotalTax, inv.TotalInvoiceAmount)
	}
	if len(inv.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(inv.Items))
	}
	if inv.Items[0].ItemCode != "BRD-001" {
		t.Errorf("item code = %q, want the SKU", inv.Items[0].ItemCode)
	}
	// SKU-less products fall back to a derived code.
	if !strings.HasPrefix(inv.Items[1].ItemCode, "PROD-") {
		t.Errorf("item code = %q, want PROD- fallback", inv.Items[1].ItemCode)
	}
	if inv.Items[0].TaxAmount != 60*2*0.16 {
		t.Errorf("line tax = %v", inv.Items[0].TaxAmount)
	}
}

func TestFormatInvoiceRejectsEmptySale(t *testing.T) {
	if _, err := FormatInvoice(&entity.Sale{Reference: "SALE-EMPTY"}, "P051234567A", "CU-0001"); err == nil {
		t.Fatal("expected an error for a sale without items")
	}
	if _, err := FormatInvoice(nil, "P051234567A", "CU-0001"); err == nil {
		t.Fatal("expected an error for a nil sale")
	}
}

func TestQRData(t *testing.T) {
	data := QRData("P051234567A", "SALE-ABC12345", "2026-09-01", 40600, 2600, "CU-0001")
	want := "KRA:PIN=P051234567A:REF=SALE-ABC12345:DATE=2026-09-01:AMT=406.00:VAT=26.00:CU=CU-0001"
	if data != want {
		t.Errorf("QRData() = %q, want %q", data, want)
	}
}

func TestGenerateQRCode(t *testing.T) {
	encoded, err := GenerateQRCode("P051234567A", "SALE-ABC12345", "2026-09-01", 40600, 2600, "CU-0001")
	if err != nil {
		t.Fatalf("GenerateQRCode() error = %v", err)
	}
	if encoded == "" {
		t.Error("expected base64 png data")
	}
}
