package entity

import (
	"encoding/json"
	"testing"

	"github.com/dukapoint/cloudsales-api/internal/domain/enum"
)

func TestSalePaymentStatus(t *testing.T) {
	sale := Sale{TotalAmount: 40600}

	if got := sale.PaymentStatus(); got != "Unpaid" {
		t.Errorf("PaymentStatus() = %q, want Unpaid", got)
	}

	sale.Payments = []Payment{{Amount: 20000, Status: enum.PaymentStatusCompleted}}
	if got := sale.PaymentStatus(); got != "Partial" {
		t.Errorf("PaymentStatus() = %q, want Partial", got)
	}

	sale.Payments = append(sale.Payments, Payment{Amount: 20600, Status: enum.PaymentStatusCompleted})
	if got := sale.PaymentStatus(); got != "Paid" {
		t.Errorf("PaymentStatus() = %q, want Paid", got)
	}
}

func TestSalePaymentStatusIgnoresNonCompleted(t *testing.T) {
	sale := Sale{
		TotalAmount: 40600,
		Payments: []Payment{
			{Amount: 40600, Status: enum.PaymentStatusPending},
			{Amount: 40600, Status: enum.PaymentStatusFailed},
		},
	}
	if got := sale.PaymentStatus(); got != "Unpaid" {
		t.Errorf("PaymentStatus() = %q, want Unpaid", got)
	}
}

func TestSaleMarshalJSONEmitsDecimals(t *testing.T) {
	sale := Sale{
		Reference:   "SALE-ABC12345",
		Subtotal:    38000,
		TaxAmount:   2600,
		TotalAmount: 40600,
	}

	data, err := json.Marshal(sale)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if out["subtotal"] != 380.0 {
		t.Errorf("subtotal = %v, want 380", out["subtotal"])
	}
	if out["total_amount"] != 406.0 {
		t.Errorf("total_amount = %v, want 406", out["total_amount"])
	}
	if out["payment_status"] != "Unpaid" {
		t.Errorf("payment_status = %v", out["payment_status"])
	}
}

func TestTotalItems(t *testing.T) {
	sale := Sale{Items: []SaleItem{{Quantity: 2}, {Quantity: 3}}}
	if got := sale.TotalItems(); got != 5 {
		t.Errorf("TotalItems() = %d, want 5", got)
	}
}
