package etims

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dukapoint/cloudsales-api/internal/domain/enum"
)

func testInvoice() *Invoice {
	return &Invoice{
		InvoiceType:               "1",
		TraderSystemInvoiceNumber: "SALE-ABC12345",
		InvoiceDate:               "2026-09-01",
		InvoiceTime:               "10:15:00",
		SellerPINNumber:           "P051234567A",
		DeviceID:                  "CU-0001",
		TaxableAmount:             380,
		TotalTax:                  26,
		TotalInvoiceAmount:        406,
		Items: []InvoiceItem{
			{ItemCode: "BRD-001", ItemName: "Bread", Quantity: 2, UnitPrice: 60, TaxRate: 16, LineTotal: 120},
		},
	}
}

func TestQueueAppendAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.json")
	q := NewQueue(path)

	id, err := q.Append(testInvoice())
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if id == "" {
		t.Fatal("expected a queue id")
	}

	// A fresh queue instance reads the same file.
	entries, err := NewQueue(path).Entries()
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].ID != id {
		t.Errorf("entry id = %q, want %q", entries[0].ID, id)
	}
	if entries[0].Status != enum.QueueStatusPending {
		t.Errorf("entry status = %s, want pending", entries[0].Status)
	}
	if entries[0].InvoiceData.TraderSystemInvoiceNumber != "SALE-ABC12345" {
		t.Errorf("invoice number = %q", entries[0].InvoiceData.TraderSystemInvoiceNumber)
	}
}

func TestQueueMissingFileIsEmpty(t *testing.T) {
	q := NewQueue(filepath.Join(t.TempDir(), "missing.json"))

	entries, err := q.Entries()
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func TestQueueUpdateEntry(t *testing.T) {
	q := NewQueue(filepath.Join(t.TempDir(), "queue.json"))
	id, _ := q.Append(testInvoice())

	err := q.UpdateEntry(id, func(e *QueueEntry) {
		e.Status = enum.QueueStatusTransmitted
		e.Response = map[string]interface{}{"invoiceNumber": "KRA-001"}
	})
	if err != nil {
		t.Fatalf("UpdateEntry() error = %v", err)
	}

	entries, _ := q.Entries()
	if entries[0].Status != enum.QueueStatusTransmitted {
		t.Errorf("status = %s, want transmitted", entries[0].Status)
	}
	if entries[0].Response["invoiceNumber"] != "KRA-001" {
		t.Errorf("response = %v", entries[0].Response)
	}
}

func TestQueueUpdateUnknownIDIsNoop(t *testing.T) {
	q := NewQueue(filepath.Join(t.TempDir(), "queue.json"))
	q.Append(testInvoice())

	if err := q.UpdateEntry("OFFLINE-missing", func(e *QueueEntry) {
		e.Status = enum.QueueStatusFailed
	}); err != nil {
		t.Fatalf("UpdateEntry() error = %v", err)
	}

	entries, _ := q.Entries()
	if entries[0].Status != enum.QueueStatusPending {
		t.Error("unmatched update must leave entries untouched")
	}
}

func TestQueueAppendPreservedDuringUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.json")
	q := NewQueue(path)
	first, _ := q.Append(testInvoice())
	second, _ := q.Append(testInvoice())

	if err := q.UpdateEntry(first, func(e *QueueEntry) {
		e.Status = enum.QueueStatusTransmitted
	}); err != nil {
		t.Fatalf("UpdateEntry() error = %v", err)
	}

	entries, _ := q.Entries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.ID == second && e.Status != enum.QueueStatusPending {
			t.Error("updating one entry must not touch the other")
		}
	}
}

func TestQueueStats(t *testing.T) {
	q := NewQueue(filepath.Join(t.TempDir(), "queue.json"))
	a, _ := q.Append(testInvoice())
	q.Append(testInvoice())
	b, _ := q.Append(testInvoice())

	q.UpdateEntry(a, func(e *QueueEntry) { e.Status = enum.QueueStatusTransmitted })
	q.UpdateEntry(b, func(e *QueueEntry) { e.Status = enum.QueueStatusFailed })

	stats, err := q.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Total != 3 || stats.Pending != 1 || stats.Transmitted != 1 || stats.Failed != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestQueueCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "queue.json")
	q := NewQueue(path)

	if _, err := q.Append(testInvoice()); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("queue file not created: %v", err)
	}
}
