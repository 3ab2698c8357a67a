// Package etims implements the tax-authority compliance adapter: invoice
// formatting, electronic signing, compliance QR codes, real-time transmission
// and the durable offline queue used when the authority is unreachable.
package etims

import (
	"fmt"

	"github.com/dukapoint/cloudsales-api/internal/domain/entity"
)

// Invoice is the fixed schema transmitted to the tax authority
type Invoice struct {
	InvoiceType               string        `json:"invoiceType"`
	TraderSystemInvoiceNumber string        `json:"traderSystemInvoiceNumber"`
	InvoiceDate               string        `json:"invoiceDate"`
	InvoiceTime               string        `json:"invoiceTime"`
	SellerPINNumber           string        `json:"sellerPINNumber"`
	DeviceID                  string        `json:"deviceId"`
	TaxableAmount             float64       `json:"taxableAmount"`
	TotalTax                  float64       `json:"totalTax"`
	TotalInvoiceAmount        float64       `json:"totalInvoiceAmount"`
	Items                     []InvoiceItem `json:"items"`
}

// InvoiceItem is a single invoice line
type InvoiceItem struct {
	ItemCode       string  `json:"itemCode"`
	ItemName       string  `json:"itemName"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unitPrice"`
	TaxRate        float64 `json:"taxRate"`
	TaxAmount      float64 `json:"taxAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	LineTotal      float64 `json:"lineTotal"`
}

// FormatInvoice maps a sale with loaded items into the invoice schema.
// Monetary fields are converted from cents to decimal amounts.
func FormatInvoice(sale *entity.Sale, taxPIN, deviceID string) (*Invoice, error) {
	if sale == nil {
		return nil, fmt.Errorf("nil sale")
	}
	if len(sale.Items) == 0 {
		return nil, fmt.Errorf("sale %s has no items", sale.Reference)
	}

	inv := &Invoice{
		InvoiceType:               "1", // regular invoice
		TraderSystemInvoiceNumber: sale.Reference,
		InvoiceDate:               sale.SaleDate.Format("2006-01-02"),
		InvoiceTime:               sale.SaleDate.Format("15:04:05"),
		SellerPINNumber:           taxPIN,
		DeviceID:                  deviceID,
		TaxableAmount:             float64(sale.Subtotal) / 100,
		TotalTax:                  float64(sale.TaxAmount) / 100,
		TotalInvoiceAmount:        float64(sale.TotalAmount) / 100,
		Items:                     make([]InvoiceItem, 0, len(sale.Items)),
	}

	for _, item := range sale.Items {
		unitPrice := float64(item.UnitPrice) / 100
		inv.Items = append(inv.Items, InvoiceItem{
			ItemCode:       item.Product.ItemCode(),
			ItemName:       item.Product.Name,
			Quantity:       item.Quantity,
			UnitPrice:      unitPrice,
			TaxRate:        item.TaxRate,
			TaxAmount:      unitPrice * float64(item.Quantity) * item.TaxRate / 100,
			DiscountAmount: float64(item.DiscountAmount) / 100,
			LineTotal:      float64(item.TotalPrice) / 100,
		})
	}

	return inv, nil
}
