package request

import "github.com/google/uuid"

// CheckoutItemRequest is one cart line as sent by the terminal
type CheckoutItemRequest struct {
	ProductID      uuid.UUID `json:"product_id" binding:"required"`
	Quantity       int       `json:"quantity" binding:"required"`
	UnitPrice      float64   `json:"unit_price"`
	TaxRate        float64   `json:"tax_rate"`
	DiscountAmount float64   `json:"discount_amount"`
	TotalPrice     float64   `json:"total_price"`
}

// CheckoutRequest is the terminal's checkout payload. Totals are computed
// client-side and validated server-side.
type CheckoutRequest struct {
	CustomerID     *uuid.UUID            `json:"customer_id"`
	PaymentMethod  string                `json:"payment_method" binding:"required"`
	Items          []CheckoutItemRequest `json:"items" binding:"required"`
	Subtotal       float64               `json:"subtotal"`
	TaxAmount      float64               `json:"tax_amount"`
	DiscountAmount float64               `json:"discount_amount"`
	TotalAmount    float64               `json:"total_amount"`
}
