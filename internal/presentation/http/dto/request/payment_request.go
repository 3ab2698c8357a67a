package request

import "github.com/google/uuid"

// MpesaPaymentRequest initiates an STK push for a committed sale
type MpesaPaymentRequest struct {
	SaleID uuid.UUID `json:"sale_id" binding:"required"`
	Phone  string    `json:"phone_number" binding:"required"`
	Amount float64   `json:"amount" binding:"required"`
}

// MpesaCallbackRequest mirrors the provider's settlement callback envelope
type MpesaCallbackRequest struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
		} `json:"stkCallback"`
	} `json:"Body"`
}
