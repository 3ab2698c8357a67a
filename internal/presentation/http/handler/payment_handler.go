package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dukapoint/cloudsales-api/internal/application/service"
	"github.com/dukapoint/cloudsales-api/internal/presentation/http/dto/request"
	"github.com/dukapoint/cloudsales-api/internal/presentation/http/dto/response"
)

// PaymentHandler handles mobile money payment HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Initiate handles initiating an STK push for a committed sale
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req request.MpesaPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.paymentService.InitiateMobilePayment(c.Request.Context(), &service.InitiatePaymentInput{
		SaleID: req.SaleID,
		Phone:  req.Phone,
		Amount: req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment initiated. Complete on your phone.", result)
}

// Callback handles the provider's settlement callback. The provider retries
// delivery, so the response is always 200 once the payload parses.
func (h *PaymentHandler) Callback(c *gin.Context) {
	var req request.MpesaCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid callback payload")
		return
	}

	cb := req.Body.StkCallback
	result, err := h.paymentService.HandleCallback(c.Request.Context(), cb.CheckoutRequestID, cb.ResultCode, cb.ResultDesc)
	if err != nil {
		response.Error(c, err)
		return
	}

	if !result.Found {
		response.NotFound(c, "Payment not found")
		return
	}

	response.OK(c, "Callback processed", gin.H{"status": result.Status})
}

// Status handles polling a payment by its checkout request id
func (h *PaymentHandler) Status(c *gin.Context) {
	checkoutRequestID := c.Param("checkout_request_id")
	if checkoutRequestID == "" {
		response.BadRequest(c, "Missing checkout request ID")
		return
	}

	result, err := h.paymentService.CheckStatus(c.Request.Context(), checkoutRequestID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment status retrieved", result)
}
