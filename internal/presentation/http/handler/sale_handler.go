package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dukapoint/cloudsales-api/internal/application/service"
	"github.com/dukapoint/cloudsales-api/internal/domain/enum"
	"github.com/dukapoint/cloudsales-api/internal/presentation/http/dto/request"
	"github.com/dukapoint/cloudsales-api/internal/presentation/http/dto/response"
)

// SaleHandler handles checkout and sale HTTP requests
type SaleHandler struct {
	checkoutService *service.CheckoutService
	etimsService    *service.EtimsService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(checkoutService *service.CheckoutService, etimsService *service.EtimsService) *SaleHandler {
	return &SaleHandler{checkoutService: checkoutService, etimsService: etimsService}
}

// Checkout handles committing a sale
func (h *SaleHandler) Checkout(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}
	storeID := GetStoreID(c)
	if storeID == nil {
		response.Forbidden(c, "User is not assigned to a store")
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.CheckoutItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.CheckoutItemInput{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			TaxRate:        item.TaxRate,
			DiscountAmount: item.DiscountAmount,
			TotalPrice:     item.TotalPrice,
		}
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), &service.CheckoutInput{
		CashierID:      *userID,
		StoreID:        *storeID,
		CustomerID:     req.CustomerID,
		PaymentMethod:  enum.PaymentMethod(req.PaymentMethod),
		Items:          items,
		Subtotal:       req.Subtotal,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		TotalAmount:    req.TotalAmount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale completed successfully", result)
}

// Get handles getting a single sale with items and payments
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.checkoutService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// List handles listing recent sales for the caller's store
func (h *SaleHandler) List(c *gin.Context) {
	storeID := GetStoreID(c)
	if storeID == nil {
		response.Forbidden(c, "User is not assigned to a store")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	sales, err := h.checkoutService.ListSales(c.Request.Context(), *storeID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales retrieved successfully", sales)
}

// ReprocessEtims re-runs the fiscal pipeline for a sale, used after fixing
// configuration or credentials
func (h *SaleHandler) ReprocessEtims(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	result, err := h.etimsService.ProcessSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Fiscal processing completed", result)
}
