package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dukapoint/cloudsales-api/internal/application/service"
	"github.com/dukapoint/cloudsales-api/internal/presentation/http/dto/response"
)

// InventoryHandler handles inventory HTTP requests
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// List handles listing inventory for the caller's store
func (h *InventoryHandler) List(c *gin.Context) {
	storeID := GetStoreID(c)
	if storeID == nil {
		response.Forbidden(c, "User is not assigned to a store")
		return
	}

	stock, err := h.inventoryService.ListStock(c.Request.Context(), *storeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory retrieved successfully", stock)
}

// LowStock handles listing inventory at or below its reorder level
func (h *InventoryHandler) LowStock(c *gin.Context) {
	storeID := GetStoreID(c)
	if storeID == nil {
		response.Forbidden(c, "User is not assigned to a store")
		return
	}

	stock, err := h.inventoryService.ListLowStock(c.Request.Context(), *storeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock retrieved successfully", stock)
}

// Restock handles adding stock for a product
func (h *InventoryHandler) Restock(c *gin.Context) {
	storeID := GetStoreID(c)
	if storeID == nil {
		response.Forbidden(c, "User is not assigned to a store")
		return
	}

	var req struct {
		ProductID uuid.UUID `json:"product_id" binding:"required"`
		Quantity  int       `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	inv, err := h.inventoryService.Restock(c.Request.Context(), req.ProductID, *storeID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory restocked successfully", inv)
}
