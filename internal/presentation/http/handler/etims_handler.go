package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/dukapoint/cloudsales-api/internal/application/service"
	"github.com/dukapoint/cloudsales-api/internal/presentation/http/dto/response"
)

// EtimsHandler handles offline queue HTTP requests
type EtimsHandler struct {
	etimsService *service.EtimsService
}

// NewEtimsHandler creates a new etims handler
func NewEtimsHandler(etimsService *service.EtimsService) *EtimsHandler {
	return &EtimsHandler{etimsService: etimsService}
}

// ProcessQueue triggers an offline queue sweep
func (h *EtimsHandler) ProcessQueue(c *gin.Context) {
	result, err := h.etimsService.ProcessQueue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Queue processed", result)
}

// QueueStats returns the offline queue broken down by status
func (h *EtimsHandler) QueueStats(c *gin.Context) {
	stats, err := h.etimsService.QueueStats()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Queue stats retrieved", stats)
}
