package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/serdchef/coskunyayci-backend/internal/services"
)

type QuickOrderController struct {
	quick *services.QuickOrderService
}

func NewQuickOrderController(quick *services.QuickOrderService) *QuickOrderController {
	return &QuickOrderController{quick: quick}
}

// Create handles POST /quick-order. Malformed JSON gets the same 400 body as
// missing fields so the widget only deals with one error shape.
func (qc *QuickOrderController) Create(c *gin.Context) {
	var req services.QuickOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sku and phone required"})
		return
	}

	resp, svcErr := qc.quick.Create(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Health handles GET /health for the quick-order container probe.
func (qc *QuickOrderController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "quick-order"})
}
