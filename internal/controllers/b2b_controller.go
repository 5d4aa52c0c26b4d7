package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/serdchef/coskunyayci-backend/internal/models"
	"github.com/serdchef/coskunyayci-backend/internal/services"
)

type B2BController struct {
	b2b *services.B2BService
}

func NewB2BController(b2b *services.B2BService) *B2BController {
	return &B2BController{b2b: b2b}
}

// Quote handles POST /api/b2b/quote. Pure pricing, nothing is persisted.
func (bc *B2BController) Quote(c *gin.Context) {
	var req models.B2BQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, svcErr := bc.b2b.Quote(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, quote)
}

type b2bOrderRequest struct {
	Items       []models.B2BQuoteItem `json:"items" binding:"required,dive"`
	CompanyName string                `json:"company_name" binding:"required"`
	Phone       string                `json:"phone" binding:"required"`
	Address     string                `json:"address" binding:"required"`
}

// CreateOrder handles POST /api/b2b/orders, placing the bulk order at the
// quoted discounted price.
func (bc *B2BController) CreateOrder(c *gin.Context) {
	var req b2bOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quoteReq := &models.B2BQuoteRequest{Items: req.Items}
	order, svcErr := bc.b2b.CreateOrder(c.Request.Context(), quoteReq, req.CompanyName, req.Phone, req.Address)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, order)
}
