package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serdchef/coskunyayci-backend/internal/middleware"
	"github.com/serdchef/coskunyayci-backend/internal/services"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// ListMine handles GET /api/orders for the authenticated user.
func (oc *OrderController) ListMine(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString(middleware.ContextUserID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	page, limit := pagination(c)
	result, svcErr := oc.orders.GetUserOrders(c.Request.Context(), userID, page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListAll handles GET /api/admin/orders with an optional status filter.
func (oc *OrderController) ListAll(c *gin.Context) {
	page, limit := pagination(c)
	result, svcErr := oc.orders.GetAllOrders(c.Request.Context(), c.Query("status"), page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateStatus handles PATCH /api/admin/orders/:id/status. Transitions are
// validated server-side; the dashboard cannot skip or rewind states.
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, svcErr := oc.orders.UpdateStatus(c.Request.Context(), orderID, strings.ToUpper(req.Status))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, order)
}

// Track handles GET /api/orders/track/:number. The endpoint is public, so
// everything customer-identifying is masked.
func (oc *OrderController) Track(c *gin.Context) {
	order, svcErr := oc.orders.TrackByNumber(c.Request.Context(), c.Param("number"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	items := make([]gin.H, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, gin.H{
			"name":       item.ProductName,
			"size_label": item.SizeLabel,
			"quantity":   item.Quantity,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"order_number":  order.OrderNumber,
		"status":        order.Status,
		"delivery_type": order.DeliveryType,
		"customer_name": maskName(order.CustomerName),
		"phone":         maskPhone(order.Phone),
		"items":         items,
		"created_at":    order.CreatedAt,
	})
}

// maskName keeps the first letter of each word: "Ayşe Yılmaz" -> "A*** Y***".
func maskName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 1 {
			words[i] = string(r[0]) + strings.Repeat("*", len(r)-1)
		}
	}
	return strings.Join(words, " ")
}

// maskPhone keeps only the last two digits.
func maskPhone(phone string) string {
	r := []rune(phone)
	if len(r) <= 2 {
		return phone
	}
	return strings.Repeat("*", len(r)-2) + string(r[len(r)-2:])
}
