package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/serdchef/coskunyayci-backend/internal/middleware"
	"github.com/serdchef/coskunyayci-backend/internal/models"
	"github.com/serdchef/coskunyayci-backend/internal/repository"
	"github.com/serdchef/coskunyayci-backend/internal/services"
)

type CartController struct {
	carts    *repository.CartRepository
	products *services.ProductService
	logger   *zap.Logger
}

func NewCartController(carts *repository.CartRepository, products *services.ProductService, logger *zap.Logger) *CartController {
	return &CartController{carts: carts, products: products, logger: logger}
}

type cartItemRequest struct {
	SKU       string `json:"sku" binding:"required"`
	SizeLabel string `json:"size_label"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// cartOwner resolves the cart key: the authenticated user ID when present,
// otherwise the guest session header.
func cartOwner(c *gin.Context) string {
	if userID := c.GetString(middleware.ContextUserID); userID != "" {
		return userID
	}
	return c.GetHeader("X-Session-ID")
}

// Get handles GET /api/cart.
func (cc *CartController) Get(c *gin.Context) {
	owner := cartOwner(c)
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header required for guest carts"})
		return
	}

	cart, err := cc.carts.Get(c.Request.Context(), owner)
	if err != nil {
		cc.logger.Error("cart read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart"})
		return
	}
	if cart == nil {
		cart = &models.Cart{OwnerID: owner, Items: []models.CartItem{}}
	}
	c.JSON(http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items. Adding an SKU already in the cart
// increments its quantity.
func (cc *CartController) AddItem(c *gin.Context) {
	owner := cartOwner(c)
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header required for guest carts"})
		return
	}

	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Reject unknown SKUs before they reach checkout.
	if _, svcErr := cc.products.GetBySKU(c.Request.Context(), req.SKU); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	cart, err := cc.carts.Get(c.Request.Context(), owner)
	if err != nil {
		cc.logger.Error("cart read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart"})
		return
	}
	if cart == nil {
		cart = &models.Cart{OwnerID: owner}
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].SKU == req.SKU && cart.Items[i].SizeLabel == req.SizeLabel {
			cart.Items[i].Quantity += req.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{
			SKU:       req.SKU,
			SizeLabel: req.SizeLabel,
			Quantity:  req.Quantity,
		})
	}
	cart.UpdatedAt = time.Now()

	if err := cc.carts.Save(c.Request.Context(), cart); err != nil {
		cc.logger.Error("cart save failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}
	c.JSON(http.StatusOK, cart)
}

// UpdateItem handles PUT /api/cart/items/:sku, replacing the quantity.
func (cc *CartController) UpdateItem(c *gin.Context) {
	owner := cartOwner(c)
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header required for guest carts"})
		return
	}

	var req struct {
		SizeLabel string `json:"size_label"`
		Quantity  int    `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := cc.carts.Get(c.Request.Context(), owner)
	if err != nil {
		cc.logger.Error("cart read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart"})
		return
	}

	sku := c.Param("sku")
	found := false
	if cart != nil {
		for i := range cart.Items {
			if cart.Items[i].SKU == sku && cart.Items[i].SizeLabel == req.SizeLabel {
				cart.Items[i].Quantity = req.Quantity
				found = true
				break
			}
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}
	cart.UpdatedAt = time.Now()

	if err := cc.carts.Save(c.Request.Context(), cart); err != nil {
		cc.logger.Error("cart save failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/items/:sku.
func (cc *CartController) RemoveItem(c *gin.Context) {
	owner := cartOwner(c)
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header required for guest carts"})
		return
	}

	cart, err := cc.carts.Get(c.Request.Context(), owner)
	if err != nil {
		cc.logger.Error("cart read failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read cart"})
		return
	}
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}

	sku := c.Param("sku")
	sizeLabel := c.Query("size_label")
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.SKU == sku && (sizeLabel == "" || item.SizeLabel == sizeLabel) {
			continue
		}
		kept = append(kept, item)
	}
	if len(kept) == len(cart.Items) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
		return
	}
	cart.Items = kept
	cart.UpdatedAt = time.Now()

	if err := cc.carts.Save(c.Request.Context(), cart); err != nil {
		cc.logger.Error("cart save failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}
	c.JSON(http.StatusOK, cart)
}

// Clear handles DELETE /api/cart.
func (cc *CartController) Clear(c *gin.Context) {
	owner := cartOwner(c)
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header required for guest carts"})
		return
	}
	if err := cc.carts.Delete(c.Request.Context(), owner); err != nil {
		cc.logger.Error("cart delete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
