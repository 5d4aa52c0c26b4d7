package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/serdchef/coskunyayci-backend/internal/models"
	"github.com/serdchef/coskunyayci-backend/internal/services"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// List handles GET /api/products with optional category/region filters.
func (pc *ProductController) List(c *gin.Context) {
	page, limit := pagination(c)
	filters := models.ProductFilters{
		Category: c.Query("category"),
		Region:   c.Query("region"),
	}

	result, svcErr := pc.products.List(c.Request.Context(), filters, page, limit)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/products/:sku.
func (pc *ProductController) Get(c *gin.Context) {
	product, svcErr := pc.products.GetBySKU(c.Request.Context(), c.Param("sku"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, product)
}

// Create handles POST /api/admin/products.
func (pc *ProductController) Create(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if svcErr := pc.products.Create(c.Request.Context(), &product); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, product)
}

// Update handles PUT /api/admin/products/:sku.
func (pc *ProductController) Update(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product.SKU = c.Param("sku")
	if svcErr := pc.products.Update(c.Request.Context(), &product); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, product)
}

// Deactivate handles DELETE /api/admin/products/:sku. Products are never
// removed, only hidden from the storefront.
func (pc *ProductController) Deactivate(c *gin.Context) {
	if svcErr := pc.products.Deactivate(c.Request.Context(), c.Param("sku")); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deactivated"})
}

func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
