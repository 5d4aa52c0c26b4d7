package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/serdchef/coskunyayci-backend/internal/middleware"
	"github.com/serdchef/coskunyayci-backend/internal/models"
	"github.com/serdchef/coskunyayci-backend/internal/repository"
)

type AddressController struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewAddressController(users repository.UserRepository, logger *zap.Logger) *AddressController {
	return &AddressController{users: users, logger: logger}
}

func authedUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(middleware.ContextUserID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return uuid.Nil, false
	}
	return id, true
}

// List handles GET /api/me/addresses.
func (ac *AddressController) List(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	addresses, err := ac.users.ListAddresses(c.Request.Context(), userID)
	if err != nil {
		ac.logger.Error("address list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list addresses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

// Create handles POST /api/me/addresses.
func (ac *AddressController) Create(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	var req struct {
		Label      string `json:"label" binding:"required"`
		Street     string `json:"street" binding:"required"`
		District   string `json:"district"`
		City       string `json:"city" binding:"required"`
		PostalCode string `json:"postal_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	address := &models.Address{
		UserID:     userID,
		Label:      req.Label,
		Street:     req.Street,
		District:   req.District,
		City:       req.City,
		PostalCode: req.PostalCode,
	}
	if err := ac.users.CreateAddress(c.Request.Context(), address); err != nil {
		ac.logger.Error("address create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save address"})
		return
	}
	c.JSON(http.StatusCreated, address)
}

// Delete handles DELETE /api/me/addresses/:id.
func (ac *AddressController) Delete(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address id"})
		return
	}

	if err := ac.users.DeleteAddress(c.Request.Context(), userID, addressID); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}
		ac.logger.Error("address delete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete address"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
}
