package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serdchef/coskunyayci-backend/internal/models"
	"github.com/serdchef/coskunyayci-backend/internal/queue"
	"github.com/serdchef/coskunyayci-backend/internal/services"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

type sendNotificationRequest struct {
	Event       string            `json:"event" binding:"required"`
	OrderID     string            `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	Channel     string            `json:"channel" binding:"required,oneof=sms whatsapp email"`
	Recipient   string            `json:"recipient" binding:"required"`
	Data        map[string]string `json:"data"`
}

// Send handles POST /api/admin/notifications: inline dispatch, bypassing the
// queue, so operators can resend a message on demand.
func (nc *NotificationController) Send(c *gin.Context) {
	var req sendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job := queue.NotificationJob{
		Event:       req.Event,
		OrderNumber: req.OrderNumber,
		Channel:     req.Channel,
		Recipient:   req.Recipient,
		Data:        req.Data,
	}
	if req.OrderID != "" {
		id, err := uuid.Parse(req.OrderID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
			return
		}
		job.OrderID = id
	}

	log, svcErr := nc.notifications.SimulateSend(c.Request.Context(), job)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, log)
}

// List handles GET /api/admin/notifications with optional filters.
func (nc *NotificationController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := models.NotificationFilter{
		OrderID:  c.Query("order_id"),
		Status:   c.Query("status"),
		Channel:  c.Query("channel"),
		Page:     page,
		PageSize: pageSize,
	}

	logs, total, svcErr := nc.notifications.List(c.Request.Context(), filter)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"notifications": logs,
		"total":         total,
		"page":          page,
		"limit":         pageSize,
	})
}
