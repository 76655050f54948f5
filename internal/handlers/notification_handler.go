package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sharppicks/internal/auth"
	"sharppicks/internal/hub"
	"sharppicks/internal/services"
)

// NotificationHandler serves user notifications and admin alerts, including
// the live alert feed
type NotificationHandler struct {
	notifications *services.NotificationService
	alertHub      *hub.Hub
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *services.NotificationService, alertHub *hub.Hub) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		alertHub:      alertHub,
	}
}

// ListForUser returns the authenticated user's notifications
func (h *NotificationHandler) ListForUser(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	notifications, unread, err := h.notifications.ListForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
		"unread":        unread,
	})
}

// MarkRead flags a notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notifications.MarkRead(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListAlerts returns all admin alerts (admin)
func (h *NotificationHandler) ListAlerts(c *gin.Context) {
	alerts, unread, err := h.notifications.ListAlerts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
		"unread": unread,
	})
}

// MarkAlertRead flags an alert as read (admin)
func (h *NotificationHandler) MarkAlertRead(c *gin.Context) {
	if err := h.notifications.MarkAlertRead(c.Param("id")); err != nil {
		if errors.Is(err, services.ErrAlertNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark alert read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearAlerts deletes all admin alerts (admin)
func (h *NotificationHandler) ClearAlerts(c *gin.Context) {
	if err := h.notifications.ClearAlerts(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear alerts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AlertFeed upgrades to a websocket pushing live admin alerts (admin)
func (h *NotificationHandler) AlertFeed(c *gin.Context) {
	h.alertHub.ServeWS(c.Writer, c.Request)
}
