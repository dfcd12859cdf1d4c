package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns a user's notification feed, newest first.
func (h *Handler) ListNotifications(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	notifications, err := h.store.ListNotifications(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkNotificationRead marks one notification as read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.MarkNotificationRead(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "read": true})
}
