package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the session's feed, newest first, plus the unread
// count the shell badges with.
func (h *Handlers) ListNotifications(c *gin.Context) {
	feed := registry(c).Notifications
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"notifications": feed.List(),
			"unread":        feed.Unread(),
		},
	})
}

// AddNotification pushes an entry onto the session feed.
func (h *Handlers) AddNotification(c *gin.Context) {
	var body struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		Level string `json:"level"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}
	if body.Level == "" {
		body.Level = "info"
	}
	item := registry(c).Notifications.Add(body.Title, body.Body, body.Level)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": item})
}

// MarkNotificationRead marks one entry read.
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	if !registry(c).Notifications.MarkRead(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllNotificationsRead marks the whole feed read.
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	registry(c).Notifications.MarkAllRead()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DismissNotification removes one entry.
func (h *Handlers) DismissNotification(c *gin.Context) {
	if !registry(c).Notifications.Dismiss(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ClearNotifications empties the feed.
func (h *Handlers) ClearNotifications(c *gin.Context) {
	registry(c).Notifications.Clear()
	c.JSON(http.StatusOK, gin.H{"success": true})
}
