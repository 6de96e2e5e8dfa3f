package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"artist-marketplace-server/middleware"
)

// RegisterNotificationRoutes sets up notification routes
func RegisterNotificationRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", listNotifications)
		notifications.GET("/unread-count", getUnreadCount)
		notifications.PUT("/:id/read", markNotificationRead)
		notifications.PUT("/read-all", markAllNotificationsRead)
	}
}

func listNotifications(c *gin.Context) {
	userID := c.GetUint("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	notifications, total, err := notificationService.List(userID, c.Query("type"), page, limit)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notifications,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func getUnreadCount(c *gin.Context) {
	count, err := notificationService.UnreadCount(c.GetUint("user_id"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"unread_count": count}})
}

func markNotificationRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": "Invalid notification id"})
		return
	}

	if err := notificationService.MarkRead(uint(id), c.GetUint("user_id")); err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification marked as read"})
}

func markAllNotificationsRead(c *gin.Context) {
	updated, err := notificationService.MarkAllRead(c.GetUint("user_id"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All notifications marked as read",
		"data":    gin.H{"updated": updated},
	})
}
