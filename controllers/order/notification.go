package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

// GET /api/orders/notifications
func GetNotifications(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var notifications []models.Notification
		if err := db.
			Where("user_id = ?", middleware.UserID(c)).
			Order("created_at DESC").
			Limit(100).
			Find(&notifications).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		var unread int64
		db.Model(&models.Notification{}).
			Where("user_id = ? AND is_read = ?", middleware.UserID(c), false).
			Count(&unread)

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"notifications": notifications,
			"unread":        unread,
		}})
	}
}

// PUT /api/orders/notifications/:id/read
func MarkNotificationRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", c.Param("id"), middleware.UserID(c)).
			Update("is_read", true)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "notification not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "notification marked as read"})
	}
}

// PUT /api/orders/notifications/read-all
func MarkAllNotificationsRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Model(&models.Notification{}).
			Where("user_id = ? AND is_read = ?", middleware.UserID(c), false).
			Update("is_read", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "all notifications marked as read"})
	}
}
