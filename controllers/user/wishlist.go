package userControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

// GET /api/wishlist
func GetWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []models.WishlistItem
		if err := db.
			Where("user_id = ?", middleware.UserID(c)).
			Preload("Product").
			Order("created_at DESC").
			Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
	}
}

// POST /api/wishlist/:productId
func AddToWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("productId")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "product not found"})
			return
		}

		var existing models.WishlistItem
		err := db.Where("user_id = ? AND product_id = ?", userID, product.ID).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": existing})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		item := models.WishlistItem{UserID: userID, ProductID: product.ID}
		if err := db.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": item})
	}
}

// DELETE /api/wishlist/:productId
func RemoveFromWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Where("user_id = ? AND product_id = ?", middleware.UserID(c), c.Param("productId")).
			Delete(&models.WishlistItem{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "wishlist item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "removed from wishlist"})
	}
}
