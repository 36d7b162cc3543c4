package userControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

// POST /api/users/:id/follow
func FollowSeller(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		followerID := middleware.UserID(c)
		sellerID := c.Param("id")

		if followerID == sellerID {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "cannot follow yourself"})
			return
		}

		var seller models.User
		if err := db.First(&seller, "id = ?", sellerID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user not found"})
			return
		}

		var existing models.Follow
		err := db.Where("follower_id = ? AND seller_id = ?", followerID, sellerID).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "already following"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		follow := models.Follow{FollowerID: followerID, SellerID: sellerID}
		if err := db.Create(&follow).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": follow})
	}
}

// DELETE /api/users/:id/follow
func UnfollowSeller(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Where("follower_id = ? AND seller_id = ?", middleware.UserID(c), c.Param("id")).
			Delete(&models.Follow{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "not following"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "unfollowed"})
	}
}

// GET /api/users/:id/followers
func GetFollowers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var followers []models.User
		if err := db.
			Joins("JOIN follows ON follows.follower_id = users.id").
			Where("follows.seller_id = ?", c.Param("id")).
			Select("users.id", "users.name", "users.avatar").
			Find(&followers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"followers": followers,
			"count":     len(followers),
		}})
	}
}

// POST /api/users/products/:id/like
// The denormalized Product.Likes count moves in the same transaction as the
// like row.
func LikeProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "product not found"})
			return
		}

		var existing models.ProductLike
		err := db.Where("user_id = ? AND product_id = ?", userID, product.ID).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "already liked"})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&models.ProductLike{UserID: userID, ProductID: product.ID}).Error; err != nil {
				return err
			}
			return tx.Model(&product).Update("likes", gorm.Expr("likes + 1")).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "product liked"})
	}
}

// DELETE /api/users/products/:id/like
func UnlikeProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		productID := c.Param("id")

		err := db.Transaction(func(tx *gorm.DB) error {
			res := tx.Where("user_id = ? AND product_id = ?", userID, productID).
				Delete(&models.ProductLike{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return tx.Model(&models.Product{}).
				Where("id = ? AND likes > 0", productID).
				Update("likes", gorm.Expr("likes - 1")).Error
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "like not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "like removed"})
	}
}
