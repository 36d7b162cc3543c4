package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

type AddToCartRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Size      string `json:"size"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// GET /api/cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []models.CartItem
		if err := db.
			Where("user_id = ?", middleware.UserID(c)).
			Preload("Product").
			Order("created_at DESC").
			Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		var total float64
		for _, item := range items {
			total += item.Price * float64(item.Quantity)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"items": items,
			"total": total,
		}})
	}
}

// POST /api/cart
// Rows are keyed by (user, product, size); a matching row gets its quantity
// incremented, anything else inserts a new row. No stock check here, only at
// checkout.
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var req AddToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		var item models.CartItem
		err := db.Where("user_id = ? AND product_id = ? AND size = ?", userID, req.ProductID, req.Size).
			First(&item).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
				return
			}
			item = models.CartItem{
				UserID:    userID,
				ProductID: req.ProductID,
				Size:      req.Size,
				Quantity:  req.Quantity,
				Price:     product.Price,
			}
			if err := db.Create(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
				return
			}
			c.JSON(http.StatusCreated, gin.H{"success": true, "data": item})
			return
		}

		item.Quantity += req.Quantity
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": item})
	}
}

// PUT /api/cart/:id
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		res := db.Model(&models.CartItem{}).
			Where("id = ? AND user_id = ?", c.Param("id"), middleware.UserID(c)).
			Update("quantity", req.Quantity)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "cart item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "cart item updated"})
	}
}

// DELETE /api/cart/:id
func RemoveCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Where("id = ? AND user_id = ?", c.Param("id"), middleware.UserID(c)).
			Delete(&models.CartItem{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "cart item not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "cart item removed"})
	}
}

// DELETE /api/cart
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Where("user_id = ?", middleware.UserID(c)).
			Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "cart cleared"})
	}
}
