package productControllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/cache"
	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

type ProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Quantity    int     `json:"quantity" binding:"gte=0"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Sizes       string  `json:"sizes"`
}

// GET /api/products
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Product{}).Where("status <> ?", models.ProductStatusInactive)

		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		if search := c.Query("search"); search != "" {
			query = query.Where("name LIKE ?", "%"+search+"%")
		}
		if seller := c.Query("seller"); seller != "" {
			query = query.Where("seller_id = ?", seller)
		}
		if min := c.Query("min_price"); min != "" {
			query = query.Where("price >= ?", min)
		}
		if max := c.Query("max_price"); max != "" {
			query = query.Where("price <= ?", max)
		}

		switch c.Query("sort") {
		case "price_asc":
			query = query.Order("price ASC")
		case "price_desc":
			query = query.Order("price DESC")
		case "rating":
			query = query.Order("rating DESC")
		case "popular":
			query = query.Order("purchase_count DESC")
		default:
			query = query.Order("created_at DESC")
		}

		var products []models.Product
		if err := query.Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
	}
}

// GET /api/products/featured
// Served from cache when available; a cache failure falls through to the DB.
func GetFeaturedProducts(db *gorm.DB, cc cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := cc.GenerateKey("products", "featured")

		if cached, err := cc.Get(ctx, key); err == nil && cached != "" {
			var products []models.Product
			if json.Unmarshal([]byte(cached), &products) == nil {
				c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
				return
			}
		}

		var products []models.Product
		if err := db.
			Where("status = ?", models.ProductStatusActive).
			Order("purchase_count DESC, rating DESC").
			Limit(20).
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		if payload, err := json.Marshal(products); err == nil {
			if err := cc.Set(ctx, key, payload, 5*time.Minute); err != nil {
				slog.Warn("featured products cache set failed", "error", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": products})
	}
}

// GET /api/products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.Preload("Seller").First(&product, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
	}
}

// GET /api/products/shop/:sellerId
func GetShopProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var seller models.User
		if err := db.First(&seller, "id = ?", c.Param("sellerId")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "shop not found"})
			return
		}

		var products []models.Product
		if err := db.
			Where("seller_id = ? AND status <> ?", seller.ID, models.ProductStatusInactive).
			Order("created_at DESC").
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		var followers int64
		db.Model(&models.Follow{}).Where("seller_id = ?", seller.ID).Count(&followers)

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"shop": gin.H{
				"id":          seller.ID,
				"name":        seller.ShopName,
				"description": seller.ShopDescription,
				"avatar":      seller.Avatar,
				"followers":   followers,
			},
			"products": products,
		}})
	}
}

// POST /api/products (seller)
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		product := models.Product{
			SellerID:    middleware.UserID(c),
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			Quantity:    input.Quantity,
			Category:    input.Category,
			Image:       input.Image,
			Sizes:       input.Sizes,
			Status:      models.ProductStatusActive,
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": product})
	}
}

// PUT /api/products/:id (seller, own product only)
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ? AND seller_id = ?", c.Param("id"), middleware.UserID(c)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "product not found"})
			return
		}

		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		updates := map[string]interface{}{
			"name":        input.Name,
			"description": input.Description,
			"price":       input.Price,
			"quantity":    input.Quantity,
			"category":    input.Category,
			"sizes":       input.Sizes,
		}
		if input.Image != "" {
			updates["image"] = input.Image
		}
		if input.Quantity > 0 && product.Status == models.ProductStatusSoldOut {
			updates["status"] = models.ProductStatusActive
		}

		if err := db.Model(&product).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
	}
}

// DELETE /api/products/:id (seller, own product only)
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Where("id = ? AND seller_id = ?", c.Param("id"), middleware.UserID(c)).
			Delete(&models.Product{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "product deleted"})
	}
}
