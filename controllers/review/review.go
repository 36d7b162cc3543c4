package reviewControllers

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

type CreateReviewRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	OrderID   *uint  `json:"order_id"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// RecomputeProductRating refreshes the product's rating (mean, 1 decimal)
// and review count from a full aggregate query. Always recomputed, never
// incrementally maintained.
func RecomputeProductRating(db *gorm.DB, productID uint) error {
	var agg struct {
		Avg   float64
		Count int64
	}
	if err := db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&agg).Error; err != nil {
		return err
	}

	rating := math.Round(agg.Avg*10) / 10

	return db.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating":  rating,
			"reviews": agg.Count,
		}).Error
}

// POST /api/reviews
func CreateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var req CreateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", req.ProductID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "product not found"})
			return
		}

		// One review per (user, product): a second submission updates the
		// existing row.
		var review models.Review
		err := db.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&review).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			review = models.Review{
				UserID:    userID,
				ProductID: req.ProductID,
				OrderID:   req.OrderID,
				Rating:    req.Rating,
				Comment:   req.Comment,
			}
			if err := db.Create(&review).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
				return
			}
		} else {
			review.Rating = req.Rating
			review.Comment = req.Comment
			if err := db.Save(&review).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
				return
			}
		}

		if err := RecomputeProductRating(db, req.ProductID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": review})
	}
}

// PUT /api/reviews/:id
func UpdateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		var review models.Review
		if err := db.First(&review, "id = ? AND user_id = ?", c.Param("id"), middleware.UserID(c)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "review not found"})
			return
		}

		review.Rating = req.Rating
		review.Comment = req.Comment
		if err := db.Save(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		if err := RecomputeProductRating(db, review.ProductID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": review})
	}
}

// DELETE /api/reviews/:id
func DeleteReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var review models.Review
		if err := db.First(&review, "id = ? AND user_id = ?", c.Param("id"), middleware.UserID(c)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "review not found"})
			return
		}

		if err := db.Delete(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		if err := RecomputeProductRating(db, review.ProductID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "review deleted"})
	}
}

// GET /api/reviews/product/:productId
func GetProductReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reviews []models.Review
		if err := db.
			Where("product_id = ?", c.Param("productId")).
			Preload("User").
			Order("created_at DESC").
			Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": reviews})
	}
}
