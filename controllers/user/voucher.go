package userControllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

type CreateVoucherRequest struct {
	Code            string    `json:"code" binding:"required"`
	DiscountPercent float64   `json:"discount_percent" binding:"gte=0,lte=100"`
	DiscountAmount  float64   `json:"discount_amount" binding:"gte=0"`
	MinOrderValue   float64   `json:"min_order_value" binding:"gte=0"`
	UsageLimit      int       `json:"usage_limit" binding:"gte=0"`
	ExpiresAt       time.Time `json:"expires_at" binding:"required"`
}

type ApplyVoucherRequest struct {
	Code       string  `json:"code" binding:"required"`
	OrderTotal float64 `json:"order_total" binding:"required,gt=0"`
	SellerID   string  `json:"seller_id"`
}

// GET /api/vouchers (seller: own vouchers)
func GetVouchers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vouchers []models.Voucher
		if err := db.
			Where("seller_id = ?", middleware.UserID(c)).
			Order("created_at DESC").
			Find(&vouchers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": vouchers})
	}
}

// POST /api/vouchers (seller)
func CreateVoucher(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateVoucherRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		if req.DiscountPercent == 0 && req.DiscountAmount == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "either discount_percent or discount_amount is required"})
			return
		}

		voucher := models.Voucher{
			Code:            strings.ToUpper(strings.TrimSpace(req.Code)),
			SellerID:        middleware.UserID(c),
			DiscountPercent: req.DiscountPercent,
			DiscountAmount:  req.DiscountAmount,
			MinOrderValue:   req.MinOrderValue,
			UsageLimit:      req.UsageLimit,
			ExpiresAt:       req.ExpiresAt,
		}
		if err := db.Create(&voucher).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "voucher code already exists"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": voucher})
	}
}

// DELETE /api/vouchers/:id (seller, own voucher)
func DeleteVoucher(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Where("id = ? AND seller_id = ?", c.Param("id"), middleware.UserID(c)).
			Delete(&models.Voucher{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "voucher not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "voucher deleted"})
	}
}

// POST /api/vouchers/apply (buyer)
// Validates the code and returns the computed discount; the usage count
// moves only when a voucher actually applies.
func ApplyVoucher(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ApplyVoucherRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		var voucher models.Voucher
		if err := db.First(&voucher, "code = ?", strings.ToUpper(strings.TrimSpace(req.Code))).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "voucher not found"})
			return
		}

		now := time.Now()
		switch {
		case voucher.Expired(now):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "voucher has expired"})
			return
		case voucher.Exhausted():
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "voucher usage limit reached"})
			return
		case req.OrderTotal < voucher.MinOrderValue:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "order total below voucher minimum"})
			return
		case voucher.SellerID != "" && voucher.SellerID != req.SellerID:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "voucher does not apply to this seller"})
			return
		}

		discount := voucher.DiscountAmount
		if voucher.DiscountPercent > 0 {
			discount = req.OrderTotal * voucher.DiscountPercent / 100
		}
		if discount > req.OrderTotal {
			discount = req.OrderTotal
		}

		// Conditional update so a concurrent apply cannot exceed the limit.
		query := db.Model(&voucher).Where("id = ?", voucher.ID)
		if voucher.UsageLimit > 0 {
			query = query.Where("used_count < ?", voucher.UsageLimit)
		}
		res := query.Update("used_count", gorm.Expr("used_count + 1"))
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "voucher usage limit reached"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"voucher":  voucher,
			"discount": discount,
			"total":    req.OrderTotal - discount,
		}})
	}
}
