package analyticsControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

type monthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

type topProduct struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	UnitsSold int64   `json:"units_sold"`
	Revenue   float64 `json:"revenue"`
}

// GET /api/analytics/seller
// Revenue counts delivered orders only; pending/cancelled orders appear in
// the status breakdown but never in revenue.
func GetSellerAnalytics(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := middleware.UserID(c)

		var totalRevenue float64
		db.Model(&models.Order{}).
			Where("seller_id = ? AND status = ?", sellerID, models.OrderStatusDelivered).
			Select("COALESCE(SUM(total_amount), 0)").
			Scan(&totalRevenue)

		statusCounts := make(map[string]int64)
		for _, status := range []models.OrderStatus{
			models.OrderStatusPending,
			models.OrderStatusApproved,
			models.OrderStatusShipping,
			models.OrderStatusDelivered,
			models.OrderStatusCancelled,
		} {
			var count int64
			db.Model(&models.Order{}).
				Where("seller_id = ? AND status = ?", sellerID, status).
				Count(&count)
			statusCounts[string(status)] = count
		}

		monthExpr := "to_char(orders.created_at, 'YYYY-MM')"
		if db.Dialector.Name() == "sqlite" {
			monthExpr = "strftime('%Y-%m', orders.created_at)"
		}

		var monthly []monthlyRevenue
		db.Model(&models.Order{}).
			Select(monthExpr + " AS month, COALESCE(SUM(total_amount), 0) AS revenue, COUNT(*) AS orders").
			Where("seller_id = ? AND status = ?", sellerID, models.OrderStatusDelivered).
			Group("month").
			Order("month ASC").
			Scan(&monthly)

		var top []topProduct
		db.Table("order_items").
			Select("order_items.product_id AS product_id, order_items.name AS name, SUM(order_items.quantity) AS units_sold, SUM(order_items.price * order_items.quantity) AS revenue").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.seller_id = ? AND orders.status = ?", sellerID, models.OrderStatusDelivered).
			Group("order_items.product_id, order_items.name").
			Order("units_sold DESC").
			Limit(10).
			Scan(&top)

		var followers int64
		db.Model(&models.Follow{}).Where("seller_id = ?", sellerID).Count(&followers)

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"total_revenue":   totalRevenue,
			"orders_by_state": statusCounts,
			"monthly_revenue": monthly,
			"top_products":    top,
			"followers":       followers,
		}})
	}
}
