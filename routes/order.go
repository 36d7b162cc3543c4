package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/config"
	cartControllers "github.com/nqminh/marketplace-api/controllers/cart"
	orderControllers "github.com/nqminh/marketplace-api/controllers/order"
	"github.com/nqminh/marketplace-api/middleware"
)

// SetupCartRoutes registers all /api/cart endpoints.
func SetupCartRoutes(api *gin.RouterGroup, db *gorm.DB) {
	cart := api.Group("/cart")
	cart.Use(middleware.Protect())
	{
		cart.GET("", cartControllers.GetCart(db))
		cart.POST("", cartControllers.AddToCart(db))
		cart.PUT("/:id", cartControllers.UpdateCartItem(db))
		cart.DELETE("/:id", cartControllers.RemoveCartItem(db))
		cart.DELETE("", cartControllers.ClearCart(db))
	}
}

// SetupOrderRoutes registers all /api/orders endpoints.
func SetupOrderRoutes(api *gin.RouterGroup, db *gorm.DB, cfg config.Config) {
	orders := api.Group("/orders")
	orders.Use(middleware.Protect())
	{
		orders.POST("", orderControllers.CreateOrderHandler(db, cfg.ShippingFee))
		orders.GET("/my-purchases", orderControllers.GetMyPurchases(db))
		orders.GET("/my-sales", orderControllers.GetMySales(db))

		orders.GET("/notifications", orderControllers.GetNotifications(db))
		orders.PUT("/notifications/read-all", orderControllers.MarkAllNotificationsRead(db))
		orders.PUT("/notifications/:id/read", orderControllers.MarkNotificationRead(db))

		orders.GET("/:id", orderControllers.GetOrderByID(db))
		orders.PUT("/:id/approve", orderControllers.ApproveOrderHandler(db))
		orders.PUT("/:id/cancel", orderControllers.CancelOrderHandler(db))
	}
}
