package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	shipperControllers "github.com/nqminh/marketplace-api/controllers/shipper"
	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

// SetupShipperRoutes registers all /api/shipper endpoints.
func SetupShipperRoutes(api *gin.RouterGroup, db *gorm.DB) {
	shipper := api.Group("/shipper")
	shipper.Use(middleware.Protect(), middleware.Authorize(models.RoleShipper))
	{
		shipper.GET("/orders/available", shipperControllers.GetAvailableOrders(db))
		shipper.POST("/orders/:id/accept", shipperControllers.AcceptOrder(db))
		shipper.PUT("/shipments/:id/status", shipperControllers.UpdateDeliveryStatus(db))
		shipper.PUT("/shipments/:id/complete", shipperControllers.CompleteDelivery(db))
		shipper.PUT("/shipments/:id/cancel", shipperControllers.CancelDelivery(db))
		shipper.GET("/stats", shipperControllers.GetShipperStats(db))
	}
}
