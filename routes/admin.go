package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/cache"
	adminControllers "github.com/nqminh/marketplace-api/controllers/admin"
	analyticsControllers "github.com/nqminh/marketplace-api/controllers/analytics"
	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

// SetupBannerRoutes registers /api/banners: public listing, seller upload,
// admin approval workflow.
func SetupBannerRoutes(api *gin.RouterGroup, db *gorm.DB, cc cache.Cache) {
	banners := api.Group("/banners")
	{
		banners.GET("", adminControllers.GetActiveBanners(db, cc))

		seller := banners.Group("")
		seller.Use(middleware.Protect(), middleware.Authorize(models.RoleSeller, models.RoleAdmin))
		{
			seller.POST("", adminControllers.UploadBanner(db))
		}

		admin := banners.Group("")
		admin.Use(middleware.Protect(), middleware.Authorize(models.RoleAdmin))
		{
			admin.GET("/pending", adminControllers.GetPendingBanners(db))
			admin.PUT("/:id/approve", adminControllers.ApproveBanner(db, cc))
			admin.PUT("/:id/reject", adminControllers.RejectBanner(db))
			admin.DELETE("/:id", adminControllers.DeleteBanner(db, cc))
		}
	}
}

// SetupAnalyticsRoutes registers /api/analytics endpoints.
func SetupAnalyticsRoutes(api *gin.RouterGroup, db *gorm.DB) {
	analytics := api.Group("/analytics")
	analytics.Use(middleware.Protect(), middleware.Authorize(models.RoleSeller, models.RoleAdmin))
	{
		analytics.GET("/seller", analyticsControllers.GetSellerAnalytics(db))
	}
}
