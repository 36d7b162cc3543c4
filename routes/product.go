package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/cache"
	productControllers "github.com/nqminh/marketplace-api/controllers/product"
	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

// SetupProductRoutes registers all /api/products endpoints.
func SetupProductRoutes(api *gin.RouterGroup, db *gorm.DB, cc cache.Cache) {
	products := api.Group("/products")
	{
		// Public browsing; OptionalAuth keeps anonymous access working.
		products.GET("", middleware.OptionalAuth(), productControllers.GetProducts(db))
		products.GET("/featured", productControllers.GetFeaturedProducts(db, cc))
		products.GET("/shop/:sellerId", productControllers.GetShopProducts(db))

		seller := products.Group("")
		seller.Use(middleware.Protect(), middleware.Authorize(models.RoleSeller, models.RoleAdmin))
		{
			seller.POST("", productControllers.CreateProduct(db))
			seller.GET("/export", productControllers.ExportProductsToExcel(db))
			seller.PUT("/:id", productControllers.UpdateProduct(db))
			seller.DELETE("/:id", productControllers.DeleteProduct(db))
		}

		// Registered after /featured, /shop, /export so those match first.
		products.GET("/:id", productControllers.GetProductByID(db))
	}
}
