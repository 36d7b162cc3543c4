package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	reviewControllers "github.com/nqminh/marketplace-api/controllers/review"
	userControllers "github.com/nqminh/marketplace-api/controllers/user"
	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

// SetupReviewRoutes registers all /api/reviews endpoints.
func SetupReviewRoutes(api *gin.RouterGroup, db *gorm.DB) {
	reviews := api.Group("/reviews")
	{
		reviews.GET("/product/:productId", reviewControllers.GetProductReviews(db))

		protected := reviews.Group("")
		protected.Use(middleware.Protect())
		{
			protected.POST("", reviewControllers.CreateReview(db))
			protected.PUT("/:id", reviewControllers.UpdateReview(db))
			protected.DELETE("/:id", reviewControllers.DeleteReview(db))
		}
	}
}

// SetupUserRoutes registers follow/like, wishlist, address book and voucher
// endpoints.
func SetupUserRoutes(api *gin.RouterGroup, db *gorm.DB) {
	users := api.Group("/users")
	users.Use(middleware.Protect())
	{
		users.POST("/:id/follow", userControllers.FollowSeller(db))
		users.DELETE("/:id/follow", userControllers.UnfollowSeller(db))
		users.GET("/:id/followers", userControllers.GetFollowers(db))
		users.POST("/products/:id/like", userControllers.LikeProduct(db))
		users.DELETE("/products/:id/like", userControllers.UnlikeProduct(db))
	}

	wishlist := api.Group("/wishlist")
	wishlist.Use(middleware.Protect())
	{
		wishlist.GET("", userControllers.GetWishlist(db))
		wishlist.POST("/:productId", userControllers.AddToWishlist(db))
		wishlist.DELETE("/:productId", userControllers.RemoveFromWishlist(db))
	}

	addresses := api.Group("/addresses")
	addresses.Use(middleware.Protect())
	{
		addresses.GET("", userControllers.GetAddresses(db))
		addresses.POST("", userControllers.CreateAddress(db))
		addresses.PUT("/:id", userControllers.UpdateAddress(db))
		addresses.DELETE("/:id", userControllers.DeleteAddress(db))
		addresses.PUT("/:id/default", userControllers.SetDefaultAddress(db))
	}

	vouchers := api.Group("/vouchers")
	vouchers.Use(middleware.Protect())
	{
		vouchers.POST("/apply", userControllers.ApplyVoucher(db))

		seller := vouchers.Group("")
		seller.Use(middleware.Authorize(models.RoleSeller, models.RoleAdmin))
		{
			seller.GET("", userControllers.GetVouchers(db))
			seller.POST("", userControllers.CreateVoucher(db))
			seller.DELETE("/:id", userControllers.DeleteVoucher(db))
		}
	}
}
