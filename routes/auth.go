package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/auth"
	"github.com/nqminh/marketplace-api/middleware"
)

// SetupAuthRoutes registers all /api/auth endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, db *gorm.DB) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", auth.Register(db))
		authGroup.POST("/login", auth.Login(db))
		authGroup.POST("/facebook", auth.FacebookLogin(db))

		protected := authGroup.Group("")
		protected.Use(middleware.Protect())
		{
			protected.GET("/profile", auth.GetProfile(db))
			protected.PUT("/profile", auth.UpdateProfile(db))
			protected.PUT("/change-password", auth.ChangePassword(db))
		}
	}
}
