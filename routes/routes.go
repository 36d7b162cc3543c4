package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/cache"
	"github.com/nqminh/marketplace-api/config"
	chatControllers "github.com/nqminh/marketplace-api/controllers/chat"
)

// SetupRoutes is the single entry point that wires every route group under
// /api plus the chat websocket endpoint.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, cc cache.Cache, hub *chatControllers.Hub) {
	api := r.Group("/api")

	SetupAuthRoutes(api, db)
	SetupProductRoutes(api, db, cc)
	SetupCartRoutes(api, db)
	SetupOrderRoutes(api, db, cfg)
	SetupReviewRoutes(api, db)
	SetupUserRoutes(api, db)
	SetupBannerRoutes(api, db, cc)
	SetupAnalyticsRoutes(api, db)
	SetupShipperRoutes(api, db)
	SetupChatRoutes(api, db, hub)
	SetupPaymentRoutes(api, db)

	// websocket endpoint for real-time chat
	r.GET("/ws/chat", hub.ServeWS(db))
}
