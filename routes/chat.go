package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	chatControllers "github.com/nqminh/marketplace-api/controllers/chat"
	paymentControllers "github.com/nqminh/marketplace-api/controllers/payment"
	"github.com/nqminh/marketplace-api/middleware"
)

// SetupChatRoutes registers all /api/chat endpoints.
func SetupChatRoutes(api *gin.RouterGroup, db *gorm.DB, hub *chatControllers.Hub) {
	chat := api.Group("/chat")
	chat.Use(middleware.Protect())
	{
		chat.GET("/conversations", chatControllers.GetConversations(db))
		chat.POST("/conversations", chatControllers.CreateConversation(db))
		chat.GET("/conversations/:id/messages", chatControllers.GetMessages(db))
		chat.POST("/conversations/:id/messages", chatControllers.SendMessage(db, hub))
	}
}

// SetupPaymentRoutes registers /api/payment plus the public MoMo webhooks.
func SetupPaymentRoutes(api *gin.RouterGroup, db *gorm.DB) {
	payment := api.Group("/payment")
	payment.Use(middleware.Protect())
	{
		payment.POST("/momo/create", paymentControllers.CreateMomoPayment(db))
		payment.GET("/status/:orderId", paymentControllers.GetPaymentStatus(db))
	}

	// Gateway webhooks authenticate by HMAC signature, not JWT.
	momo := api.Group("/momo")
	{
		momo.POST("/callback", paymentControllers.MomoCallback(db))
		momo.POST("/ipn", paymentControllers.MomoIPN(db))
	}
}
