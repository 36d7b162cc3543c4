package chatControllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

type CreateConversationRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// findOrCreateConversation looks for an existing conversation containing
// exactly this pair via the membership table, creating one when absent.
func findOrCreateConversation(db *gorm.DB, userID, participantID string) (*models.Conversation, error) {
	var conversationID uint
	err := db.Model(&models.ConversationParticipant{}).
		Select("conversation_participants.conversation_id").
		Joins("JOIN conversation_participants other ON other.conversation_id = conversation_participants.conversation_id AND other.user_id = ?", participantID).
		Where("conversation_participants.user_id = ?", userID).
		Limit(1).
		Scan(&conversationID).Error
	if err != nil {
		return nil, err
	}

	var conversation models.Conversation
	if conversationID != 0 {
		if err := db.Preload("Participants.User").First(&conversation, conversationID).Error; err != nil {
			return nil, err
		}
		return &conversation, nil
	}

	conversation = models.Conversation{
		Participants: []models.ConversationParticipant{
			{UserID: userID},
			{UserID: participantID},
		},
	}
	if err := db.Create(&conversation).Error; err != nil {
		return nil, err
	}
	db.Preload("Participants.User").First(&conversation, conversation.ID)
	return &conversation, nil
}

// GET /api/chat/conversations
func GetConversations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var ids []uint
		if err := db.Model(&models.ConversationParticipant{}).
			Where("user_id = ?", userID).
			Pluck("conversation_id", &ids).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		var conversations []models.Conversation
		if len(ids) > 0 {
			if err := db.
				Preload("Participants.User").
				Where("id IN ?", ids).
				Order("updated_at DESC").
				Find(&conversations).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": conversations})
	}
}

// POST /api/chat/conversations
func CreateConversation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var req CreateConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		if req.ParticipantID == userID {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "cannot start a conversation with yourself"})
			return
		}

		var participant models.User
		if err := db.First(&participant, "id = ?", req.ParticipantID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user not found"})
			return
		}

		conversation, err := findOrCreateConversation(db, userID, req.ParticipantID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": conversation})
	}
}

// GET /api/chat/conversations/:id/messages
// Ordering is whatever the persisted rows provide: created_at ascending.
func GetMessages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var membership models.ConversationParticipant
		if err := db.First(&membership, "conversation_id = ? AND user_id = ?", c.Param("id"), userID).Error; err != nil {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "not a participant of this conversation"})
			return
		}

		var messages []models.Message
		if err := db.
			Where("conversation_id = ?", c.Param("id")).
			Preload("Sender").
			Order("created_at ASC").
			Find(&messages).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": messages})
	}
}

// POST /api/chat/conversations/:id/messages
// Persists first; the socket push is a best-effort extra on top of the REST
// write. A client that misses the event still sees the row on next fetch.
func SendMessage(db *gorm.DB, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var membership models.ConversationParticipant
		if err := db.First(&membership, "conversation_id = ? AND user_id = ?", c.Param("id"), userID).Error; err != nil {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "not a participant of this conversation"})
			return
		}

		var req SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		message := models.Message{
			ConversationID: membership.ConversationID,
			SenderID:       userID,
			Body:           req.Body,
		}
		if err := db.Create(&message).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		db.Model(&models.Conversation{}).Where("id = ?", membership.ConversationID).
			Update("updated_at", message.CreatedAt)
		db.Preload("Sender").First(&message, message.ID)

		if payload, err := json.Marshal(message); err == nil {
			hub.Broadcast(membership.ConversationID, Event{
				Event:          "receive_message",
				ConversationID: membership.ConversationID,
				SenderID:       userID,
				Data:           payload,
			}, nil)
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": message})
	}
}
