package models

import "time"

// Conversation is a persisted chat thread, independent of the socket
// transport used to relay new messages.
type Conversation struct {
	ID           uint                      `gorm:"primaryKey" json:"id"`
	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"participants"`
	Messages     []Message                 `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ConversationParticipant struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ConversationID uint   `gorm:"not null;index:idx_conv_user,unique" json:"conversation_id"`
	UserID         string `gorm:"not null;index:idx_conv_user,unique" json:"user_id"`
	User           User   `gorm:"foreignKey:UserID" json:"user"`
}

type Message struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ConversationID uint   `gorm:"not null;index" json:"conversation_id"`
	SenderID       string `gorm:"not null" json:"sender_id"`
	Sender         User   `gorm:"foreignKey:SenderID" json:"sender"`
	Body           string `gorm:"not null" json:"body"`

	CreatedAt time.Time `json:"created_at"`
}
