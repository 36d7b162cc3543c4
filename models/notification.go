package models

import "time"

type NotificationType string

const (
	NotificationOrderCreated   NotificationType = "order_created"
	NotificationOrderApproved  NotificationType = "order_approved"
	NotificationOrderCancelled NotificationType = "order_cancelled"
	NotificationOrderDelivered NotificationType = "order_delivered"
)

// Notification is an append-only per-user event record. Normal flow only
// ever flips IsRead.
type Notification struct {
	ID      uint             `gorm:"primaryKey" json:"id"`
	UserID  string           `gorm:"not null;index" json:"user_id"`
	OrderID *uint            `json:"order_id"`
	Type    NotificationType `gorm:"type:VARCHAR(30)" json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	IsRead  bool             `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time `json:"created_at"`
}
