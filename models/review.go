package models

import "time"

type Review struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	UserID    string  `gorm:"not null;index" json:"user_id"`
	User      User    `gorm:"foreignKey:UserID" json:"user"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	OrderID   *uint   `json:"order_id"`
	Rating    int     `gorm:"not null" json:"rating"` // 1..5
	Comment   string  `json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
