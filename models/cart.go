package models

import "time"

// CartItem is one independent cart row. The uniqueness key is
// (user_id, product_id, size); an absent size merges only with other
// absent-size rows for the same product.
type CartItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	UserID    string  `gorm:"not null;index" json:"user_id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
	Size      string  `json:"size"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `json:"price"` // snapshot of product price at add time

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
