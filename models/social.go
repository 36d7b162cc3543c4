package models

import "time"

// WishlistItem is one saved product per (user, product).
type WishlistItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	UserID    string  `gorm:"not null;index:idx_wishlist_user_product,unique" json:"user_id"`
	ProductID uint    `gorm:"not null;index:idx_wishlist_user_product,unique" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`

	CreatedAt time.Time `json:"created_at"`
}

// Follow links a follower to a seller they follow.
type Follow struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	FollowerID string `gorm:"not null;index:idx_follow_pair,unique" json:"follower_id"`
	SellerID   string `gorm:"not null;index:idx_follow_pair,unique" json:"seller_id"`

	CreatedAt time.Time `json:"created_at"`
}

// ProductLike records one like per (user, product); Product.Likes is the
// denormalized count.
type ProductLike struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    string `gorm:"not null;index:idx_like_pair,unique" json:"user_id"`
	ProductID uint   `gorm:"not null;index:idx_like_pair,unique" json:"product_id"`

	CreatedAt time.Time `json:"created_at"`
}
