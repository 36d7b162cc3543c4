package models

import (
	"time"

	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusSoldOut  ProductStatus = "sold_out"
)

type Product struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID    string `gorm:"not null;index" json:"seller_id"`
	Seller      User   `gorm:"foreignKey:SellerID" json:"seller"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`

	Price    float64 `gorm:"not null" json:"price"`
	Quantity int     `gorm:"not null;default:0" json:"quantity"` // stock on hand, never negative
	Category string  `gorm:"index" json:"category"`
	Image    string  `json:"image"`
	Sizes    string  `json:"sizes"` // comma separated, e.g. "S,M,L"

	Rating        float64 `gorm:"default:0" json:"rating"`  // mean of reviews, 1 decimal
	Reviews       int     `gorm:"default:0" json:"reviews"` // review count
	PurchaseCount int     `gorm:"default:0" json:"purchase_count"`
	Likes         int     `gorm:"default:0" json:"likes"`

	Status ProductStatus `gorm:"type:VARCHAR(20);default:'active'" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
