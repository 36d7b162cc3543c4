package models

import "time"

type Role string

const (
	RoleBuyer   Role = "buyer"
	RoleSeller  Role = "seller"
	RoleShipper Role = "shipper"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar"`
	Role     Role   `gorm:"type:VARCHAR(20);default:'buyer'" json:"role"`
	Provider string `gorm:"default:'local'" json:"provider"` // "local" or "facebook"

	// Seller storefront fields, empty for other roles
	ShopName        string `json:"shop_name"`
	ShopDescription string `json:"shop_description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Address is one entry in a user's address book.
type Address struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    string `gorm:"not null;index" json:"user_id"`
	Recipient string `gorm:"not null" json:"recipient"`
	Phone     string `gorm:"not null" json:"phone"`
	Street    string `json:"street"`
	Ward      string `json:"ward"`
	District  string `json:"district"`
	City      string `json:"city"`
	IsDefault bool   `gorm:"default:false" json:"is_default"`

	CreatedAt time.Time `json:"created_at"`
}
