package models

import "time"

type BannerStatus string

const (
	BannerStatusPending  BannerStatus = "pending"
	BannerStatusApproved BannerStatus = "approved"
	BannerStatusRejected BannerStatus = "rejected"
)

// Banner is a promotional asset. Sellers submit, admins approve; only
// approved banners are visible storefront-wide.
type Banner struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	SellerID     string       `gorm:"index" json:"seller_id"`
	Title        string       `json:"title"`
	ImageURL     string       `gorm:"not null" json:"image_url"`
	LinkURL      string       `json:"link_url"`
	Status       BannerStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	RejectReason string       `json:"reject_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
