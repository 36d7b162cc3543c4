package models

import "time"

// Voucher is a discount code. SellerID empty means storefront-wide
// (admin-issued); otherwise it applies only to that seller's orders.
type Voucher struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	Code            string  `gorm:"unique;not null" json:"code"`
	SellerID        string  `gorm:"index" json:"seller_id"`
	DiscountPercent float64 `json:"discount_percent"` // 0 when amount-based
	DiscountAmount  float64 `json:"discount_amount"`  // 0 when percent-based
	MinOrderValue   float64 `json:"min_order_value"`
	UsageLimit      int     `json:"usage_limit"` // 0 = unlimited
	UsedCount       int     `gorm:"default:0" json:"used_count"`

	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the voucher can no longer be applied.
func (v *Voucher) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}

// Exhausted reports whether the usage limit has been reached.
func (v *Voucher) Exhausted() bool {
	return v.UsageLimit > 0 && v.UsedCount >= v.UsageLimit
}
