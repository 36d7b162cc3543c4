package models

import "time"

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusPaid    TransactionStatus = "paid"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// PaymentTransaction tracks one gateway payment attempt for an order.
type PaymentTransaction struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OrderID   uint   `gorm:"not null;index" json:"order_id"`
	RequestID string `gorm:"unique;not null" json:"request_id"`
	Provider  string `gorm:"default:'momo'" json:"provider"`

	Amount     float64           `gorm:"not null" json:"amount"`
	Status     TransactionStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PayURL     string            `json:"pay_url"`
	ResultCode int               `json:"result_code"`
	Message    string            `json:"message"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
