package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // placed, awaiting seller approval
	OrderStatusApproved  OrderStatus = "approved"  // seller approved, waiting for a shipper
	OrderStatusShipping  OrderStatus = "shipping"  // shipper accepted, on the way
	OrderStatusDelivered OrderStatus = "delivered" // buyer received the goods
	OrderStatusCancelled OrderStatus = "cancelled" // cancelled before delivery

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Order is one seller's fulfillment unit within a checkout. A cart spanning
// n sellers produces n orders.
type Order struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	BuyerID   string  `gorm:"not null;index" json:"buyer_id"`
	Buyer     User    `gorm:"foreignKey:BuyerID" json:"buyer"`
	SellerID  string  `gorm:"not null;index" json:"seller_id"`
	Seller    User    `gorm:"foreignKey:SellerID" json:"seller"`
	ShipperID *string `gorm:"index" json:"shipper_id"` // nil until a shipper accepts

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	TotalAmount     float64       `gorm:"not null" json:"total_amount"`
	ShippingFee     float64       `json:"shipping_fee"`
	Status          OrderStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentMethod   string        `gorm:"default:'cod'" json:"payment_method"`
	PaymentStatus   PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	ShippingAddress string        `gorm:"not null" json:"shipping_address"`
	CancelReason    string        `json:"cancel_reason"`
	DeliveryDate    *time.Time    `json:"delivery_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanCancel reports whether the order is still in a cancellable state.
func (o *Order) CanCancel() bool {
	return o.Status != OrderStatusDelivered && o.Status != OrderStatusCancelled
}

// OrderItem is immutable after creation; price and size are snapshotted from
// the product at checkout time.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `gorm:"not null" json:"price"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Size      string  `json:"size"`
}
