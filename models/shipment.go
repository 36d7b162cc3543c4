package models

import "time"

type ShipmentStatus string

const (
	ShipmentStatusAssigned  ShipmentStatus = "assigned"
	ShipmentStatusPickedUp  ShipmentStatus = "picked_up"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
	ShipmentStatusFailed    ShipmentStatus = "failed"
	ShipmentStatusCancelled ShipmentStatus = "cancelled"
)

// Shipment is the delivery record owned by the shipper who accepted the
// order. ShipperID must match the order's shipper while the shipment is
// active.
type Shipment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OrderID   uint   `gorm:"not null;index" json:"order_id"`
	Order     Order  `gorm:"foreignKey:OrderID" json:"order"`
	ShipperID string `gorm:"not null;index" json:"shipper_id"`
	Shipper   User   `gorm:"foreignKey:ShipperID" json:"shipper"`

	Status       ShipmentStatus `gorm:"type:VARCHAR(20);default:'assigned'" json:"status"`
	PickupTime   *time.Time     `json:"pickup_time"`
	DeliveryTime *time.Time     `json:"delivery_time"`
	CancelReason string         `json:"cancel_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
