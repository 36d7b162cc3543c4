package shipperControllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

// -------- Request Structs --------

type UpdateShipmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CompleteDeliveryRequest struct {
	PaymentReceived bool `json:"payment_received"`
}

type CancelDeliveryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

var errOrderNotShipping = errors.New("order is no longer shipping")

func mapShipmentStatus(status string) (models.ShipmentStatus, error) {
	switch models.ShipmentStatus(status) {
	case models.ShipmentStatusPickedUp:
		return models.ShipmentStatusPickedUp, nil
	case models.ShipmentStatusInTransit:
		return models.ShipmentStatusInTransit, nil
	case models.ShipmentStatusFailed:
		return models.ShipmentStatusFailed, nil
	default:
		return "", errors.New("invalid shipment status")
	}
}

func notify(db *gorm.DB, userID string, orderID *uint, typ models.NotificationType, title, message string) {
	err := db.Create(&models.Notification{
		UserID:  userID,
		OrderID: orderID,
		Type:    typ,
		Title:   title,
		Message: message,
	}).Error
	if err != nil {
		slog.Warn("shipper notification failed", "order_id", orderID, "error", err)
	}
}

// -------- Handlers --------

// GET /api/shipper/orders/available
// Approved orders nobody has claimed yet are visible to every shipper.
func GetAvailableOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Where("status = ? AND shipper_id IS NULL", models.OrderStatusApproved).
			Preload("Items").
			Preload("Seller").
			Order("created_at ASC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
	}
}

// POST /api/shipper/orders/:id/accept
// First writer wins: the compound WHERE only matches an order that is still
// approved and unclaimed, so a concurrent accept loses on RowsAffected.
func AcceptOrder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipperID := middleware.UserID(c)
		orderID := c.Param("id")

		var shipment models.Shipment
		err := db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.Order{}).
				Where("id = ? AND status = ? AND shipper_id IS NULL", orderID, models.OrderStatusApproved).
				Updates(map[string]interface{}{
					"shipper_id": shipperID,
					"status":     models.OrderStatusShipping,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errors.New("order not available")
			}

			now := time.Now()
			var order models.Order
			if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
				return err
			}
			shipment = models.Shipment{
				OrderID:    order.ID,
				ShipperID:  shipperID,
				Status:     models.ShipmentStatusAssigned,
				PickupTime: &now,
			}
			return tx.Create(&shipment).Error
		})
		if err != nil {
			if err.Error() == "order not available" {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "order not available or already taken"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		var order models.Order
		if err := db.Preload("Items").Preload("Seller").First(&order, "id = ?", orderID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"order":    order,
			"shipment": shipment,
		}})
	}
}

// PUT /api/shipper/shipments/:id/status
func UpdateDeliveryStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateShipmentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		newStatus, err := mapShipmentStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		var shipment models.Shipment
		if err := db.First(&shipment, "id = ? AND shipper_id = ?", c.Param("id"), middleware.UserID(c)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "shipment not found"})
			return
		}

		if err := db.Model(&shipment).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		// Mirror onto the order; already shipping after accept, so this is
		// effectively idempotent.
		if newStatus == models.ShipmentStatusInTransit {
			db.Model(&models.Order{}).Where("id = ?", shipment.OrderID).
				Update("status", models.OrderStatusShipping)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": shipment})
	}
}

// PUT /api/shipper/shipments/:id/complete
// Stock was already decremented at checkout; completion only flips the
// product to sold_out when nothing is left.
func CompleteDelivery(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CompleteDeliveryRequest
		_ = c.ShouldBindJSON(&req)

		shipperID := middleware.UserID(c)

		var shipment models.Shipment
		if err := db.First(&shipment, "id = ? AND shipper_id = ?", c.Param("id"), shipperID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "shipment not found"})
			return
		}
		if shipment.Status == models.ShipmentStatusDelivered || shipment.Status == models.ShipmentStatusCancelled {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": fmt.Sprintf("cannot complete a shipment in state %q", shipment.Status)})
			return
		}

		var order models.Order
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Preload("Items").First(&order, "id = ?", shipment.OrderID).Error; err != nil {
				return err
			}

			now := time.Now()
			paymentStatus := order.PaymentStatus
			if req.PaymentReceived {
				paymentStatus = models.PaymentStatusPaid
			}

			// The order may have been cancelled while on the road; the
			// conditional update refuses to resurrect it.
			res := tx.Model(&models.Order{}).
				Where("id = ? AND status = ?", order.ID, models.OrderStatusShipping).
				Updates(map[string]interface{}{
					"status":         models.OrderStatusDelivered,
					"payment_status": paymentStatus,
					"delivery_date":  now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errOrderNotShipping
			}

			if err := tx.Model(&shipment).Updates(map[string]interface{}{
				"status":        models.ShipmentStatusDelivered,
				"delivery_time": now,
			}).Error; err != nil {
				return err
			}

			for _, item := range order.Items {
				if err := tx.Model(&models.Product{}).
					Where("id = ? AND quantity = 0", item.ProductID).
					Update("status", models.ProductStatusSoldOut).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, errOrderNotShipping) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		notify(db, order.BuyerID, &order.ID, models.NotificationOrderDelivered,
			"Order delivered", fmt.Sprintf("Order #%d has been delivered", order.ID))
		notify(db, order.SellerID, &order.ID, models.NotificationOrderDelivered,
			"Order delivered", fmt.Sprintf("Order #%d was delivered to the buyer", order.ID))

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"order":    order,
			"shipment": shipment,
		}})
	}
}

// PUT /api/shipper/shipments/:id/cancel
// Releases the order back to the pool for another shipper.
func CancelDelivery(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CancelDeliveryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "reason is required"})
			return
		}

		var shipment models.Shipment
		if err := db.First(&shipment, "id = ? AND shipper_id = ?", c.Param("id"), middleware.UserID(c)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "shipment not found"})
			return
		}
		if shipment.Status == models.ShipmentStatusDelivered || shipment.Status == models.ShipmentStatusCancelled {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": fmt.Sprintf("cannot cancel a shipment in state %q", shipment.Status)})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&shipment).Updates(map[string]interface{}{
				"status":        models.ShipmentStatusCancelled,
				"cancel_reason": req.Reason,
			}).Error; err != nil {
				return err
			}
			return tx.Model(&models.Order{}).Where("id = ?", shipment.OrderID).
				Updates(map[string]interface{}{
					"shipper_id": nil,
					"status":     models.OrderStatusApproved,
				}).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "delivery cancelled, order returned to pool"})
	}
}

// GET /api/shipper/stats
func GetShipperStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipperID := middleware.UserID(c)

		var delivered, failed, cancelled int64
		db.Model(&models.Shipment{}).Where("shipper_id = ? AND status = ?", shipperID, models.ShipmentStatusDelivered).Count(&delivered)
		db.Model(&models.Shipment{}).Where("shipper_id = ? AND status = ?", shipperID, models.ShipmentStatusFailed).Count(&failed)
		db.Model(&models.Shipment{}).Where("shipper_id = ? AND status = ?", shipperID, models.ShipmentStatusCancelled).Count(&cancelled)

		var active []models.Shipment
		db.Where("shipper_id = ? AND status IN ?", shipperID, []models.ShipmentStatus{
			models.ShipmentStatusAssigned,
			models.ShipmentStatusPickedUp,
			models.ShipmentStatusInTransit,
		}).Preload("Order").Find(&active)

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"delivered": delivered,
			"failed":    failed,
			"cancelled": cancelled,
			"active":    active,
		}})
	}
}
