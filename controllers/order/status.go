package orderControllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// -------- Core Logic --------

// ApproveOrder moves pending -> approved. Only the order's seller may do it.
func ApproveOrder(db *gorm.DB, orderID, actorID string) (*models.Order, int, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusNotFound, errors.New("order not found")
		}
		return nil, http.StatusInternalServerError, err
	}

	if order.SellerID != actorID {
		return nil, http.StatusForbidden, errors.New("only the seller can approve this order")
	}
	if order.Status != models.OrderStatusPending {
		return nil, http.StatusBadRequest, fmt.Errorf("cannot approve an order in state %q", order.Status)
	}

	if err := db.Model(&order).Update("status", models.OrderStatusApproved).Error; err != nil {
		return nil, http.StatusInternalServerError, err
	}

	if err := notify(db, order.BuyerID, &order.ID, models.NotificationOrderApproved,
		"Order approved",
		fmt.Sprintf("Order #%d was approved by the seller", order.ID),
	); err != nil {
		slog.Warn("approve notification failed", "order_id", order.ID, "error", err)
	}

	return &order, http.StatusOK, nil
}

// CancelOrder cancels from any non-terminal state and restores each line's
// stock. Purchase count is floored at zero even if other orders already
// drained it.
func CancelOrder(db *gorm.DB, orderID, actorID, reason string) (*models.Order, int, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusNotFound, errors.New("order not found")
		}
		return nil, http.StatusInternalServerError, err
	}

	if order.BuyerID != actorID && order.SellerID != actorID {
		return nil, http.StatusForbidden, errors.New("not your order")
	}
	if !order.CanCancel() {
		return nil, http.StatusBadRequest, fmt.Errorf("cannot cancel an order in state %q", order.Status)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"status":        models.OrderStatusCancelled,
			"cancel_reason": reason,
		}).Error; err != nil {
			return err
		}

		for _, item := range order.Items {
			// CASE keeps the floor portable across postgres and the sqlite
			// driver used in tests.
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				Updates(map[string]interface{}{
					"quantity": gorm.Expr("quantity + ?", item.Quantity),
					"purchase_count": gorm.Expr(
						"CASE WHEN purchase_count >= ? THEN purchase_count - ? ELSE 0 END",
						item.Quantity, item.Quantity,
					),
				}).Error; err != nil {
				return err
			}
		}

		// A shipment already on the road is pulled back with the order.
		return tx.Model(&models.Shipment{}).
			Where("order_id = ? AND status NOT IN ?", order.ID, []models.ShipmentStatus{
				models.ShipmentStatusDelivered,
				models.ShipmentStatusCancelled,
			}).
			Updates(map[string]interface{}{
				"status":        models.ShipmentStatusCancelled,
				"cancel_reason": "order cancelled",
			}).Error
	})
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	// Whoever did not act receives the notification.
	recipient := order.SellerID
	if actorID == order.SellerID {
		recipient = order.BuyerID
	}
	message := fmt.Sprintf("Order #%d was cancelled", order.ID)
	if reason != "" {
		message += ": " + reason
	}
	if err := notify(db, recipient, &order.ID, models.NotificationOrderCancelled, "Order cancelled", message); err != nil {
		slog.Warn("cancel notification failed", "order_id", order.ID, "error", err)
	}
	if order.ShipperID != nil {
		if err := notify(db, *order.ShipperID, &order.ID, models.NotificationOrderCancelled,
			"Order cancelled",
			fmt.Sprintf("Delivery for order #%d was cancelled", order.ID),
		); err != nil {
			slog.Warn("cancel notification failed", "order_id", order.ID, "error", err)
		}
	}

	order.Status = models.OrderStatusCancelled
	order.CancelReason = reason
	return &order, http.StatusOK, nil
}

// -------- Handlers --------

// PUT /api/orders/:id/approve
func ApproveOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, status, err := ApproveOrder(db, c.Param("id"), middleware.UserID(c))
		if err != nil {
			c.JSON(status, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(status, gin.H{"success": true, "data": order})
	}
}

// PUT /api/orders/:id/cancel
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CancelOrderRequest
		_ = c.ShouldBindJSON(&req) // reason is optional, body may be empty

		order, status, err := CancelOrder(db, c.Param("id"), middleware.UserID(c), req.Reason)
		if err != nil {
			c.JSON(status, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(status, gin.H{"success": true, "data": order})
	}
}
