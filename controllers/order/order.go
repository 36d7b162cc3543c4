package orderControllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

// -------- Request Structs --------

type OrderItemInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Size      string `json:"size"`
}

type CreateOrderRequest struct {
	Items           []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	ShippingAddress string           `json:"shipping_address" binding:"required"`
	PaymentMethod   string           `json:"payment_method"`
}

// ErrNotFound marks failures the handler should report as 404.
var ErrNotFound = errors.New("not found")

// sellerGroup accumulates one seller's share of a checkout.
type sellerGroup struct {
	sellerID string
	subtotal float64
	items    []models.OrderItem
}

// -------- Core Logic --------

// CreateOrders splits the checkout by seller and creates one order per
// distinct seller, each with the flat shipping fee on top of its subtotal.
// Any line failing validation aborts the whole checkout; no partial orders
// are ever left behind.
func CreateOrders(db *gorm.DB, buyerID string, req CreateOrderRequest, shippingFee float64) ([]models.Order, error) {
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return nil, errors.New("shipping address is required")
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cod"
	}

	var orders []models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		groups := make(map[string]*sellerGroup)
		var sellerOrder []string // deterministic order: first appearance wins

		for _, line := range req.Items {
			var product models.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %d %w", line.ProductID, ErrNotFound)
				}
				return err
			}
			if product.SellerID == "" {
				return fmt.Errorf("product %q has no seller assigned", product.Name)
			}
			if product.Quantity < line.Quantity {
				return fmt.Errorf("insufficient stock for %q: %d left", product.Name, product.Quantity)
			}

			// Single conditional update so the check and the decrement cannot
			// race with a concurrent checkout. Quantity and purchase count
			// move together.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND quantity >= ?", product.ID, line.Quantity).
				Updates(map[string]interface{}{
					"quantity":       gorm.Expr("quantity - ?", line.Quantity),
					"purchase_count": gorm.Expr("purchase_count + ?", line.Quantity),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("insufficient stock for %q: %d left", product.Name, product.Quantity)
			}

			group, ok := groups[product.SellerID]
			if !ok {
				group = &sellerGroup{sellerID: product.SellerID}
				groups[product.SellerID] = group
				sellerOrder = append(sellerOrder, product.SellerID)
			}
			group.subtotal += product.Price * float64(line.Quantity)
			group.items = append(group.items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Image:     product.Image,
				Price:     product.Price, // snapshot, never recomputed
				Quantity:  line.Quantity,
				Size:      line.Size,
			})
		}

		for _, sellerID := range sellerOrder {
			group := groups[sellerID]
			order := models.Order{
				BuyerID:         buyerID,
				SellerID:        group.sellerID,
				Items:           group.items,
				TotalAmount:     group.subtotal + shippingFee,
				ShippingFee:     shippingFee,
				Status:          models.OrderStatusPending,
				PaymentMethod:   paymentMethod,
				PaymentStatus:   models.PaymentStatusPending,
				ShippingAddress: req.ShippingAddress,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			orders = append(orders, order)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Notifications are best effort; a failed write must not undo the orders.
	for i := range orders {
		order := &orders[i]
		if err := notify(db, order.SellerID, &order.ID, models.NotificationOrderCreated,
			"New order received",
			fmt.Sprintf("Order #%d: %s", order.ID, summarizeItems(order.Items)),
		); err != nil {
			slog.Warn("order notification failed", "order_id", order.ID, "error", err)
		}
	}

	return orders, nil
}

// summarizeItems joins the ordered product names, truncated to 50 characters.
func summarizeItems(items []models.OrderItem) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	summary := strings.Join(names, ", ")
	if runes := []rune(summary); len(runes) > 50 {
		summary = string(runes[:50]) + "..."
	}
	return summary
}

func notify(db *gorm.DB, userID string, orderID *uint, typ models.NotificationType, title, message string) error {
	return db.Create(&models.Notification{
		UserID:  userID,
		OrderID: orderID,
		Type:    typ,
		Title:   title,
		Message: message,
	}).Error
}

// -------- Handlers --------

// POST /api/orders
func CreateOrderHandler(db *gorm.DB, shippingFee float64) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		orders, err := CreateOrders(db, middleware.UserID(c), req, shippingFee)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, ErrNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": orders})
	}
}

// GET /api/orders/my-purchases
func GetMyPurchases(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Where("buyer_id = ?", middleware.UserID(c)).
			Preload("Items").
			Preload("Seller").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
	}
}

// GET /api/orders/my-sales
func GetMySales(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Where("seller_id = ?", middleware.UserID(c)).
			Preload("Items").
			Preload("Buyer").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
	}
}

// GET /api/orders/:id
func GetOrderByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order models.Order
		if err := db.
			Preload("Items").
			Preload("Buyer").
			Preload("Seller").
			First(&order, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		userID := middleware.UserID(c)
		role := models.Role(c.GetString(middleware.CtxRole))
		isShipper := order.ShipperID != nil && *order.ShipperID == userID
		if order.BuyerID != userID && order.SellerID != userID && !isShipper && role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "not your order"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
	}
}
