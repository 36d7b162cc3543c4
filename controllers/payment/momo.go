package paymentControllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

// momoConfig is read per request so tests and rotation work without a restart.
type momoConfig struct {
	PartnerCode string
	AccessKey   string
	SecretKey   string
	Endpoint    string
	RedirectURL string
	IPNURL      string
}

func getMomoConfig() (momoConfig, error) {
	cfg := momoConfig{
		PartnerCode: os.Getenv("MOMO_PARTNER_CODE"),
		AccessKey:   os.Getenv("MOMO_ACCESS_KEY"),
		SecretKey:   os.Getenv("MOMO_SECRET_KEY"),
		Endpoint:    os.Getenv("MOMO_ENDPOINT"),
		RedirectURL: os.Getenv("MOMO_REDIRECT_URL"),
		IPNURL:      os.Getenv("MOMO_IPN_URL"),
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://test-payment.momo.vn/v2/gateway/api/create"
	}
	if cfg.PartnerCode == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return cfg, errors.New("momo configuration missing")
	}
	return cfg, nil
}

// signCreateRequest builds the HMAC-SHA256 signature over the fixed field
// order MoMo requires for the create call.
func signCreateRequest(cfg momoConfig, amount int64, orderID, requestID, orderInfo, extraData, requestType string) string {
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		cfg.AccessKey, amount, extraData, cfg.IPNURL, orderID, orderInfo,
		cfg.PartnerCode, cfg.RedirectURL, requestID, requestType,
	)
	return signHMAC(cfg.SecretKey, raw)
}

// signCallback covers the field order MoMo uses for callback and IPN payloads.
func signCallback(cfg momoConfig, n momoNotification) string {
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		cfg.AccessKey, n.Amount, n.ExtraData, n.Message, n.OrderID, n.OrderInfo,
		n.OrderType, n.PartnerCode, n.PayType, n.RequestID, n.ResponseTime,
		n.ResultCode, n.TransID,
	)
	return signHMAC(cfg.SecretKey, raw)
}

func signHMAC(secret, raw string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

type momoCreateResponse struct {
	PayURL     string `json:"payUrl"`
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
}

type momoNotification struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

// createMomoPayment calls the gateway and returns the pay URL. Single
// best-effort request, no retry.
func createMomoPayment(cfg momoConfig, amount int64, momoOrderID, requestID, orderInfo string) (string, error) {
	requestType := "captureWallet"
	payload := map[string]interface{}{
		"partnerCode": cfg.PartnerCode,
		"accessKey":   cfg.AccessKey,
		"requestId":   requestID,
		"amount":      amount,
		"orderId":     momoOrderID,
		"orderInfo":   orderInfo,
		"redirectUrl": cfg.RedirectURL,
		"ipnUrl":      cfg.IPNURL,
		"extraData":   "",
		"requestType": requestType,
		"lang":        "vi",
		"signature":   signCreateRequest(cfg, amount, momoOrderID, requestID, orderInfo, "", requestType),
	}

	jsonData, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", cfg.Endpoint, bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach momo: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("momo API error (%d): %s", resp.StatusCode, string(body))
	}

	var momoResp momoCreateResponse
	if err := json.Unmarshal(body, &momoResp); err != nil {
		return "", fmt.Errorf("failed to parse momo response: %v", err)
	}
	if momoResp.ResultCode != 0 {
		return "", fmt.Errorf("momo error: %s", momoResp.Message)
	}
	if momoResp.PayURL == "" {
		return "", errors.New("momo returned empty pay URL")
	}
	return momoResp.PayURL, nil
}

// -------- Handlers --------

// POST /api/payment/momo/create
func CreateMomoPayment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			OrderID uint `json:"order_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ? AND buyer_id = ?", req.OrderID, middleware.UserID(c)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "order not found"})
			return
		}
		if order.PaymentStatus == models.PaymentStatusPaid {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "order is already paid"})
			return
		}

		cfg, err := getMomoConfig()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		requestID := uuid.NewString()
		// orderId must be unique per gateway attempt, so it carries the
		// request id alongside the order id.
		momoOrderID := fmt.Sprintf("%d-%s", order.ID, requestID)
		amount := int64(order.TotalAmount)
		orderInfo := fmt.Sprintf("Payment for order #%d", order.ID)

		payURL, err := createMomoPayment(cfg, amount, momoOrderID, requestID, orderInfo)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": err.Error()})
			return
		}

		txn := models.PaymentTransaction{
			OrderID:   order.ID,
			RequestID: requestID,
			Provider:  "momo",
			Amount:    order.TotalAmount,
			Status:    models.TransactionStatusPending,
			PayURL:    payURL,
		}
		if err := db.Create(&txn).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"pay_url":    payURL,
			"request_id": requestID,
		}})
	}
}

// handleNotification applies a verified gateway result to the transaction
// and its order. Shared by the redirect callback and the IPN.
func handleNotification(db *gorm.DB, n momoNotification) (int, error) {
	cfg, err := getMomoConfig()
	if err != nil {
		return http.StatusInternalServerError, err
	}

	if !hmac.Equal([]byte(signCallback(cfg, n)), []byte(n.Signature)) {
		return http.StatusBadRequest, errors.New("invalid signature")
	}

	var txn models.PaymentTransaction
	if err := db.First(&txn, "request_id = ?", n.RequestID).Error; err != nil {
		return http.StatusNotFound, errors.New("transaction not found")
	}

	status := models.TransactionStatusFailed
	orderPayment := models.PaymentStatusFailed
	if n.ResultCode == 0 {
		status = models.TransactionStatusPaid
		orderPayment = models.PaymentStatusPaid
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&txn).Updates(map[string]interface{}{
			"status":      status,
			"result_code": n.ResultCode,
			"message":     n.Message,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Order{}).Where("id = ?", txn.OrderID).
			Updates(map[string]interface{}{
				"payment_status": orderPayment,
				"payment_method": "momo",
			}).Error
	})
	if err != nil {
		return http.StatusInternalServerError, err
	}
	return http.StatusOK, nil
}

// POST /api/momo/callback (public, signature-verified)
func MomoCallback(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var n momoNotification
		if err := c.ShouldBindJSON(&n); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		status, err := handleNotification(db, n)
		if err != nil {
			c.JSON(status, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "payment result recorded"})
	}
}

// POST /api/momo/ipn (public, signature-verified). MoMo expects 204 on
// success.
func MomoIPN(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var n momoNotification
		if err := c.ShouldBindJSON(&n); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		status, err := handleNotification(db, n)
		if err != nil {
			c.JSON(status, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// GET /api/payment/status/:orderId
func GetPaymentStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.Atoi(c.Param("orderId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid order id"})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "order not found"})
			return
		}
		userID := middleware.UserID(c)
		if order.BuyerID != userID && order.SellerID != userID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "not your order"})
			return
		}

		var txns []models.PaymentTransaction
		db.Where("order_id = ?", order.ID).Order("created_at DESC").Find(&txns)

		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"payment_status": order.PaymentStatus,
			"payment_method": order.PaymentMethod,
			"transactions":   txns,
		}})
	}
}
