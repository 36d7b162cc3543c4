package paymentControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/models"
)

func setupMomoEnv(t *testing.T) momoConfig {
	t.Helper()
	t.Setenv("MOMO_PARTNER_CODE", "MOMOTEST")
	t.Setenv("MOMO_ACCESS_KEY", "access-key")
	t.Setenv("MOMO_SECRET_KEY", "secret-key")
	t.Setenv("MOMO_REDIRECT_URL", "https://shop.example/payment/result")
	t.Setenv("MOMO_IPN_URL", "https://shop.example/api/momo/ipn")

	cfg, err := getMomoConfig()
	require.NoError(t, err)
	return cfg
}

func setupPaymentDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Order{}, &models.PaymentTransaction{},
	))
	return db
}

func seedPaidableOrder(t *testing.T, db *gorm.DB, amount float64) (models.Order, models.PaymentTransaction) {
	t.Helper()
	buyer := models.User{ID: uuid.NewString(), Email: uuid.NewString() + "@test.local", Role: models.RoleBuyer}
	seller := models.User{ID: uuid.NewString(), Email: uuid.NewString() + "@test.local", Role: models.RoleSeller}
	require.NoError(t, db.Create(&buyer).Error)
	require.NoError(t, db.Create(&seller).Error)

	order := models.Order{
		BuyerID:         buyer.ID,
		SellerID:        seller.ID,
		TotalAmount:     amount,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		ShippingAddress: "addr",
	}
	require.NoError(t, db.Create(&order).Error)

	txn := models.PaymentTransaction{
		OrderID:   order.ID,
		RequestID: uuid.NewString(),
		Provider:  "momo",
		Amount:    amount,
		Status:    models.TransactionStatusPending,
	}
	require.NoError(t, db.Create(&txn).Error)
	return order, txn
}

func signedNotification(cfg momoConfig, txn models.PaymentTransaction, orderID uint, resultCode int) momoNotification {
	n := momoNotification{
		PartnerCode:  cfg.PartnerCode,
		OrderID:      fmt.Sprintf("%d-%s", orderID, txn.RequestID),
		RequestID:    txn.RequestID,
		Amount:       int64(txn.Amount),
		OrderInfo:    fmt.Sprintf("Payment for order #%d", orderID),
		OrderType:    "momo_wallet",
		TransID:      1234567890,
		ResultCode:   resultCode,
		Message:      "Successful.",
		PayType:      "qr",
		ResponseTime: 1700000000000,
	}
	n.Signature = signCallback(cfg, n)
	return n
}

func TestSignCreateRequestFieldOrder(t *testing.T) {
	cfg := setupMomoEnv(t)

	sig := signCreateRequest(cfg, 220000, "7-req-1", "req-1", "Payment for order #7", "", "captureWallet")

	raw := "accessKey=access-key&amount=220000&extraData=&ipnUrl=https://shop.example/api/momo/ipn" +
		"&orderId=7-req-1&orderInfo=Payment for order #7&partnerCode=MOMOTEST" +
		"&redirectUrl=https://shop.example/payment/result&requestId=req-1&requestType=captureWallet"
	assert.Equal(t, signHMAC(cfg.SecretKey, raw), sig)

	// Any field change must change the signature.
	assert.NotEqual(t, sig, signCreateRequest(cfg, 220001, "7-req-1", "req-1", "Payment for order #7", "", "captureWallet"))
	assert.NotEqual(t, sig, signCreateRequest(cfg, 220000, "8-req-1", "req-1", "Payment for order #7", "", "captureWallet"))
}

func TestMomoIPNSuccessMarksOrderPaid(t *testing.T) {
	cfg := setupMomoEnv(t)
	db := setupPaymentDB(t)
	order, txn := seedPaidableOrder(t, db, 220000)

	r := gin.New()
	r.POST("/api/momo/ipn", MomoIPN(db))

	body, _ := json.Marshal(signedNotification(cfg, txn, order.ID, 0))
	req := httptest.NewRequest(http.MethodPost, "/api/momo/ipn", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	require.NoError(t, db.First(&txn, txn.ID).Error)
	assert.Equal(t, models.TransactionStatusPaid, txn.Status)

	require.NoError(t, db.First(&order, order.ID).Error)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, "momo", order.PaymentMethod)
}

func TestMomoCallbackFailureCodeMarksFailed(t *testing.T) {
	cfg := setupMomoEnv(t)
	db := setupPaymentDB(t)
	order, txn := seedPaidableOrder(t, db, 70000)

	r := gin.New()
	r.POST("/api/momo/callback", MomoCallback(db))

	n := signedNotification(cfg, txn, order.ID, 1006) // user cancelled
	n.Message = "Transaction denied by user."
	n.Signature = signCallback(cfg, n)

	body, _ := json.Marshal(n)
	req := httptest.NewRequest(http.MethodPost, "/api/momo/callback", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&txn, txn.ID).Error)
	assert.Equal(t, models.TransactionStatusFailed, txn.Status)
	assert.Equal(t, 1006, txn.ResultCode)

	require.NoError(t, db.First(&order, order.ID).Error)
	assert.Equal(t, models.PaymentStatusFailed, order.PaymentStatus)
}

func TestMomoNotificationRejectsBadSignature(t *testing.T) {
	cfg := setupMomoEnv(t)
	db := setupPaymentDB(t)
	order, txn := seedPaidableOrder(t, db, 70000)

	r := gin.New()
	r.POST("/api/momo/ipn", MomoIPN(db))

	n := signedNotification(cfg, txn, order.ID, 0)
	n.Amount += 1 // tampered after signing

	body, _ := json.Marshal(n)
	req := httptest.NewRequest(http.MethodPost, "/api/momo/ipn", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing moved.
	require.NoError(t, db.First(&txn, txn.ID).Error)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
	require.NoError(t, db.First(&order, order.ID).Error)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
}

func TestMomoNotificationUnknownRequestID(t *testing.T) {
	cfg := setupMomoEnv(t)
	db := setupPaymentDB(t)

	r := gin.New()
	r.POST("/api/momo/ipn", MomoIPN(db))

	n := momoNotification{
		PartnerCode: cfg.PartnerCode,
		RequestID:   "never-issued",
		Amount:      1000,
		ResultCode:  0,
	}
	n.Signature = signCallback(cfg, n)

	body, _ := json.Marshal(n)
	req := httptest.NewRequest(http.MethodPost, "/api/momo/ipn", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePaymentAgainstGatewayStub(t *testing.T) {
	cfg := setupMomoEnv(t)

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
		assert.Equal(t, "MOMOTEST", payload["partnerCode"])
		assert.Equal(t, "captureWallet", payload["requestType"])
		assert.NotEmpty(t, payload["signature"])
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"payUrl":     "https://test-payment.momo.vn/pay/abc",
			"resultCode": 0,
			"message":    "Success",
		})
	}))
	defer gateway.Close()
	t.Setenv("MOMO_ENDPOINT", gateway.URL)
	cfg.Endpoint = gateway.URL

	payURL, err := createMomoPayment(cfg, 220000, "7-req-1", "req-1", "Payment for order #7")
	require.NoError(t, err)
	assert.Equal(t, "https://test-payment.momo.vn/pay/abc", payURL)
}

func TestCreatePaymentGatewayErrorCode(t *testing.T) {
	cfg := setupMomoEnv(t)

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"resultCode": 41,
			"message":    "Duplicated orderId",
		})
	}))
	defer gateway.Close()
	cfg.Endpoint = gateway.URL

	_, err := createMomoPayment(cfg, 1000, "dup", "req", "info")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Duplicated orderId")

	// missing env init
	os.Unsetenv("MOMO_SECRET_KEY")
	_, cfgErr := getMomoConfig()
	assert.Error(t, cfgErr)
}
