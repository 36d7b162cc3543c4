package userControllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nqminh/marketplace-api/auth"
	userControllers "github.com/nqminh/marketplace-api/controllers/user"
	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

func setupVoucherRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Voucher{}))

	r := gin.New()
	vouchers := r.Group("/api/vouchers", middleware.Protect())
	{
		vouchers.POST("/apply", userControllers.ApplyVoucher(db))
		seller := vouchers.Group("", middleware.Authorize(models.RoleSeller, models.RoleAdmin))
		{
			seller.GET("", userControllers.GetVouchers(db))
			seller.POST("", userControllers.CreateVoucher(db))
			seller.DELETE("/:id", userControllers.DeleteVoucher(db))
		}
	}
	return r, db
}

func voucherUser(t *testing.T, db *gorm.DB, role models.Role) models.User {
	t.Helper()
	user := models.User{ID: uuid.NewString(), Email: uuid.NewString() + "@test.local", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func voucherReq(r *gin.Engine, method, path string, body interface{}, user models.User) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+auth.IssueJWT(user.ID, user.Role))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateVoucherNormalizesCode(t *testing.T) {
	r, db := setupVoucherRouter(t)
	seller := voucherUser(t, db, models.RoleSeller)

	w := voucherReq(r, http.MethodPost, "/api/vouchers", map[string]interface{}{
		"code": "  sale10 ", "discount_percent": 10,
		"expires_at": time.Now().Add(24 * time.Hour),
	}, seller)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var voucher models.Voucher
	require.NoError(t, db.First(&voucher).Error)
	assert.Equal(t, "SALE10", voucher.Code)
	assert.Equal(t, seller.ID, voucher.SellerID)

	// duplicate code
	w = voucherReq(r, http.MethodPost, "/api/vouchers", map[string]interface{}{
		"code": "sale10", "discount_percent": 5,
		"expires_at": time.Now().Add(24 * time.Hour),
	}, seller)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// a discount of some kind is mandatory
	w = voucherReq(r, http.MethodPost, "/api/vouchers", map[string]interface{}{
		"code": "NODISCOUNT", "expires_at": time.Now().Add(24 * time.Hour),
	}, seller)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// buyers cannot mint vouchers
	buyer := voucherUser(t, db, models.RoleBuyer)
	w = voucherReq(r, http.MethodPost, "/api/vouchers", map[string]interface{}{
		"code": "NOPE", "discount_percent": 10,
		"expires_at": time.Now().Add(24 * time.Hour),
	}, buyer)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApplyVoucherPercentAndCaps(t *testing.T) {
	r, db := setupVoucherRouter(t)
	seller := voucherUser(t, db, models.RoleSeller)
	buyer := voucherUser(t, db, models.RoleBuyer)

	require.NoError(t, db.Create(&models.Voucher{
		Code: "TEN", SellerID: seller.ID, DiscountPercent: 10,
		MinOrderValue: 100000, ExpiresAt: time.Now().Add(24 * time.Hour),
	}).Error)

	// lowercase input resolves to the stored code
	w := voucherReq(r, http.MethodPost, "/api/vouchers/apply", map[string]interface{}{
		"code": "ten", "order_total": 220000, "seller_id": seller.ID,
	}, buyer)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Discount float64 `json:"discount"`
			Total    float64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 22000.0, resp.Data.Discount)
	assert.Equal(t, 198000.0, resp.Data.Total)

	// below the minimum
	w = voucherReq(r, http.MethodPost, "/api/vouchers/apply", map[string]interface{}{
		"code": "TEN", "order_total": 50000, "seller_id": seller.ID,
	}, buyer)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// wrong seller
	w = voucherReq(r, http.MethodPost, "/api/vouchers/apply", map[string]interface{}{
		"code": "TEN", "order_total": 220000, "seller_id": "someone-else",
	}, buyer)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// an amount discount larger than the order is clamped
	require.NoError(t, db.Create(&models.Voucher{
		Code: "BIG", DiscountAmount: 500000, ExpiresAt: time.Now().Add(24 * time.Hour),
	}).Error)
	w = voucherReq(r, http.MethodPost, "/api/vouchers/apply", map[string]interface{}{
		"code": "BIG", "order_total": 30000,
	}, buyer)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 30000.0, resp.Data.Discount)
	assert.Zero(t, resp.Data.Total)
}

func TestApplyVoucherExpiryAndLimit(t *testing.T) {
	r, db := setupVoucherRouter(t)
	buyer := voucherUser(t, db, models.RoleBuyer)

	require.NoError(t, db.Create(&models.Voucher{
		Code: "OLD", DiscountPercent: 10, ExpiresAt: time.Now().Add(-time.Hour),
	}).Error)
	w := voucherReq(r, http.MethodPost, "/api/vouchers/apply", map[string]interface{}{
		"code": "OLD", "order_total": 10000,
	}, buyer)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "expired")

	require.NoError(t, db.Create(&models.Voucher{
		Code: "ONCE", DiscountPercent: 10, UsageLimit: 1,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}).Error)

	w = voucherReq(r, http.MethodPost, "/api/vouchers/apply", map[string]interface{}{
		"code": "ONCE", "order_total": 10000,
	}, buyer)
	require.Equal(t, http.StatusOK, w.Code)

	// limit reached, second apply fails and the counter stays put
	w = voucherReq(r, http.MethodPost, "/api/vouchers/apply", map[string]interface{}{
		"code": "ONCE", "order_total": 10000,
	}, buyer)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var voucher models.Voucher
	require.NoError(t, db.First(&voucher, "code = ?", "ONCE").Error)
	assert.Equal(t, 1, voucher.UsedCount)

	// unknown code
	w = voucherReq(r, http.MethodPost, "/api/vouchers/apply", map[string]interface{}{
		"code": "MISSING", "order_total": 10000,
	}, buyer)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVoucherOwnershipScoping(t *testing.T) {
	r, db := setupVoucherRouter(t)
	sellerA := voucherUser(t, db, models.RoleSeller)
	sellerB := voucherUser(t, db, models.RoleSeller)

	require.NoError(t, db.Create(&models.Voucher{
		Code: "MINE", SellerID: sellerA.ID, DiscountPercent: 5,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}).Error)
	var voucher models.Voucher
	require.NoError(t, db.First(&voucher).Error)

	// listing only shows own vouchers
	w := voucherReq(r, http.MethodGet, "/api/vouchers", nil, sellerB)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "MINE")

	// deleting someone else's voucher is a 404
	w = voucherReq(r, http.MethodDelete, fmt.Sprintf("/api/vouchers/%d", voucher.ID), nil, sellerB)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = voucherReq(r, http.MethodDelete, fmt.Sprintf("/api/vouchers/%d", voucher.ID), nil, sellerA)
	assert.Equal(t, http.StatusOK, w.Code)
}
