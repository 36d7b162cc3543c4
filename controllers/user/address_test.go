package userControllers_test

import (
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	userControllers "github.com/nqminh/marketplace-api/controllers/user"
	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

func setupAddressRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Address{}))

	r := gin.New()
	addresses := r.Group("/api/addresses", middleware.Protect())
	{
		addresses.GET("", userControllers.GetAddresses(db))
		addresses.POST("", userControllers.CreateAddress(db))
		addresses.PUT("/:id", userControllers.UpdateAddress(db))
		addresses.DELETE("/:id", userControllers.DeleteAddress(db))
		addresses.PUT("/:id/default", userControllers.SetDefaultAddress(db))
	}
	return r, db
}

func addressBody(recipient string, isDefault bool) map[string]interface{} {
	return map[string]interface{}{
		"recipient":  recipient,
		"phone":      "0901234567",
		"street":     "12 Ly Thuong Kiet",
		"district":   "Hoan Kiem",
		"city":       "Ha Noi",
		"is_default": isDefault,
	}
}

func TestSingleDefaultAddressInvariant(t *testing.T) {
	r, db := setupAddressRouter(t)
	user := voucherUser(t, db, models.RoleBuyer)

	w := voucherReq(r, http.MethodPost, "/api/addresses", addressBody("Home", true), user)
	require.Equal(t, http.StatusCreated, w.Code)
	w = voucherReq(r, http.MethodPost, "/api/addresses", addressBody("Office", true), user)
	require.Equal(t, http.StatusCreated, w.Code)

	// marking the second default cleared the first
	var defaults int64
	db.Model(&models.Address{}).Where("user_id = ? AND is_default = ?", user.ID, true).Count(&defaults)
	assert.EqualValues(t, 1, defaults)

	var current models.Address
	require.NoError(t, db.Where("user_id = ? AND is_default = ?", user.ID, true).First(&current).Error)
	assert.Equal(t, "Office", current.Recipient)

	var home models.Address
	require.NoError(t, db.Where("recipient = ?", "Home").First(&home).Error)
	w = voucherReq(r, http.MethodPut, fmt.Sprintf("/api/addresses/%d/default", home.ID), nil, user)
	require.Equal(t, http.StatusOK, w.Code)

	db.Model(&models.Address{}).Where("user_id = ? AND is_default = ?", user.ID, true).Count(&defaults)
	assert.EqualValues(t, 1, defaults)
	require.NoError(t, db.First(&home, home.ID).Error)
	assert.True(t, home.IsDefault)
}

func TestAddressCRUDOwnership(t *testing.T) {
	r, db := setupAddressRouter(t)
	alice := voucherUser(t, db, models.RoleBuyer)
	mallory := voucherUser(t, db, models.RoleBuyer)

	w := voucherReq(r, http.MethodPost, "/api/addresses", addressBody("Alice", false), alice)
	require.Equal(t, http.StatusCreated, w.Code)

	var address models.Address
	require.NoError(t, db.First(&address).Error)
	path := fmt.Sprintf("/api/addresses/%d", address.ID)

	// required fields
	w = voucherReq(r, http.MethodPost, "/api/addresses", map[string]interface{}{"city": "HCM"}, alice)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// other users cannot read, edit, or remove it
	w = voucherReq(r, http.MethodGet, "/api/addresses", nil, mallory)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Alice")
	w = voucherReq(r, http.MethodPut, path, addressBody("Hijacked", false), mallory)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = voucherReq(r, http.MethodDelete, path, nil, mallory)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = voucherReq(r, http.MethodPut, path+"/default", nil, mallory)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = voucherReq(r, http.MethodPut, path, addressBody("Alice Updated", false), alice)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&address, address.ID).Error)
	assert.Equal(t, "Alice Updated", address.Recipient)

	w = voucherReq(r, http.MethodDelete, path, nil, alice)
	assert.Equal(t, http.StatusOK, w.Code)
	var count int64
	db.Model(&models.Address{}).Where("user_id = ?", alice.ID).Count(&count)
	assert.Zero(t, count)
}
