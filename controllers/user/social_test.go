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

func setupSocialRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Follow{},
		&models.ProductLike{}, &models.WishlistItem{},
	))

	r := gin.New()
	r.GET("/api/users/:id/followers", userControllers.GetFollowers(db))
	users := r.Group("/api/users", middleware.Protect())
	{
		users.POST("/:id/follow", userControllers.FollowSeller(db))
		users.DELETE("/:id/follow", userControllers.UnfollowSeller(db))
		users.POST("/products/:id/like", userControllers.LikeProduct(db))
		users.DELETE("/products/:id/like", userControllers.UnlikeProduct(db))
	}
	wishlist := r.Group("/api/wishlist", middleware.Protect())
	{
		wishlist.GET("", userControllers.GetWishlist(db))
		wishlist.POST("/:productId", userControllers.AddToWishlist(db))
		wishlist.DELETE("/:productId", userControllers.RemoveFromWishlist(db))
	}
	return r, db
}

func TestFollowUnfollow(t *testing.T) {
	r, db := setupSocialRouter(t)
	buyer := voucherUser(t, db, models.RoleBuyer)
	seller := voucherUser(t, db, models.RoleSeller)

	followPath := fmt.Sprintf("/api/users/%s/follow", seller.ID)

	w := voucherReq(r, http.MethodPost, followPath, nil, buyer)
	assert.Equal(t, http.StatusCreated, w.Code)

	// idempotent
	w = voucherReq(r, http.MethodPost, followPath, nil, buyer)
	assert.Equal(t, http.StatusOK, w.Code)
	var count int64
	db.Model(&models.Follow{}).Where("seller_id = ?", seller.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	// self-follow is rejected
	w = voucherReq(r, http.MethodPost, fmt.Sprintf("/api/users/%s/follow", buyer.ID), nil, buyer)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// follower listing is public
	w = voucherReq(r, http.MethodGet, fmt.Sprintf("/api/users/%s/followers", seller.ID), nil, buyer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = voucherReq(r, http.MethodDelete, followPath, nil, buyer)
	assert.Equal(t, http.StatusOK, w.Code)
	w = voucherReq(r, http.MethodDelete, followPath, nil, buyer)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikeMovesDenormalizedCounter(t *testing.T) {
	r, db := setupSocialRouter(t)
	buyer := voucherUser(t, db, models.RoleBuyer)
	seller := voucherUser(t, db, models.RoleSeller)
	product := models.Product{SellerID: seller.ID, Name: "P", Price: 1000, Quantity: 5}
	require.NoError(t, db.Create(&product).Error)

	likePath := fmt.Sprintf("/api/users/products/%d/like", product.ID)

	w := voucherReq(r, http.MethodPost, likePath, nil, buyer)
	assert.Equal(t, http.StatusCreated, w.Code)

	// double like must not double count
	w = voucherReq(r, http.MethodPost, likePath, nil, buyer)
	assert.Equal(t, http.StatusOK, w.Code)

	var p models.Product
	require.NoError(t, db.First(&p, product.ID).Error)
	assert.Equal(t, 1, p.Likes)

	w = voucherReq(r, http.MethodDelete, likePath, nil, buyer)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&p, product.ID).Error)
	assert.Equal(t, 0, p.Likes)

	// unliking something never liked is a 404 and keeps the counter at zero
	w = voucherReq(r, http.MethodDelete, likePath, nil, buyer)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, db.First(&p, product.ID).Error)
	assert.Equal(t, 0, p.Likes)
}

func TestWishlist(t *testing.T) {
	r, db := setupSocialRouter(t)
	buyer := voucherUser(t, db, models.RoleBuyer)
	seller := voucherUser(t, db, models.RoleSeller)
	product := models.Product{SellerID: seller.ID, Name: "Wanted", Price: 1000, Quantity: 5}
	require.NoError(t, db.Create(&product).Error)

	path := fmt.Sprintf("/api/wishlist/%d", product.ID)

	w := voucherReq(r, http.MethodPost, path, nil, buyer)
	assert.Equal(t, http.StatusCreated, w.Code)

	// adding twice returns the existing row
	w = voucherReq(r, http.MethodPost, path, nil, buyer)
	assert.Equal(t, http.StatusOK, w.Code)
	var count int64
	db.Model(&models.WishlistItem{}).Where("user_id = ?", buyer.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	w = voucherReq(r, http.MethodGet, "/api/wishlist", nil, buyer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Wanted")

	// another user's wishlist stays empty
	other := voucherUser(t, db, models.RoleBuyer)
	w = voucherReq(r, http.MethodGet, "/api/wishlist", nil, other)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Wanted")

	w = voucherReq(r, http.MethodDelete, path, nil, buyer)
	assert.Equal(t, http.StatusOK, w.Code)
	w = voucherReq(r, http.MethodDelete, path, nil, buyer)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// unknown product
	w = voucherReq(r, http.MethodPost, "/api/wishlist/99999", nil, buyer)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
