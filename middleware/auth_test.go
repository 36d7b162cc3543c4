package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nqminh/marketplace-api/middleware"
	"github.com/nqminh/marketplace-api/models"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.Protect(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": middleware.UserID(c)})
	})
	r.GET("/admin", middleware.Protect(), middleware.Authorize(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/maybe", middleware.OptionalAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": middleware.UserID(c)})
	})
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProtect(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	r := protectedRouter()

	// missing header
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)

	// garbage token
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "not.a.token").Code)

	// token signed with the wrong secret
	bad := signToken(t, "other-secret", jwt.MapClaims{
		"id": "u1", "role": "buyer", "exp": time.Now().Add(time.Hour).Unix(),
	})
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", bad).Code)

	// expired token
	expired := signToken(t, "test-secret", jwt.MapClaims{
		"id": "u1", "role": "buyer", "exp": time.Now().Add(-time.Hour).Unix(),
	})
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", expired).Code)

	// valid token exposes the caller's id
	good := signToken(t, "test-secret", jwt.MapClaims{
		"id": "u1", "role": "buyer", "exp": time.Now().Add(time.Hour).Unix(),
	})
	w := get(r, "/me", good)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"u1"`)
}

func TestProtectRejectsNonHMACAlgorithm(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	r := protectedRouter()

	// alg=none style tokens must not get through
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id": "u1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/admin", signed).Code)
}

func TestAuthorize(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	r := protectedRouter()

	buyer := signToken(t, "test-secret", jwt.MapClaims{
		"id": "u1", "role": "buyer", "exp": time.Now().Add(time.Hour).Unix(),
	})
	admin := signToken(t, "test-secret", jwt.MapClaims{
		"id": "u2", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	})

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", buyer).Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", admin).Code)
}

func TestOptionalAuth(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	r := protectedRouter()

	// anonymous passes with an empty identity
	w := get(r, "/maybe", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":""`)

	// a bad token degrades to anonymous instead of failing
	w = get(r, "/maybe", "garbage")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":""`)

	token := signToken(t, "test-secret", jwt.MapClaims{
		"id": "u9", "role": "buyer", "exp": time.Now().Add(time.Hour).Unix(),
	})
	w = get(r, "/maybe", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"u9"`)
}
