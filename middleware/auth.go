package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nqminh/marketplace-api/models"
)

// Context keys set by the auth middleware.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

func parseToken(header string) (jwt.MapClaims, error) {
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == "" {
		return nil, errors.New("token missing")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Protect rejects requests without a valid bearer token and stores the
// caller's id and role in the context.
func Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization header is missing"})
			return
		}

		claims, err := parseToken(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
			return
		}

		id, _ := claims["id"].(string)
		role, _ := claims["role"].(string)
		c.Set(CtxUserID, id)
		c.Set(CtxRole, role)
		c.Next()
	}
}

// Authorize allows only the given roles through. Must run after Protect.
func Authorize(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.Role(c.GetString(CtxRole))
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "insufficient permissions"})
	}
}

// OptionalAuth sets the caller's identity when a valid token is present and
// degrades to anonymous otherwise.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			if claims, err := parseToken(header); err == nil {
				id, _ := claims["id"].(string)
				role, _ := claims["role"].(string)
				c.Set(CtxUserID, id)
				c.Set(CtxRole, role)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's id, empty for anonymous.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}
