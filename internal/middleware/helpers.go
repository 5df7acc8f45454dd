// internal/middleware/helpers.go
package middleware

import (
	"gymease-service/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// GetClaims returns the claims set by Auth.
func GetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(ctxClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

// MustGetClaims gets the claims from context or panics
func MustGetClaims(c *gin.Context) *jwt.Claims {
	claims, ok := GetClaims(c)
	if !ok {
		panic("claims not found in context")
	}
	return claims
}

// GetUserID returns the authenticated user id.
func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func IsAuthenticated(c *gin.Context) bool {
	_, ok := GetClaims(c)
	return ok
}

// IsStaff reports whether the caller is gym staff.
func IsStaff(c *gin.Context) bool {
	claims, ok := GetClaims(c)
	return ok && claims.IsStaff()
}
