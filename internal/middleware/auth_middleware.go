package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"porter/internal/models"
	"porter/internal/utils"
)

// TokenBlacklist answers whether a token id was revoked. The Redis cache
// in pkg/cache satisfies it.
type TokenBlacklist interface {
	Exists(ctx context.Context, key string) (bool, error)
}

// AuthRequired validates the bearer token and sets user_id and role on the
// request context. Only access tokens pass; refresh tokens are rejected so
// they cannot be replayed against protected endpoints.
func AuthRequired(jwtSecret string, blacklist TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c, "Authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.UnauthorizedResponse(c, "Bearer token required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil || claims.TokenType != utils.TokenTypeAccess {
			utils.UnauthorizedResponse(c, utils.ErrInvalidToken)
			c.Abort()
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.Exists(c.Request.Context(), utils.CacheBlacklistPrefix+claims.ID)
			if err != nil || revoked {
				utils.UnauthorizedResponse(c, utils.ErrInvalidToken)
				c.Abort()
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("token_claims", claims)

		c.Next()
	}
}

// AdminRequired allows only admin accounts through.
func AdminRequired() gin.HandlerFunc {
	return requireRole(models.UserRoleAdmin)
}

// DriverRequired allows drivers through. Admins pass as well, since they
// act on any account.
func DriverRequired() gin.HandlerFunc {
	return requireRole(models.UserRoleDriver)
}

// GuestRequired allows guests through. Admins pass as well.
func GuestRequired() gin.HandlerFunc {
	return requireRole(models.UserRoleGuest)
}

func requireRole(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists {
			utils.UnauthorizedResponse(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}

		current, ok := value.(models.UserRole)
		if !ok || (current != role && current != models.UserRoleAdmin) {
			utils.ForbiddenResponse(c, utils.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}
