package middleware

import (
	"strings"

	"github.com/Adeel3330/agile-next-sub002/internal/utils"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	ContextAdminID = "admin_id"
	ContextEmail   = "admin_email"
	ContextRole    = "role"
)

// AuthRequired checks the bearer token and stores the admin identity in the
// context. Missing, malformed and expired tokens all get a 401 envelope.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextAdminID, claims.AdminID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// GetAdminID returns the authenticated admin id, or 0.
func GetAdminID(c *gin.Context) uint {
	if id, exists := c.Get(ContextAdminID); exists {
		if v, ok := id.(uint); ok {
			return v
		}
	}
	return 0
}

// AdminIDPtr is GetAdminID for nullable actor columns.
func AdminIDPtr(c *gin.Context) *uint {
	if id := GetAdminID(c); id > 0 {
		return &id
	}
	return nil
}

func GetEmail(c *gin.Context) string {
	return c.GetString(ContextEmail)
}

func GetRole(c *gin.Context) string {
	return c.GetString(ContextRole)
}
