package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/airfork/uts-dpm-sub000/pkg/jwt"
	"github.com/airfork/uts-dpm-sub000/pkg/redis"
	"github.com/airfork/uts-dpm-sub000/pkg/response"
)

// Context keys set by JWTAuth.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// JWTAuth validates the bearer token and rejects blacklisted tokens. When
// the blacklist store is unreachable the check degrades open; revocation is
// best-effort, authentication is not.
func JWTAuth(manager *jwt.Manager, rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.Unauthorized(c, 40101, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := manager.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, 40102, "invalid or expired token")
			c.Abort()
			return
		}

		if rdb != nil && claims.ID != "" {
			blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Warn("token blacklist check failed", zap.Error(err))
			} else if blacklisted {
				response.Unauthorized(c, 40103, "token revoked")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RoleAuth allows only the given roles. Must run after JWTAuth.
func RoleAuth(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		response.Forbidden(c, 40301, "insufficient role")
		c.Abort()
	}
}
