package middleware

import (
	"net/http"
	"slices"

	"github.com/erp/accounting/internal/domain/identity"
	"github.com/erp/accounting/internal/infrastructure/logger"
	"github.com/erp/accounting/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireRole lets the request through only when the token carries one of roles
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := identity.Role(GetJWTRole(c))
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", c.GetString(RequestIDKey)))
			return
		}
		if !slices.Contains(roles, role) {
			logger.L(c.Request.Context()).Warn("Role check failed",
				zap.String("role", string(role)),
				zap.String("path", c.FullPath()),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "You do not have permission to perform this action", c.GetString(RequestIDKey)))
			return
		}
		c.Next()
	}
}

// RequireAdmin is RequireRole(identity.RoleAdmin)
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(identity.RoleAdmin)
}
