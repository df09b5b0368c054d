// Package middleware provides the gin middleware chain of the accounting API.
package middleware

import (
	"errors"
	"net/http"

	"github.com/erp/accounting/internal/domain/identity"
	"github.com/erp/accounting/internal/domain/shared"
	"github.com/erp/accounting/internal/infrastructure/logger"
	"github.com/erp/accounting/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Branch scope context keys
const (
	ActorKey = "actor"
	ScopeKey = "branch_scope"
)

// BranchQueryParam narrows list and report endpoints to one branch
const BranchQueryParam = "branch_id"

// BranchScope turns the token claims into a shared.Actor and resolves the read
// scope of the request. An accountant asking for another branch gets 403.
// It must run after JWTAuthMiddlewareWithConfig.
func BranchScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.Next()
			return
		}
		requestID := c.GetString(RequestIDKey)

		userID, err := claims.GetUserUUID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeTokenInvalid, "Invalid token", requestID))
			return
		}
		branchID, err := claims.GetBranchUUID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeTokenInvalid, "Invalid token", requestID))
			return
		}
		actor := shared.Actor{
			UserID:   userID,
			Username: claims.Username,
			IsAdmin:  identity.Role(claims.Role) == identity.RoleAdmin,
			BranchID: branchID,
		}

		var requested *uuid.UUID
		if raw := c.Query(BranchQueryParam); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeValidation, "branch_id must be a UUID", requestID))
				return
			}
			requested = &id
		}
		scope, err := actor.ReadScope(requested)
		if err != nil {
			if !errors.Is(err, shared.ErrForbidden) {
				c.Error(err)
			}
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "Access to this branch is not allowed", requestID))
			return
		}

		c.Set(ActorKey, actor)
		c.Set(ScopeKey, scope)
		if scope.BranchID != nil {
			c.Request = c.Request.WithContext(logger.WithBranchID(c.Request.Context(), scope.BranchID.String()))
		}
		c.Next()
	}
}

// GetActor returns the actor BranchScope resolved
func GetActor(c *gin.Context) (shared.Actor, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return shared.Actor{}, false
	}
	actor, ok := v.(shared.Actor)
	return actor, ok
}

// GetScope returns the read scope BranchScope resolved. Without one the
// request sees nothing outside the actor's own scope.
func GetScope(c *gin.Context) shared.Scope {
	if v, ok := c.Get(ScopeKey); ok {
		if scope, ok := v.(shared.Scope); ok {
			return scope
		}
	}
	if actor, ok := GetActor(c); ok {
		return actor.Scope()
	}
	return shared.Scope{}
}
