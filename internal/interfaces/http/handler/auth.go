package handler

import (
	identityapp "github.com/erp/accounting/internal/application/identity"
	"github.com/erp/accounting/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
//
//	@Summary		User login
//	@Description	Authenticate with username and password and receive a token pair
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identity.LoginInput	true	"Login credentials"
//	@Success		200		{object}	APIResponse[identity.LoginResult]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Router			/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input identityapp.LoginInput
	if !h.bindJSON(c, &input) {
		return
	}
	input.IP = c.ClientIP()

	result, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RefreshToken godoc
//
//	@Summary		Refresh tokens
//	@Description	Exchange a refresh token for a new token pair. The old refresh token is revoked.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identity.RefreshTokenInput	true	"Refresh token"
//	@Success		200		{object}	APIResponse[identity.RefreshTokenResult]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input identityapp.RefreshTokenInput
	if !h.bindJSON(c, &input) {
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout godoc
//
//	@Summary		Logout
//	@Description	Revoke the current access token and, when given, the refresh token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identity.LogoutInput	false	"Refresh token to revoke"
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid token claims")
		return
	}

	var input identityapp.LogoutInput
	// the body is optional
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &input) {
		return
	}
	input.UserID = userID
	input.TokenJTI = claims.ID
	input.TokenTTL = claims.GetRemainingTTL()

	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetCurrentUser godoc
//
//	@Summary		Current user
//	@Description	Return the authenticated user's profile, role and branch
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	APIResponse[identity.UserInfo]
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := h.claimsUserID(c)
	if !ok {
		return
	}

	info, err := h.authService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// ChangePassword godoc
//
//	@Summary		Change password
//	@Description	Change the caller's password. Every outstanding token of the user is revoked.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	identity.ChangePasswordInput	true	"Old and new password"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.claimsUserID(c)
	if !ok {
		return
	}

	var input identityapp.ChangePasswordInput
	if !h.bindJSON(c, &input) {
		return
	}
	input.UserID = userID

	if err := h.authService.ChangePassword(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *AuthHandler) claimsUserID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	id, err := claims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid token claims")
		return uuid.Nil, false
	}
	return id, true
}
