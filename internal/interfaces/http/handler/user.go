package handler

import (
	identityapp "github.com/erp/accounting/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// UserHandler serves the admin-only user management endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create godoc
//
//	@Summary		Create user
//	@Description	Create an ADMIN or ACCOUNTANT. Accountants must be assigned to an active branch.
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identity.CreateUserRequest	true	"User"
//	@Success		201		{object}	APIResponse[identity.UserResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req identityapp.CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// GetByID godoc
//
//	@Summary		Get user
//	@Tags			users
//	@Produce		json
//	@Param			id	path		string	true	"User ID"	format(uuid)
//	@Success		200	{object}	APIResponse[identity.UserResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// List godoc
//
//	@Summary		List users
//	@Tags			users
//	@Produce		json
//	@Param			search		query		string	false	"Username or name"
//	@Param			role		query		string	false	"Role"	Enums(ADMIN, ACCOUNTANT)
//	@Param			branch_id	query		string	false	"Branch"	format(uuid)
//	@Param			is_active	query		bool	false	"Active flag"
//	@Param			page		query		int		false	"Page"		default(1)
//	@Param			page_size	query		int		false	"Page size"	default(20)
//	@Success		200			{object}	APIResponse[[]identity.UserResponse]
//	@Security		BearerAuth
//	@Router			/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter identityapp.UserListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	users, total, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, users, total, filter.Page, filter.PageSize)
}

// Update godoc
//
//	@Summary		Update user
//	@Description	Role and branch change together; demoting the last active admin is refused
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"User ID"	format(uuid)
//	@Param			request	body		identity.UpdateUserRequest	true	"Changes"
//	@Success		200		{object}	APIResponse[identity.UserResponse]
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req identityapp.UpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ResetPassword godoc
//
//	@Summary		Reset password
//	@Description	Set a new password and revoke the user's tokens
//	@Tags			users
//	@Accept			json
//	@Param			id		path	string							true	"User ID"	format(uuid)
//	@Param			request	body	identity.ResetPasswordRequest	true	"New password"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/users/{id}/password [put]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req identityapp.ResetPasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.userService.ResetPassword(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate godoc
//
//	@Summary		Activate user
//	@Tags			users
//	@Produce		json
//	@Param			id	path		string	true	"User ID"	format(uuid)
//	@Success		200	{object}	APIResponse[identity.UserResponse]
//	@Security		BearerAuth
//	@Router			/users/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Deactivate godoc
//
//	@Summary		Deactivate user
//	@Description	Deactivated users cannot log in and their tokens are revoked
//	@Tags			users
//	@Produce		json
//	@Param			id	path		string	true	"User ID"	format(uuid)
//	@Success		200	{object}	APIResponse[identity.UserResponse]
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Deactivate(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Delete godoc
//
//	@Summary		Delete user
//	@Tags			users
//	@Param			id	path	string	true	"User ID"	format(uuid)
//	@Success		204
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
