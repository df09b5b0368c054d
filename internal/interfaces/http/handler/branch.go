package handler

import (
	branchapp "github.com/erp/accounting/internal/application/branch"
	"github.com/gin-gonic/gin"
)

// BranchHandler serves branch endpoints. Writes are admin-only; reads are
// limited to the caller's own branch for accountants.
type BranchHandler struct {
	BaseHandler
	branchService *branchapp.Service
}

// NewBranchHandler creates a new BranchHandler
func NewBranchHandler(branchService *branchapp.Service) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

// Create godoc
//
//	@Summary		Create branch
//	@Tags			branches
//	@Accept			json
//	@Produce		json
//	@Param			request	body		branch.CreateBranchRequest	true	"Branch"
//	@Success		201		{object}	APIResponse[branch.BranchResponse]
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/branches [post]
func (h *BranchHandler) Create(c *gin.Context) {
	var req branchapp.CreateBranchRequest
	if !h.bindJSON(c, &req) {
		return
	}
	b, err := h.branchService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, b)
}

// GetByID godoc
//
//	@Summary		Get branch
//	@Tags			branches
//	@Produce		json
//	@Param			id	path		string	true	"Branch ID"	format(uuid)
//	@Success		200	{object}	APIResponse[branch.BranchResponse]
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/branches/{id} [get]
func (h *BranchHandler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	b, err := h.branchService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// List godoc
//
//	@Summary		List branches
//	@Tags			branches
//	@Produce		json
//	@Param			search		query		string	false	"Code or name"
//	@Param			is_active	query		bool	false	"Active flag"
//	@Param			page		query		int		false	"Page"		default(1)
//	@Param			page_size	query		int		false	"Page size"	default(20)
//	@Success		200			{object}	APIResponse[[]branch.BranchResponse]
//	@Security		BearerAuth
//	@Router			/branches [get]
func (h *BranchHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter branchapp.BranchListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	branches, total, err := h.branchService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, branches, total, filter.Page, filter.PageSize)
}

// Update godoc
//
//	@Summary		Update branch
//	@Tags			branches
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Branch ID"	format(uuid)
//	@Param			request	body		branch.UpdateBranchRequest	true	"Changes"
//	@Success		200		{object}	APIResponse[branch.BranchResponse]
//	@Security		BearerAuth
//	@Router			/branches/{id} [put]
func (h *BranchHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req branchapp.UpdateBranchRequest
	if !h.bindJSON(c, &req) {
		return
	}
	b, err := h.branchService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// Activate godoc
//
//	@Summary		Activate branch
//	@Tags			branches
//	@Produce		json
//	@Param			id	path		string	true	"Branch ID"	format(uuid)
//	@Success		200	{object}	APIResponse[branch.BranchResponse]
//	@Security		BearerAuth
//	@Router			/branches/{id}/activate [post]
func (h *BranchHandler) Activate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	b, err := h.branchService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// Deactivate godoc
//
//	@Summary		Deactivate branch
//	@Tags			branches
//	@Produce		json
//	@Param			id	path		string	true	"Branch ID"	format(uuid)
//	@Success		200	{object}	APIResponse[branch.BranchResponse]
//	@Security		BearerAuth
//	@Router			/branches/{id}/deactivate [post]
func (h *BranchHandler) Deactivate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	b, err := h.branchService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// Delete godoc
//
//	@Summary		Delete branch
//	@Description	Refused with BRANCH_IN_USE while users or records reference the branch
//	@Tags			branches
//	@Param			id	path	string	true	"Branch ID"	format(uuid)
//	@Success		204
//	@Failure		409	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/branches/{id} [delete]
func (h *BranchHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.branchService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
