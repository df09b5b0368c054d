package handler

import (
	financeapp "github.com/erp/accounting/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// DebtHandler serves the legacy debt endpoints. Migrated debts are read-only.
type DebtHandler struct {
	BaseHandler
	debtService *financeapp.DebtService
}

// NewDebtHandler creates a new DebtHandler
func NewDebtHandler(debtService *financeapp.DebtService) *DebtHandler {
	return &DebtHandler{debtService: debtService}
}

// Create godoc
//
//	@Summary		Record debt
//	@Tags			debts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		finance.CreateDebtRequest	true	"Debt"
//	@Success		201		{object}	APIResponse[finance.DebtResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/debts [post]
func (h *DebtHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req financeapp.CreateDebtRequest
	if !h.bindJSON(c, &req) {
		return
	}
	debt, err := h.debtService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, debt)
}

// GetByID godoc
//
//	@Summary		Get debt
//	@Tags			debts
//	@Produce		json
//	@Param			id	path		string	true	"Debt ID"	format(uuid)
//	@Success		200	{object}	APIResponse[finance.DebtResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/debts/{id} [get]
func (h *DebtHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	debt, err := h.debtService.GetByID(c.Request.Context(), h.scope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, debt)
}

// List godoc
//
//	@Summary		List debts
//	@Tags			debts
//	@Produce		json
//	@Param			branch_id	query		string	false	"Branch (admins only)"	format(uuid)
//	@Param			status		query		string	false	"Status"				Enums(PENDING, PARTIALLY_PAID, PAID)
//	@Param			migrated	query		bool	false	"Migration state"
//	@Param			page		query		int		false	"Page"		default(1)
//	@Param			page_size	query		int		false	"Page size"	default(20)
//	@Success		200			{object}	APIResponse[[]finance.DebtResponse]
//	@Security		BearerAuth
//	@Router			/debts [get]
func (h *DebtHandler) List(c *gin.Context) {
	var filter financeapp.DebtListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	debts, total, err := h.debtService.List(c.Request.Context(), h.scope(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, debts, total, filter.Page, filter.PageSize)
}

// Update godoc
//
//	@Summary		Update debt
//	@Tags			debts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Debt ID"	format(uuid)
//	@Param			request	body		finance.UpdateDebtRequest	true	"Debt"
//	@Success		200		{object}	APIResponse[finance.DebtResponse]
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/debts/{id} [put]
func (h *DebtHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.UpdateDebtRequest
	if !h.bindJSON(c, &req) {
		return
	}
	debt, err := h.debtService.Update(c.Request.Context(), h.scope(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, debt)
}

// Delete godoc
//
//	@Summary		Delete debt
//	@Tags			debts
//	@Param			id	path	string	true	"Debt ID"	format(uuid)
//	@Success		204
//	@Failure		409	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/debts/{id} [delete]
func (h *DebtHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.debtService.Delete(c.Request.Context(), h.scope(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddPayment godoc
//
//	@Summary		Add debt installment
//	@Tags			debts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Debt ID"	format(uuid)
//	@Param			request	body		finance.AddDebtPaymentRequest	true	"Installment"
//	@Success		201		{object}	APIResponse[finance.DebtResponse]
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/debts/{id}/payments [post]
func (h *DebtHandler) AddPayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.AddDebtPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	debt, err := h.debtService.AddPayment(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, debt)
}

// DeletePayment godoc
//
//	@Summary		Delete debt installment
//	@Tags			debts
//	@Produce		json
//	@Param			id			path		string	true	"Debt ID"		format(uuid)
//	@Param			paymentId	path		string	true	"Payment ID"	format(uuid)
//	@Success		200			{object}	APIResponse[finance.DebtResponse]
//	@Security		BearerAuth
//	@Router			/debts/{id}/payments/{paymentId} [delete]
func (h *DebtHandler) DeletePayment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := h.pathID(c, "paymentId")
	if !ok {
		return
	}
	debt, err := h.debtService.DeletePayment(c.Request.Context(), h.scope(c), id, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, debt)
}
