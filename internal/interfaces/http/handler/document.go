package handler

import (
	financeapp "github.com/erp/accounting/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// PayableHandler serves accounts payable
type PayableHandler struct {
	BaseHandler
	payableService *financeapp.PayableService
}

// NewPayableHandler creates a new PayableHandler
func NewPayableHandler(payableService *financeapp.PayableService) *PayableHandler {
	return &PayableHandler{payableService: payableService}
}

// Create godoc
//
//	@Summary		Create payable
//	@Description	The contact must be a supplier (or BOTH) in the same branch
//	@Tags			payables
//	@Accept			json
//	@Produce		json
//	@Param			request	body		finance.CreateDocumentRequest	true	"Payable"
//	@Success		201		{object}	APIResponse[finance.PayableResponse]
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payables [post]
func (h *PayableHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req financeapp.CreateDocumentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ap, err := h.payableService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ap)
}

// GetByID godoc
//
//	@Summary		Get payable
//	@Tags			payables
//	@Produce		json
//	@Param			id	path		string	true	"Payable ID"	format(uuid)
//	@Success		200	{object}	APIResponse[finance.PayableResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payables/{id} [get]
func (h *PayableHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	ap, err := h.payableService.GetByID(c.Request.Context(), h.scope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ap)
}

// List godoc
//
//	@Summary		List payables
//	@Tags			payables
//	@Produce		json
//	@Param			branch_id	query		string	false	"Branch (admins only)"	format(uuid)
//	@Param			status		query		string	false	"Status"				Enums(PENDING, PARTIAL, PAID, CANCELLED)
//	@Param			contact_id	query		string	false	"Supplier"				format(uuid)
//	@Param			overdue		query		bool	false	"Only overdue"
//	@Param			page		query		int		false	"Page"		default(1)
//	@Param			page_size	query		int		false	"Page size"	default(20)
//	@Success		200			{object}	APIResponse[[]finance.PayableResponse]
//	@Security		BearerAuth
//	@Router			/payables [get]
func (h *PayableHandler) List(c *gin.Context) {
	var filter financeapp.DocumentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	items, total, err := h.payableService.List(c.Request.Context(), h.scope(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Update godoc
//
//	@Summary		Update payable
//	@Tags			payables
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Payable ID"	format(uuid)
//	@Param			request	body		finance.UpdateDocumentRequest	true	"Changes"
//	@Success		200		{object}	APIResponse[finance.PayableResponse]
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payables/{id} [put]
func (h *PayableHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.UpdateDocumentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ap, err := h.payableService.Update(c.Request.Context(), h.scope(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ap)
}

// Cancel godoc
//
//	@Summary		Cancel payable
//	@Description	Only payables without payments can be cancelled
//	@Tags			payables
//	@Produce		json
//	@Param			id	path		string	true	"Payable ID"	format(uuid)
//	@Success		200	{object}	APIResponse[finance.PayableResponse]
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payables/{id}/cancel [post]
func (h *PayableHandler) Cancel(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	ap, err := h.payableService.Cancel(c.Request.Context(), h.scope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ap)
}

// Delete godoc
//
//	@Summary		Delete payable
//	@Tags			payables
//	@Param			id	path	string	true	"Payable ID"	format(uuid)
//	@Success		204
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payables/{id} [delete]
func (h *PayableHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.payableService.Delete(c.Request.Context(), h.scope(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RecordPayment godoc
//
//	@Summary		Record payable payment
//	@Description	Apply a payment. With record_expense an EXPENSE transaction is booked atomically.
//	@Tags			payables
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Payable ID"	format(uuid)
//	@Param			request	body		finance.RecordPaymentRequest	true	"Payment"
//	@Success		201		{object}	APIResponse[finance.SettlementResponse]
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/payables/{id}/payments [post]
func (h *PayableHandler) RecordPayment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.payableService.RecordPayment(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// DeletePayment godoc
//
//	@Summary		Delete payable payment
//	@Description	Reverses the payment and its linked transaction
//	@Tags			payables
//	@Produce		json
//	@Param			id			path		string	true	"Payable ID"	format(uuid)
//	@Param			paymentId	path		string	true	"Payment ID"	format(uuid)
//	@Success		200			{object}	APIResponse[finance.PayableResponse]
//	@Security		BearerAuth
//	@Router			/payables/{id}/payments/{paymentId} [delete]
func (h *PayableHandler) DeletePayment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := h.pathID(c, "paymentId")
	if !ok {
		return
	}
	ap, err := h.payableService.DeletePayment(c.Request.Context(), h.scope(c), id, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ap)
}

// Summary godoc
//
//	@Summary		Payables summary
//	@Tags			payables
//	@Produce		json
//	@Param			window_days	query		int	false	"Due-soon window in days"	default(7)
//	@Success		200			{object}	APIResponse[finance.DocumentSummary]
//	@Security		BearerAuth
//	@Router			/payables/summary [get]
func (h *PayableHandler) Summary(c *gin.Context) {
	window, ok := h.queryInt(c, "window_days", 0)
	if !ok {
		return
	}
	summary, err := h.payableService.Summary(c.Request.Context(), h.scope(c), window)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Aging godoc
//
//	@Summary		Payables aging
//	@Description	Outstanding amounts bucketed by days past due
//	@Tags			payables
//	@Produce		json
//	@Param			as_of	query		string	false	"As-of date (YYYY-MM-DD)"
//	@Success		200		{object}	APIResponse[finance.AgingReport]
//	@Security		BearerAuth
//	@Router			/payables/aging [get]
func (h *PayableHandler) Aging(c *gin.Context) {
	report, err := h.payableService.Aging(c.Request.Context(), h.scope(c), c.Query("as_of"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// ReceivableHandler serves accounts receivable
type ReceivableHandler struct {
	BaseHandler
	receivableService *financeapp.ReceivableService
}

// NewReceivableHandler creates a new ReceivableHandler
func NewReceivableHandler(receivableService *financeapp.ReceivableService) *ReceivableHandler {
	return &ReceivableHandler{receivableService: receivableService}
}

// Create godoc
//
//	@Summary		Create receivable
//	@Description	The contact must be a customer (or BOTH) in the same branch
//	@Tags			receivables
//	@Accept			json
//	@Produce		json
//	@Param			request	body		finance.CreateDocumentRequest	true	"Receivable"
//	@Success		201		{object}	APIResponse[finance.ReceivableResponse]
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/receivables [post]
func (h *ReceivableHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req financeapp.CreateDocumentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ar, err := h.receivableService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ar)
}

// GetByID godoc
//
//	@Summary		Get receivable
//	@Tags			receivables
//	@Produce		json
//	@Param			id	path		string	true	"Receivable ID"	format(uuid)
//	@Success		200	{object}	APIResponse[finance.ReceivableResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/receivables/{id} [get]
func (h *ReceivableHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	ar, err := h.receivableService.GetByID(c.Request.Context(), h.scope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ar)
}

// List godoc
//
//	@Summary		List receivables
//	@Tags			receivables
//	@Produce		json
//	@Param			branch_id	query		string	false	"Branch (admins only)"	format(uuid)
//	@Param			status		query		string	false	"Status"				Enums(PENDING, PARTIAL, PAID, CANCELLED)
//	@Param			contact_id	query		string	false	"Customer"				format(uuid)
//	@Param			overdue		query		bool	false	"Only overdue"
//	@Param			page		query		int		false	"Page"		default(1)
//	@Param			page_size	query		int		false	"Page size"	default(20)
//	@Success		200			{object}	APIResponse[[]finance.ReceivableResponse]
//	@Security		BearerAuth
//	@Router			/receivables [get]
func (h *ReceivableHandler) List(c *gin.Context) {
	var filter financeapp.DocumentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	items, total, err := h.receivableService.List(c.Request.Context(), h.scope(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Update godoc
//
//	@Summary		Update receivable
//	@Tags			receivables
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Receivable ID"	format(uuid)
//	@Param			request	body		finance.UpdateDocumentRequest	true	"Changes"
//	@Success		200		{object}	APIResponse[finance.ReceivableResponse]
//	@Security		BearerAuth
//	@Router			/receivables/{id} [put]
func (h *ReceivableHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.UpdateDocumentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ar, err := h.receivableService.Update(c.Request.Context(), h.scope(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ar)
}

// Cancel godoc
//
//	@Summary		Cancel receivable
//	@Tags			receivables
//	@Produce		json
//	@Param			id	path		string	true	"Receivable ID"	format(uuid)
//	@Success		200	{object}	APIResponse[finance.ReceivableResponse]
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/receivables/{id}/cancel [post]
func (h *ReceivableHandler) Cancel(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	ar, err := h.receivableService.Cancel(c.Request.Context(), h.scope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ar)
}

// Delete godoc
//
//	@Summary		Delete receivable
//	@Tags			receivables
//	@Param			id	path	string	true	"Receivable ID"	format(uuid)
//	@Success		204
//	@Security		BearerAuth
//	@Router			/receivables/{id} [delete]
func (h *ReceivableHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.receivableService.Delete(c.Request.Context(), h.scope(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RecordReceipt godoc
//
//	@Summary		Record receivable receipt
//	@Description	Apply a receipt. With record_income an INCOME transaction is booked atomically.
//	@Tags			receivables
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Receivable ID"	format(uuid)
//	@Param			request	body		finance.RecordPaymentRequest	true	"Receipt"
//	@Success		201		{object}	APIResponse[finance.SettlementResponse]
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/receivables/{id}/receipts [post]
func (h *ReceivableHandler) RecordReceipt(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.receivableService.RecordReceipt(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// DeleteReceipt godoc
//
//	@Summary		Delete receivable receipt
//	@Tags			receivables
//	@Produce		json
//	@Param			id			path		string	true	"Receivable ID"	format(uuid)
//	@Param			receiptId	path		string	true	"Receipt ID"	format(uuid)
//	@Success		200			{object}	APIResponse[finance.ReceivableResponse]
//	@Security		BearerAuth
//	@Router			/receivables/{id}/receipts/{receiptId} [delete]
func (h *ReceivableHandler) DeleteReceipt(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	receiptID, ok := h.pathID(c, "receiptId")
	if !ok {
		return
	}
	ar, err := h.receivableService.DeleteReceipt(c.Request.Context(), h.scope(c), id, receiptID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ar)
}

// Summary godoc
//
//	@Summary		Receivables summary
//	@Tags			receivables
//	@Produce		json
//	@Param			window_days	query		int	false	"Due-soon window in days"	default(7)
//	@Success		200			{object}	APIResponse[finance.DocumentSummary]
//	@Security		BearerAuth
//	@Router			/receivables/summary [get]
func (h *ReceivableHandler) Summary(c *gin.Context) {
	window, ok := h.queryInt(c, "window_days", 0)
	if !ok {
		return
	}
	summary, err := h.receivableService.Summary(c.Request.Context(), h.scope(c), window)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Aging godoc
//
//	@Summary		Receivables aging
//	@Tags			receivables
//	@Produce		json
//	@Param			as_of	query		string	false	"As-of date (YYYY-MM-DD)"
//	@Success		200		{object}	APIResponse[finance.AgingReport]
//	@Security		BearerAuth
//	@Router			/receivables/aging [get]
func (h *ReceivableHandler) Aging(c *gin.Context) {
	report, err := h.receivableService.Aging(c.Request.Context(), h.scope(c), c.Query("as_of"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
