package handler

import (
	financeapp "github.com/erp/accounting/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// TransactionHandler serves income and expense endpoints
type TransactionHandler struct {
	BaseHandler
	transactionService *financeapp.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *financeapp.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// Create godoc
//
//	@Summary		Record transaction
//	@Description	Record an income or expense. Accountants always write into their own branch.
//	@Tags			transactions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		finance.CreateTransactionRequest	true	"Transaction"
//	@Success		201		{object}	APIResponse[finance.TransactionResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req financeapp.CreateTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tx, err := h.transactionService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// GetByID godoc
//
//	@Summary		Get transaction
//	@Tags			transactions
//	@Produce		json
//	@Param			id	path		string	true	"Transaction ID"	format(uuid)
//	@Success		200	{object}	APIResponse[finance.TransactionResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	tx, err := h.transactionService.GetByID(c.Request.Context(), h.scope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// List godoc
//
//	@Summary		List transactions
//	@Tags			transactions
//	@Produce		json
//	@Param			branch_id	query		string	false	"Branch (admins only)"	format(uuid)
//	@Param			type		query		string	false	"Type"					Enums(INCOME, EXPENSE)
//	@Param			category	query		string	false	"Category"
//	@Param			source		query		string	false	"Source"	Enums(MANUAL, PAYABLE_PAYMENT, RECEIVABLE_RECEIPT, PAYROLL)
//	@Param			from		query		string	false	"From date (YYYY-MM-DD)"
//	@Param			to			query		string	false	"To date (YYYY-MM-DD)"
//	@Param			page		query		int		false	"Page"		default(1)
//	@Param			page_size	query		int		false	"Page size"	default(20)
//	@Success		200			{object}	APIResponse[[]finance.TransactionResponse]
//	@Security		BearerAuth
//	@Router			/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	var filter financeapp.TransactionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	items, total, err := h.transactionService.List(c.Request.Context(), h.scope(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Update godoc
//
//	@Summary		Update transaction
//	@Description	System generated transactions are read-only
//	@Tags			transactions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Transaction ID"	format(uuid)
//	@Param			request	body		finance.UpdateTransactionRequest	true	"Transaction"
//	@Success		200		{object}	APIResponse[finance.TransactionResponse]
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.UpdateTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tx, err := h.transactionService.Update(c.Request.Context(), h.scope(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tx)
}

// Delete godoc
//
//	@Summary		Delete transaction
//	@Tags			transactions
//	@Param			id	path	string	true	"Transaction ID"	format(uuid)
//	@Success		204
//	@Failure		422	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.transactionService.Delete(c.Request.Context(), h.scope(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Categories godoc
//
//	@Summary		Transaction categories
//	@Description	Distinct categories in use, optionally limited to one type
//	@Tags			transactions
//	@Produce		json
//	@Param			type	query		string	false	"Type"	Enums(INCOME, EXPENSE)
//	@Success		200		{object}	APIResponse[[]string]
//	@Security		BearerAuth
//	@Router			/transactions/categories [get]
func (h *TransactionHandler) Categories(c *gin.Context) {
	categories, err := h.transactionService.Categories(c.Request.Context(), h.scope(c), c.Query("type"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// Summary godoc
//
//	@Summary		Transaction summary
//	@Description	Income, expense and net for a period with per-category totals
//	@Tags			transactions
//	@Produce		json
//	@Param			from	query		string	false	"From date (YYYY-MM-DD)"
//	@Param			to		query		string	false	"To date (YYYY-MM-DD)"
//	@Success		200		{object}	APIResponse[finance.TransactionSummaryResponse]
//	@Security		BearerAuth
//	@Router			/transactions/summary [get]
func (h *TransactionHandler) Summary(c *gin.Context) {
	summary, err := h.transactionService.Summary(c.Request.Context(), h.scope(c), c.Query("from"), c.Query("to"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// CreateAttachmentUpload godoc
//
//	@Summary		Attachment upload URL
//	@Description	Presign a PUT URL for the transaction's receipt scan. Answers STORAGE_DISABLED without object storage.
//	@Tags			transactions
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Transaction ID"	format(uuid)
//	@Param			request	body		finance.AttachmentUploadRequest	true	"Content type"
//	@Success		200		{object}	APIResponse[finance.AttachmentURLResponse]
//	@Failure		503		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions/{id}/attachment-url [post]
func (h *TransactionHandler) CreateAttachmentUpload(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.AttachmentUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	url, err := h.transactionService.CreateAttachmentUploadURL(c.Request.Context(), h.scope(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, url)
}

// GetAttachment godoc
//
//	@Summary		Attachment download URL
//	@Tags			transactions
//	@Produce		json
//	@Param			id	path		string	true	"Transaction ID"	format(uuid)
//	@Success		200	{object}	APIResponse[finance.AttachmentURLResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/transactions/{id}/attachment [get]
func (h *TransactionHandler) GetAttachment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	url, err := h.transactionService.GetAttachmentURL(c.Request.Context(), h.scope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, url)
}
