package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	contactapp "github.com/erp/accounting/internal/application/contact"
	"github.com/erp/accounting/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContactHandler serves customers and suppliers
type ContactHandler struct {
	BaseHandler
	contactService *contactapp.Service
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *contactapp.Service) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Create godoc
//
//	@Summary		Create contact
//	@Description	Names are unique per branch, case-insensitively
//	@Tags			contacts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		contact.CreateContactRequest	true	"Contact"
//	@Success		201		{object}	APIResponse[contact.ContactResponse]
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req contactapp.CreateContactRequest
	if !h.bindJSON(c, &req) {
		return
	}
	contact, err := h.contactService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contact)
}

// GetByID godoc
//
//	@Summary		Get contact
//	@Tags			contacts
//	@Produce		json
//	@Param			id	path		string	true	"Contact ID"	format(uuid)
//	@Success		200	{object}	APIResponse[contact.ContactResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/contacts/{id} [get]
func (h *ContactHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	contact, err := h.contactService.GetByID(c.Request.Context(), h.scope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contact)
}

// List godoc
//
//	@Summary		List contacts
//	@Tags			contacts
//	@Produce		json
//	@Param			branch_id	query		string	false	"Branch (admins only)"	format(uuid)
//	@Param			search		query		string	false	"Name, phone or email"
//	@Param			type		query		string	false	"Type"	Enums(CUSTOMER, SUPPLIER, BOTH)
//	@Param			is_active	query		bool	false	"Active flag"
//	@Param			page		query		int		false	"Page"		default(1)
//	@Param			page_size	query		int		false	"Page size"	default(20)
//	@Success		200			{object}	APIResponse[[]contact.ContactResponse]
//	@Security		BearerAuth
//	@Router			/contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	var filter contactapp.ContactListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	contacts, total, err := h.contactService.List(c.Request.Context(), h.scope(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, contacts, total, filter.Page, filter.PageSize)
}

// Update godoc
//
//	@Summary		Update contact
//	@Description	Narrowing the type is refused while open documents of the dropped side exist
//	@Tags			contacts
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Contact ID"	format(uuid)
//	@Param			request	body		contact.UpdateContactRequest	true	"Changes"
//	@Success		200		{object}	APIResponse[contact.ContactResponse]
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/contacts/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req contactapp.UpdateContactRequest
	if !h.bindJSON(c, &req) {
		return
	}
	contact, err := h.contactService.Update(c.Request.Context(), h.scope(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contact)
}

// Delete godoc
//
//	@Summary		Delete contact
//	@Tags			contacts
//	@Param			id	path	string	true	"Contact ID"	format(uuid)
//	@Success		204
//	@Failure		409	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.contactService.Delete(c.Request.Context(), h.scope(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Balance godoc
//
//	@Summary		Contact balance
//	@Description	Outstanding payables and receivables of the contact
//	@Tags			contacts
//	@Produce		json
//	@Param			id	path		string	true	"Contact ID"	format(uuid)
//	@Success		200	{object}	APIResponse[contact.Balance]
//	@Security		BearerAuth
//	@Router			/contacts/{id}/balance [get]
func (h *ContactHandler) Balance(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	balance, err := h.contactService.Balance(c.Request.Context(), h.scope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// Import godoc
//
//	@Summary		Import contacts
//	@Description	Import contacts from a CSV file. Rows that fail validation are reported, the rest are stored.
//	@Tags			contacts
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file		formData	file	true	"CSV file"
//	@Param			branch_id	formData	string	false	"Target branch (admins only)"
//	@Success		200			{object}	APIResponse[contact.ImportResult]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		413			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/contacts/import [post]
func (h *ContactHandler) Import(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A CSV file is required in the 'file' field")
		return
	}
	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".csv" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Only .csv files are accepted")
		return
	}

	var requested *uuid.UUID
	if raw := c.PostForm("branch_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "branch_id must be a UUID")
			return
		}
		requested = &id
	} else {
		requested = h.scope(c).BranchID
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	result, err := h.contactService.Import(c.Request.Context(), actor, requested, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
