package handler

import (
	inventoryapp "github.com/erp/accounting/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// InventoryHandler serves stock items and their movements
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// CreateItem godoc
//
//	@Summary		Create item
//	@Description	SKUs are unique per branch
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			request	body		inventory.CreateItemRequest	true	"Item"
//	@Success		201		{object}	APIResponse[inventory.ItemResponse]
//	@Failure		409		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/inventory/items [post]
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req inventoryapp.CreateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.inventoryService.CreateItem(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// GetItem godoc
//
//	@Summary		Get item
//	@Tags			inventory
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"	format(uuid)
//	@Success		200	{object}	APIResponse[inventory.ItemResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/inventory/items/{id} [get]
func (h *InventoryHandler) GetItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.inventoryService.GetItem(c.Request.Context(), h.scope(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListItems godoc
//
//	@Summary		List items
//	@Tags			inventory
//	@Produce		json
//	@Param			branch_id	query		string	false	"Branch (admins only)"	format(uuid)
//	@Param			search		query		string	false	"SKU or name"
//	@Param			category	query		string	false	"Category"
//	@Param			low_stock	query		bool	false	"Only items at or below their minimum"
//	@Param			page		query		int		false	"Page"		default(1)
//	@Param			page_size	query		int		false	"Page size"	default(20)
//	@Success		200			{object}	APIResponse[[]inventory.ItemResponse]
//	@Security		BearerAuth
//	@Router			/inventory/items [get]
func (h *InventoryHandler) ListItems(c *gin.Context) {
	var filter inventoryapp.ItemListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	items, total, err := h.inventoryService.ListItems(c.Request.Context(), h.scope(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// LowStock godoc
//
//	@Summary		Low stock items
//	@Tags			inventory
//	@Produce		json
//	@Param			page		query		int	false	"Page"		default(1)
//	@Param			page_size	query		int	false	"Page size"	default(20)
//	@Success		200			{object}	APIResponse[[]inventory.ItemResponse]
//	@Security		BearerAuth
//	@Router			/inventory/items/low-stock [get]
func (h *InventoryHandler) LowStock(c *gin.Context) {
	page, ok := h.queryInt(c, "page", 1)
	if !ok {
		return
	}
	pageSize, ok := h.queryInt(c, "page_size", 20)
	if !ok {
		return
	}
	page, pageSize = pageOf(page, pageSize)

	items, total, err := h.inventoryService.LowStock(c.Request.Context(), h.scope(c), page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// UpdateItem godoc
//
//	@Summary		Update item
//	@Description	Quantity only changes through movements
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Item ID"	format(uuid)
//	@Param			request	body		inventory.UpdateItemRequest	true	"Changes"
//	@Success		200		{object}	APIResponse[inventory.ItemResponse]
//	@Security		BearerAuth
//	@Router			/inventory/items/{id} [put]
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.inventoryService.UpdateItem(c.Request.Context(), h.scope(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// DeleteItem godoc
//
//	@Summary		Delete item
//	@Tags			inventory
//	@Param			id	path	string	true	"Item ID"	format(uuid)
//	@Success		204
//	@Failure		409	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/inventory/items/{id} [delete]
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.inventoryService.DeleteItem(c.Request.Context(), h.scope(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RecordMovement godoc
//
//	@Summary		Record stock movement
//	@Description	IN adds stock, OUT removes it and ADJUSTMENT sets the counted quantity. Stock never goes negative.
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Item ID"	format(uuid)
//	@Param			request	body		inventory.RecordMovementRequest	true	"Movement"
//	@Success		201		{object}	APIResponse[inventory.MovementResult]
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/inventory/items/{id}/movements [post]
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.RecordMovementRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.inventoryService.RecordMovement(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListMovements godoc
//
//	@Summary		List stock movements
//	@Tags			inventory
//	@Produce		json
//	@Param			item_id		query		string	false	"Item"	format(uuid)
//	@Param			type		query		string	false	"Type"	Enums(IN, OUT, ADJUSTMENT)
//	@Param			from		query		string	false	"From date (YYYY-MM-DD)"
//	@Param			to			query		string	false	"To date (YYYY-MM-DD)"
//	@Param			page		query		int		false	"Page"		default(1)
//	@Param			page_size	query		int		false	"Page size"	default(20)
//	@Success		200			{object}	APIResponse[[]inventory.MovementResponse]
//	@Security		BearerAuth
//	@Router			/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var filter inventoryapp.MovementListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	movements, total, err := h.inventoryService.ListMovements(c.Request.Context(), h.scope(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// Valuation godoc
//
//	@Summary		Stock valuation
//	@Tags			inventory
//	@Produce		json
//	@Success		200	{object}	APIResponse[inventory.ValuationResponse]
//	@Security		BearerAuth
//	@Router			/inventory/valuation [get]
func (h *InventoryHandler) Valuation(c *gin.Context) {
	valuation, err := h.inventoryService.Valuation(c.Request.Context(), h.scope(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, valuation)
}
