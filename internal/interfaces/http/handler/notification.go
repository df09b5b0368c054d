package handler

import (
	notificationapp "github.com/erp/accounting/internal/application/notification"
	"github.com/gin-gonic/gin"
)

// NotificationHandler serves the caller's notification inbox
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.Service
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notificationapp.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List godoc
//
//	@Summary		List notifications
//	@Description	Rows addressed to the caller plus the broadcasts visible to them
//	@Tags			notifications
//	@Produce		json
//	@Param			unread_only	query		bool	false	"Only unread"
//	@Param			type		query		string	false	"Type"
//	@Param			page		query		int		false	"Page"		default(1)
//	@Param			page_size	query		int		false	"Page size"	default(20)
//	@Success		200			{object}	APIResponse[[]notification.NotificationResponse]
//	@Security		BearerAuth
//	@Router			/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter notificationapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageOf(filter.Page, filter.PageSize)

	items, total, err := h.notificationService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// UnreadCount godoc
//
//	@Summary		Unread count
//	@Tags			notifications
//	@Produce		json
//	@Success		200	{object}	APIResponse[notification.UnreadCountResponse]
//	@Security		BearerAuth
//	@Router			/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	count, err := h.notificationService.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, count)
}

// MarkRead godoc
//
//	@Summary		Mark notification read
//	@Tags			notifications
//	@Produce		json
//	@Param			id	path		string	true	"Notification ID"	format(uuid)
//	@Success		200	{object}	APIResponse[notification.NotificationResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	n, err := h.notificationService.MarkRead(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// MarkAllRead godoc
//
//	@Summary		Mark all notifications read
//	@Tags			notifications
//	@Produce		json
//	@Success		200	{object}	APIResponse[CountData]
//	@Security		BearerAuth
//	@Router			/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	n, err := h.notificationService.MarkAllRead(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: n})
}

// Delete godoc
//
//	@Summary		Delete notification
//	@Description	Broadcasts can only be removed by an admin
//	@Tags			notifications
//	@Param			id	path	string	true	"Notification ID"	format(uuid)
//	@Success		204
//	@Failure		403	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notificationService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Broadcast godoc
//
//	@Summary		Broadcast announcement
//	@Description	Send a SYSTEM notification to one branch or to every branch
//	@Tags			notifications
//	@Accept			json
//	@Produce		json
//	@Param			request	body		notification.BroadcastRequest	true	"Announcement"
//	@Success		201		{object}	APIResponse[notification.NotificationResponse]
//	@Failure		403		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/notifications/broadcast [post]
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req notificationapp.BroadcastRequest
	if !h.bindJSON(c, &req) {
		return
	}
	n, err := h.notificationService.Broadcast(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, n)
}
