package handler

import (
	"github.com/gin-gonic/gin"

	notificationapp "github.com/pmo/backend/internal/application/notification"
)

// NotificationHandler handles the caller's notification feed. Every
// operation is owner-scoped; admins get no special treatment here.
type NotificationHandler struct {
	BaseHandler
	service *notificationapp.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(service *notificationapp.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List godoc
// @ID           listNotifications
// @Summary      List the caller's notifications
// @Description  Returns the caller's notifications, newest first
// @Tags         notifications
// @Produce      json
// @Success      200 {object} APIResponse[[]notificationapp.NotificationResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	notifications, err := h.service.List(c.Request.Context(), p)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, notifications)
}

// UnreadCount godoc
// @ID           getUnreadNotificationCount
// @Summary      Count the caller's unread notifications
// @Description  Served through the unread-count cache
// @Tags         notifications
// @Produce      json
// @Success      200 {object} APIResponse[notificationapp.UnreadCountResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), p)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, count)
}

// MarkRead godoc
// @ID           markNotificationRead
// @Summary      Mark a notification as read
// @Description  Only the notification's owner may mark it
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if _, err := h.service.MarkRead(c.Request.Context(), p, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessMessage(c, "Notification marked as read")
}

// MarkAllRead godoc
// @ID           markAllNotificationsRead
// @Summary      Mark all of the caller's notifications as read
// @Tags         notifications
// @Produce      json
// @Success      200 {object} MessageResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	if err := h.service.MarkAllRead(c.Request.Context(), p); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessMessage(c, "All notifications marked as read")
}

// Delete godoc
// @ID           deleteNotification
// @Summary      Delete a notification
// @Description  Only the notification's owner may delete it
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), p, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessMessage(c, "Notification deleted")
}
