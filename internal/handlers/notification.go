package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamtrackhq/teamtrack-api/internal/dto"
	apierrors "github.com/teamtrackhq/teamtrack-api/internal/errors"
	"github.com/teamtrackhq/teamtrack-api/internal/middleware"
	"github.com/teamtrackhq/teamtrack-api/internal/services"
	"github.com/teamtrackhq/teamtrack-api/internal/utils"
)

// NotificationHandler coordinates notification inbox HTTP handlers.
type NotificationHandler struct {
	inboxService *services.InboxService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(inboxService *services.InboxService) *NotificationHandler {
	return &NotificationHandler{
		inboxService: inboxService,
	}
}

func (h *NotificationHandler) listInput(c *gin.Context, params utils.PaginationParams) services.ListInput {
	return services.ListInput{
		Type:       c.Query("type"),
		ReadStatus: c.Query("read_status"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
		Page:       params.Page,
		PageSize:   params.Limit,
	}
}

// List returns the authenticated user's inbox.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}
	params := utils.GetPaginationParams(c)

	notifications, total, unread, err := h.inboxService.List(userID, h.listInput(c, params))
	if err != nil {
		apierrors.Respond(c, "Failed to list notifications", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"data":         dto.ToNotificationDTOs(notifications),
		"unread_count": unread,
		"pagination":   utils.NewPaginationResponse(params, total),
	})
}

// AdminFeed returns notifications addressed to admin users.
func (h *NotificationHandler) AdminFeed(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	notifications, total, err := h.inboxService.ListAdminFeed(h.listInput(c, params))
	if err != nil {
		apierrors.Respond(c, "Failed to list notifications", err)
		return
	}

	rows := make([]dto.AdminNotificationDTO, 0, len(notifications))
	for i := range notifications {
		rows = append(rows, dto.ToAdminNotificationDTO(&notifications[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       rows,
		"pagination": utils.NewPaginationResponse(params, total),
	})
}

// UnreadCount returns the user's unread notification count.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	count, err := h.inboxService.UnreadCount(userID)
	if err != nil {
		apierrors.Respond(c, "Failed to count notifications", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"unread_count": count},
	})
}

type notificationIDsRequest struct {
	IDs []uint64 `json:"notification_ids" binding:"required"`
}

// MarkRead marks the given notifications as read. Repeating the call is a
// no-op and reports zero marked rows.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	var req notificationIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	marked, err := h.inboxService.MarkRead(userID, req.IDs)
	if err != nil {
		apierrors.Respond(c, "Failed to mark notifications read", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Notifications marked as read",
		"marked_count": marked,
	})
}

// MarkUnread clears read state on the given notifications.
func (h *NotificationHandler) MarkUnread(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	var req notificationIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	cleared, err := h.inboxService.MarkUnread(userID, req.IDs)
	if err != nil {
		apierrors.Respond(c, "Failed to mark notifications unread", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Notifications marked as unread",
		"marked_count": cleared,
	})
}

// MarkAllRead marks the user's whole inbox as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	marked, err := h.inboxService.MarkAllRead(userID)
	if err != nil {
		apierrors.Respond(c, "Failed to mark notifications read", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "All notifications marked as read",
		"marked_count": marked,
	})
}

// Delete removes the given notifications from the user's inbox.
func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	var req notificationIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	deleted, err := h.inboxService.Delete(userID, req.IDs)
	if err != nil {
		apierrors.Respond(c, "Failed to delete notifications", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Notifications deleted",
		"deleted_count": deleted,
	})
}
