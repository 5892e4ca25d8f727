package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/progress-api/internal/dto"
	apierrors "github.com/yukikurage/progress-api/internal/errors"
	"github.com/yukikurage/progress-api/internal/services"
	"github.com/yukikurage/progress-api/internal/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications returns a page of the current user's notifications, newest first
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	notifications, total, err := h.notificationService.ListNotifications(userID, params)
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationListResponse(notifications, params, total))
}

// UnreadCount returns the number of pending notifications
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(userID)
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": count,
	})
}

// Accept accepts a pending community invitation
func (h *NotificationHandler) Accept(c *gin.Context) {
	h.act(c, h.notificationService.Accept, "Invitation accepted.")
}

// Reject rejects a pending community invitation
func (h *NotificationHandler) Reject(c *gin.Context) {
	h.act(c, h.notificationService.Reject, "Invitation rejected.")
}

// MarkRead marks a pending alert as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	h.act(c, h.notificationService.MarkRead, "Marked as read.")
}

// MarkAllRead marks every pending alert as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	count, err := h.notificationService.MarkAllRead(userID)
	if err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "All marked as read.",
		"count":  count,
	})
}

func (h *NotificationHandler) act(c *gin.Context, fn func(notificationID, recipientID uint64) error, status string) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	notificationID, ok := requireID(c, "notification")
	if !ok {
		return
	}

	if err := fn(notificationID, userID); err != nil {
		respondNotificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": status,
	})
}

func respondNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotificationNotFound):
		apierrors.NotFound(c, "Notification not found")
	case errors.Is(err, services.ErrAlreadyProcessed):
		apierrors.InvalidOperation(c, "Already processed.")
	case errors.Is(err, services.ErrNotAnInvitation):
		apierrors.InvalidOperation(c, "Only invitations can be accepted or rejected.")
	case errors.Is(err, services.ErrInvitationNeedsReply):
		apierrors.InvalidOperation(c, "Invitations must be accepted or rejected.")
	case errors.Is(err, services.ErrCommunityNotFound):
		apierrors.NotFound(c, "Community not found")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
