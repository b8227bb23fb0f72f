package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/cleartrack/internal/app/models"
	"github.com/yigit/cleartrack/internal/app/models/dto"
	"github.com/yigit/cleartrack/internal/app/services"
	"github.com/yigit/cleartrack/internal/middleware"
)

// notificationListResponse pairs the inbox with its unread count.
type notificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
}

// NotificationController handles the in-app inbox endpoints
type NotificationController struct {
	notificationService *services.NotificationService
	logger              zerolog.Logger
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService, logger zerolog.Logger) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		logger:              logger,
	}
}

// ListNotifications returns the caller's inbox
// @Summary List notifications
// @Description Returns the caller's notifications newest first, with the unread count as it was before this call.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse
// @Router /notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		abortUnauthenticated(ctx)
		return
	}

	notifications, unread, err := c.notificationService.ListMine(ctx.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      notificationListResponse{Notifications: notifications, UnreadCount: unread},
		Timestamp: time.Now(),
	})
}

// MarkAllRead marks the caller's whole inbox as read
// @Summary Mark notifications read
// @Description Marks every notification of the caller as read.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /notifications/mark-read [post]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		abortUnauthenticated(ctx)
		return
	}

	if err := c.notificationService.MarkAllRead(ctx.Request.Context(), user.ID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "All notifications marked read"},
		Timestamp: time.Now(),
	})
}
