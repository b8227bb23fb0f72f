package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/cleartrack/internal/app/models/dto"
	"github.com/yigit/cleartrack/internal/app/services"
	"github.com/yigit/cleartrack/internal/middleware"
)

// PushController handles browser push subscription endpoints
type PushController struct {
	pushService *services.PushService
	logger      zerolog.Logger
}

// NewPushController creates a new PushController
func NewPushController(pushService *services.PushService, logger zerolog.Logger) *PushController {
	return &PushController{
		pushService: pushService,
		logger:      logger,
	}
}

// PublicKey exposes the VAPID public key
// @Summary VAPID public key
// @Description Returns the public key the browser needs to subscribe for push.
// @Tags push
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.PublicKeyResponse}
// @Router /push/public-key [get]
func (c *PushController) PublicKey(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.PublicKeyResponse{PublicKey: c.pushService.PublicKey()},
		Timestamp: time.Now(),
	})
}

// SaveSubscription registers the caller's browser endpoint
// @Summary Save push subscription
// @Description Registers a browser push subscription for the caller. Re-registering the same endpoint is a no-op.
// @Tags push
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SaveSubscriptionRequest true "Browser subscription"
// @Success 201 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /push/subscriptions [post]
func (c *PushController) SaveSubscription(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		abortUnauthenticated(ctx)
		return
	}

	var req dto.SaveSubscriptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.pushService.SaveSubscription(ctx.Request.Context(), user.ID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Subscription saved"},
		Timestamp: time.Now(),
	})
}

// DeleteSubscription removes one of the caller's endpoints
// @Summary Delete push subscription
// @Description Removes the caller's subscription for the given endpoint.
// @Tags push
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DeleteSubscriptionRequest true "Endpoint to remove"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "No such subscription"
// @Router /push/subscriptions [delete]
func (c *PushController) DeleteSubscription(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		abortUnauthenticated(ctx)
		return
	}

	var req dto.DeleteSubscriptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.pushService.DeleteSubscription(ctx.Request.Context(), user.ID, req.Endpoint); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Subscription removed"},
		Timestamp: time.Now(),
	})
}
