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

// ClearanceController handles the sign-off workflow endpoints
type ClearanceController struct {
	clearanceService *services.ClearanceService
	logger           zerolog.Logger
}

// NewClearanceController creates a new ClearanceController
func NewClearanceController(clearanceService *services.ClearanceService, logger zerolog.Logger) *ClearanceController {
	return &ClearanceController{
		clearanceService: clearanceService,
		logger:           logger,
	}
}

// MyClearance returns the student's own progress
// @Summary My clearance
// @Description Returns the student's records per department with the completion rollup. Requested is false before the student has submitted.
// @Tags clearance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ClearanceResponse}
// @Router /clearance/me [get]
func (c *ClearanceController) MyClearance(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		abortUnauthenticated(ctx)
		return
	}

	resp, err := c.clearanceService.MyClearance(ctx.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// SubmitRequest opens the student's clearance request
// @Summary Submit clearance request
// @Description Creates one pending record per configured department and notifies each department's officer. Submitting twice fails.
// @Tags clearance
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.APIResponse{data=dto.ClearanceResponse}
// @Failure 409 {object} dto.ErrorResponse "Request already submitted"
// @Router /clearance/request [post]
func (c *ClearanceController) SubmitRequest(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		abortUnauthenticated(ctx)
		return
	}

	if err := c.clearanceService.SubmitRequest(ctx.Request.Context(), user); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.clearanceService.MyClearance(ctx.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// ClearanceForm returns the printable final form
// @Summary Final clearance form
// @Description Returns the data of the printable clearance form. Only available once every department has approved.
// @Tags clearance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ClearanceFormResponse}
// @Failure 400 {object} dto.ErrorResponse "Clearance not complete"
// @Router /clearance/me/form [get]
func (c *ClearanceController) ClearanceForm(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		abortUnauthenticated(ctx)
		return
	}

	form, err := c.clearanceService.ClearanceForm(ctx.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: form, Timestamp: time.Now()})
}

// DepartmentRecords lists the officer's queue
// @Summary Department records
// @Description Lists every clearance record addressed to the officer's department, student details included.
// @Tags clearance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.ClearanceRecord}
// @Router /clearance/department [get]
func (c *ClearanceController) DepartmentRecords(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		abortUnauthenticated(ctx)
		return
	}

	records, err := c.clearanceService.DepartmentRecords(ctx.Request.Context(), user)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: records, Timestamp: time.Now()})
}

// DecideRecord records the officer's decision on one record
// @Summary Decide clearance record
// @Description Approves or rejects one record of the officer's own department and notifies the student.
// @Tags clearance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Param request body dto.DecisionRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.ClearanceRecord}
// @Failure 403 {object} dto.ErrorResponse "Record belongs to another department"
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /clearance/records/{id} [put]
func (c *ClearanceController) DecideRecord(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		abortUnauthenticated(ctx)
		return
	}
	id, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.DecisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	record, err := c.clearanceService.DecideRecord(ctx.Request.Context(), user, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: record, Timestamp: time.Now()})
}

// Dashboard returns the admin monitoring view
// @Summary Admin dashboard
// @Description Returns totals and the per-student progress over every student. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse}
// @Router /admin/dashboard [get]
func (c *ClearanceController) Dashboard(ctx *gin.Context) {
	resp, err := c.clearanceService.Dashboard(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build dashboard")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// ResetCycle starts a new clearance cycle
// @Summary Reset clearance cycle
// @Description Deletes every clearance record and notification so a new term can start with the same accounts. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ResetCycleResponse}
// @Router /admin/clearances/reset [post]
func (c *ClearanceController) ResetCycle(ctx *gin.Context) {
	resp, err := c.clearanceService.ResetCycle(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp, Timestamp: time.Now()})
}

// abortUnauthenticated writes the standard missing-authentication response.
func abortUnauthenticated(ctx *gin.Context) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}
