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

// ImportController handles the bulk student import endpoint
type ImportController struct {
	importService *services.ImportService
	logger        zerolog.Logger
}

// NewImportController creates a new ImportController
func NewImportController(importService *services.ImportService, logger zerolog.Logger) *ImportController {
	return &ImportController{
		importService: importService,
		logger:        logger,
	}
}

// ImportStudents bulk-creates student accounts from a spreadsheet
// @Summary Import students
// @Description Creates one student account per row of an uploaded .xlsx/.xls file. Generated one-time passwords are returned in the response and are not shown again. Admin only.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Spreadsheet with University ID and Full Name columns"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResult}
// @Failure 400 {object} dto.ErrorResponse "Unsupported format or missing columns"
// @Router /admin/imports/students [post]
func (c *ImportController) ImportStudents(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Missing file upload")
		errorDetail = errorDetail.WithDetails("Send the spreadsheet as multipart field 'file'")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to open uploaded file")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Failed to read upload")
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
		return
	}
	defer file.Close()

	result, err := c.importService.ImportStudents(ctx.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result, Timestamp: time.Now()})
}
