package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/cleartrack/internal/app/models/dto"
	"github.com/yigit/cleartrack/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto the standard error envelope. Any
// error not in the table is reported as an internal server error without
// leaking its text to the client.
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := classifyError(err)

	errorDetail := dto.NewErrorDetail(code, message)
	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		if custom.Message != "" {
			errorDetail.Message = custom.Message
		}
		if custom.Details != nil {
			errorDetail = errorDetail.WithDetails(custom.Details)
		}
	}

	c.JSON(status, dto.NewErrorResponse(errorDetail))
}

func classifyError(err error) (int, dto.ErrorCode, string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"

	case errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"
	case errors.Is(err, apperrors.ErrClearanceRecordNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Clearance record not found"
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"

	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"
	case errors.Is(err, apperrors.ErrUsernameAlreadyExists):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Username already exists"
	case errors.Is(err, apperrors.ErrUniversityIDExists):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "University ID already exists"
	case errors.Is(err, apperrors.ErrRequestAlreadySubmitted):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Clearance request already submitted"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"

	case errors.Is(err, apperrors.ErrSelfDeletion):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Cannot delete own account"
	case errors.Is(err, apperrors.ErrUnknownDepartment):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Unknown department"
	case errors.Is(err, apperrors.ErrClearanceIncomplete):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Clearance is not complete"
	case errors.Is(err, apperrors.ErrInvalidResetToken):
		return http.StatusBadRequest, dto.ErrorCodeInvalidToken, "Invalid or expired reset token"
	case errors.Is(err, apperrors.ErrResetTokenUsed):
		return http.StatusBadRequest, dto.ErrorCodeInvalidToken, "Reset token has already been used"

	case errors.Is(err, apperrors.ErrUnsupportedFormat):
		return http.StatusBadRequest, dto.ErrorCodeUnsupportedFormat, "Unsupported file format"
	case errors.Is(err, apperrors.ErrMissingColumns):
		return http.StatusBadRequest, dto.ErrorCodeMissingColumns, "Required columns missing"
	case errors.Is(err, apperrors.ErrSpreadsheetParse):
		return http.StatusBadRequest, dto.ErrorCodeParseFailed, "Failed to parse spreadsheet"

	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Bad request"

	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"
	}
}
