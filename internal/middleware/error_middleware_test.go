package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/cleartrack/internal/app/models/dto"
	"github.com/yigit/cleartrack/internal/pkg/apperrors"
)

func respondWith(t *testing.T, err error) (int, *dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	HandleAPIError(ctx, err)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, &body
}

func TestHandleAPIErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"user not found", apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"request already submitted", apperrors.ErrRequestAlreadySubmitted, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"self deletion", apperrors.ErrSelfDeletion, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"unsupported format", apperrors.ErrUnsupportedFormat, http.StatusBadRequest, dto.ErrorCodeUnsupportedFormat},
		{"missing columns", apperrors.ErrMissingColumns, http.StatusBadRequest, dto.ErrorCodeMissingColumns},
		{"reset token used", apperrors.ErrResetTokenUsed, http.StatusBadRequest, dto.ErrorCodeInvalidToken},
		{"unknown error", fmt.Errorf("database exploded"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := respondWith(t, tc.err)

			assert.Equal(t, tc.status, status)
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.code, body.Error.Code)
			assert.False(t, body.Success)
		})
	}
}

func TestHandleAPIErrorWrappedSentinel(t *testing.T) {
	status, body := respondWith(t, fmt.Errorf("context: %w", apperrors.ErrClearanceIncomplete))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, dto.ErrorCodeValidationFailed, body.Error.Code)
}

func TestHandleAPIErrorCustomErrorOverrides(t *testing.T) {
	err := apperrors.NewCustomError(
		apperrors.ErrMissingColumns,
		"required columns missing: University ID",
	).WithDetails(map[string]interface{}{"missing": []string{"University ID"}})

	status, body := respondWith(t, err)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, dto.ErrorCodeMissingColumns, body.Error.Code)
	assert.Equal(t, "required columns missing: University ID", body.Error.Message)
	assert.NotNil(t, body.Error.Details)
}

func TestHandleAPIErrorInternalMessageNotLeaked(t *testing.T) {
	_, body := respondWith(t, fmt.Errorf("pq: connection refused"))

	assert.Equal(t, "Internal server error", body.Error.Message)
}
