package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		category   ErrorCategory
		httpStatus int
		contains   string
	}{
		{
			name:       "validation",
			err:        NewValidationError("request must include date and assignment_group"),
			category:   CategoryValidation,
			httpStatus: http.StatusBadRequest,
			contains:   "assignment_group",
		},
		{
			name:       "invalid date",
			err:        NewInvalidDateError("15-03-2024", fmt.Errorf("parse error")),
			category:   CategoryValidation,
			httpStatus: http.StatusBadRequest,
			contains:   "YYYY-MM-DD",
		},
		{
			name:       "unknown category",
			err:        NewUnknownCategoryError("Database Team"),
			category:   CategoryUnknownCategory,
			httpStatus: http.StatusBadRequest,
			contains:   "Database Team",
		},
		{
			name:       "artifact",
			err:        NewArtifactError("incident_model.json", fmt.Errorf("no such file")),
			category:   CategoryArtifact,
			httpStatus: http.StatusInternalServerError,
			contains:   "incident_model.json",
		},
		{
			name:       "predictor",
			err:        NewPredictorError(fmt.Errorf("dimension mismatch")),
			category:   CategoryPredictor,
			httpStatus: http.StatusInternalServerError,
			contains:   "Prediction failed",
		},
		{
			name:       "rate limit",
			err:        NewRateLimitError("60"),
			category:   CategoryRateLimit,
			httpStatus: http.StatusTooManyRequests,
			contains:   "Rate limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
			assert.Contains(t, tt.err.ErrBuilder.Msg, tt.contains)
			assert.False(t, tt.err.Timestamp.IsZero())
		})
	}
}

func TestUnwrapReturnsCause(t *testing.T) {
	cause := fmt.Errorf("no such file")
	err := NewArtifactError("feature_order.json", cause)

	require.Error(t, err.Unwrap())
	assert.ErrorContains(t, err.Unwrap(), "no such file")
}

func TestToAppError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.Nil(t, ToAppError(nil))
	})

	t.Run("app error unchanged", func(t *testing.T) {
		original := NewValidationError("bad input")
		assert.Same(t, original, ToAppError(original))
	})

	t.Run("context deadline becomes timeout", func(t *testing.T) {
		err := ToAppError(context.DeadlineExceeded)
		assert.Equal(t, CategoryTimeout, err.Category)
		assert.Equal(t, http.StatusGatewayTimeout, err.HTTPStatus)
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		err := ToAppError(fmt.Errorf("boom"))
		assert.Equal(t, CategoryInternal, err.Category)
		assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	})
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(NewInvalidDateError("soon", nil)))
	assert.True(t, IsClientError(NewUnknownCategoryError("Unmapped Team")))
	assert.True(t, IsClientError(NewRateLimitError("60")))
	assert.False(t, IsClientError(NewPredictorError(fmt.Errorf("boom"))))
	assert.False(t, IsClientError(NewArtifactError("incident_scaler.json", nil)))
}
