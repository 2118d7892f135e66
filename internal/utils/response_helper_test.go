package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ksa-portal/admissions-api/internal/admission"
	"github.com/ksa-portal/admissions-api/internal/dao"
	"github.com/ksa-portal/admissions-api/internal/service"
)

func TestSendServiceErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "validation error",
			err:        &admission.ValidationError{Field: "dob", Reason: "required"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "eligibility error",
			err:        &admission.EligibilityError{Reason: "minimum D plain required"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "NOT_ELIGIBLE",
		},
		{
			name:       "transition error",
			err:        &admission.TransitionError{From: admission.StatusApproved, To: admission.StatusRejected, Reason: "finalized"},
			wantStatus: http.StatusConflict,
			wantCode:   "CONFLICT",
		},
		{
			name:       "duplicate national ID",
			err:        service.ErrDuplicateNationalID,
			wantStatus: http.StatusBadRequest,
			wantCode:   "DUPLICATE_ID",
		},
		{
			name:       "not authorized",
			err:        service.ErrNotAuthorized,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "not found",
			err:        dao.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "unknown error is opaque",
			err:        errors.New("driver: bad connection"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			SendServiceError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
			if tt.wantCode == "INTERNAL_ERROR" {
				assert.NotContains(t, w.Body.String(), "bad connection", "internal details stay out of responses")
			}
		})
	}
}

func TestCalculatePaginationMetadata(t *testing.T) {
	meta := CalculatePaginationMetadata(45, 20, 20)

	assert.Equal(t, 45, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasMore)

	last := CalculatePaginationMetadata(45, 20, 40)
	assert.False(t, last.HasMore)
}
