package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksa-portal/admissions-api/internal/config"
	"github.com/ksa-portal/admissions-api/internal/models"
	"github.com/ksa-portal/admissions-api/internal/service"
)

// stubApplicantStore serves a fixed page; unimplemented methods panic via
// the embedded interface.
type stubApplicantStore struct {
	service.ApplicantStore
	applicants []models.Applicant
	total      int
	gotLimit   int
	gotOffset  int
}

func (s *stubApplicantStore) List(ctx context.Context, limit, offset int) ([]models.Applicant, int, error) {
	s.gotLimit = limit
	s.gotOffset = offset
	return s.applicants, s.total, nil
}

func newListTestRouter(store *stubApplicantStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	adminService := service.NewAdminService(store, nil, nil, nil, nil, nil, &config.Config{}, logger)
	handler := NewAdminHandler(adminService)

	router := gin.New()
	router.GET("/admin/applicants", handler.ListApplicants)
	return router
}

func TestListApplicantsReturnsPaginationMetadata(t *testing.T) {
	store := &stubApplicantStore{
		applicants: []models.Applicant{{ID: "APP-1"}, {ID: "APP-2"}},
		total:      45,
	}
	router := newListTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/admin/applicants?limit=20&offset=20", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response ApplicantListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Len(t, response.Applicants, 2)
	require.NotNil(t, response.Pagination)
	assert.Equal(t, 45, response.Pagination.Total)
	assert.Equal(t, 20, response.Pagination.Limit)
	assert.Equal(t, 20, response.Pagination.Offset)
	assert.True(t, response.Pagination.HasMore)
	assert.Equal(t, 3, response.Pagination.TotalPages)
}

func TestListApplicantsClampsQueryParams(t *testing.T) {
	store := &stubApplicantStore{total: 0}
	router := newListTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/admin/applicants?limit=9999&offset=-3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, store.gotLimit)
	assert.Equal(t, 0, store.gotOffset)
}
