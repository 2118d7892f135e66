package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ksa-portal/admissions-api/internal/models"
	"github.com/ksa-portal/admissions-api/internal/service"
	"github.com/ksa-portal/admissions-api/internal/utils"
)

// AdminHandler handles the back-office HTTP requests
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new admin handler instance
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ApplicantListResponse is the paginated applicant listing payload
type ApplicantListResponse struct {
	Applicants []models.Applicant        `json:"applicants"`
	Pagination *utils.PaginationMetadata `json:"pagination"`
}

// ListApplicants handles GET /admin/applicants
func (h *AdminHandler) ListApplicants(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	params := utils.NewPaginationParams(limit, offset)

	result, err := h.adminService.ListApplicants(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, ApplicantListResponse{
		Applicants: result.Applicants,
		Pagination: utils.CalculatePaginationMetadata(result.Total, result.Limit, result.Offset),
	})
}

// GetApplicant handles GET /admin/applicants/:id
func (h *AdminHandler) GetApplicant(c *gin.Context) {
	applicant, err := h.adminService.GetApplicant(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, applicant)
}

// ListMessages handles GET /admin/applicants/:id/messages
func (h *AdminHandler) ListMessages(c *gin.Context) {
	messages, err := h.adminService.ListMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, messages)
}

// UpdateStatus handles POST /admin/applicants/:id/status
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var request models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	adminID := utils.GetAdminIDFromContext(c)
	applicant, err := h.adminService.UpdateStatus(c.Request.Context(), adminID, c.Param("id"), &request)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, applicant)
}

// BulkUpdateStatus handles POST /admin/bulk-status
func (h *AdminHandler) BulkUpdateStatus(c *gin.Context) {
	var request models.BulkStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	adminID := utils.GetAdminIDFromContext(c)
	result, err := h.adminService.BulkUpdateStatus(c.Request.Context(), adminID, &request)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, result)
}

// SendBulkEmail handles POST /admin/send-email
func (h *AdminHandler) SendBulkEmail(c *gin.Context) {
	var request models.BulkEmailRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	adminID := utils.GetAdminIDFromContext(c)
	result, err := h.adminService.SendBulkEmail(c.Request.Context(), adminID, &request)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, result)
}

// GetStats handles GET /admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, stats)
}

// GetDashboard handles GET /admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, dashboard)
}

// GetFraudReport handles GET /admin/fraud
func (h *AdminHandler) GetFraudReport(c *gin.Context) {
	report, err := h.adminService.FraudReport(c.Request.Context())
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, report)
}

// CreateSignedURL handles POST /admin/signed-url
func (h *AdminHandler) CreateSignedURL(c *gin.Context) {
	var request models.SignedURLRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.adminService.SignedFormURL(request.Path)
	if err != nil {
		utils.SendBadRequestError(c, "Invalid form path", err.Error())
		return
	}

	utils.SendOKResponse(c, result)
}
