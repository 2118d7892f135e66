package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ksa-portal/admissions-api/internal/models"
	"github.com/ksa-portal/admissions-api/internal/service"
	"github.com/ksa-portal/admissions-api/internal/storage"
	"github.com/ksa-portal/admissions-api/internal/utils"
)

// maxFormUploadBytes caps completed-form uploads.
const maxFormUploadBytes = 10 << 20

// ApplicationHandler handles the applicant-facing HTTP requests
type ApplicationHandler struct {
	applicationService *service.ApplicationService
	forms              *storage.FormStore
}

// NewApplicationHandler creates a new application handler instance
func NewApplicationHandler(applicationService *service.ApplicationService, forms *storage.FormStore) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
		forms:              forms,
	}
}

// SubmitApplication handles POST /applications
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	var request models.ApplicationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	meta := models.SubmissionMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	result, err := h.applicationService.Submit(c.Request.Context(), &request, meta)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendCreatedResponse(c, result)
}

// CheckStatus handles POST /applications/status-check. A lookup miss is a
// 200 with found=false, not a 404, so the status page cannot be used to
// probe which national IDs exist.
func (h *ApplicationHandler) CheckStatus(c *gin.Context) {
	var request models.StatusCheckRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.applicationService.CheckStatus(c.Request.Context(), request.NationalID, request.Phone)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, result)
}

// CorrectApplication handles POST /applications/:id/correction
func (h *ApplicationHandler) CorrectApplication(c *gin.Context) {
	var request models.CorrectionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	applicant, err := h.applicationService.Correct(c.Request.Context(), c.Param("id"), &request)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, applicant)
}

// UploadForm handles POST /applications/:id/form (multipart)
func (h *ApplicationHandler) UploadForm(c *gin.Context) {
	nationalID := c.PostForm("nationalId")
	if nationalID == "" {
		utils.SendValidationError(c, "nationalId is required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.SendBadRequestError(c, "A form file is required", err.Error())
		return
	}
	if fileHeader.Size > maxFormUploadBytes {
		utils.SendValidationError(c, "file exceeds the 10MB upload limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.SendBadRequestError(c, "Failed to read uploaded file", err.Error())
		return
	}
	defer file.Close()

	result, err := h.applicationService.AttachForm(c.Request.Context(), c.Param("id"), nationalID, fileHeader.Filename, file)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, result)
}

// DownloadForm handles GET /forms/*path. The link must carry a valid
// signature and an unexpired deadline issued by the admin API.
func (h *ApplicationHandler) DownloadForm(c *gin.Context) {
	storagePath := c.Param("path")
	if len(storagePath) > 0 && storagePath[0] == '/' {
		storagePath = storagePath[1:]
	}

	expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
	if err != nil {
		utils.SendBadRequestError(c, "Invalid download link", "expires must be a unix timestamp")
		return
	}

	if err := h.forms.Verify(storagePath, expires, c.Query("sig"), time.Now()); err != nil {
		switch {
		case errors.Is(err, storage.ErrLinkExpired):
			utils.SendErrorResponse(c, http.StatusGone, models.ErrCodeUnauthorized, "Download link has expired", "")
		default:
			utils.SendUnauthorizedError(c, "Invalid download link")
		}
		return
	}

	file, err := h.forms.Open(storagePath)
	if err != nil {
		utils.SendNotFoundError(c, "Form not found")
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		utils.SendInternalServerError(c, "Failed to read form", "")
		return
	}

	c.DataFromReader(http.StatusOK, info.Size(), "application/octet-stream", file, map[string]string{
		"Content-Disposition": `attachment; filename="` + info.Name() + `"`,
	})
}
