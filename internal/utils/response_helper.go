package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ksa-portal/admissions-api/internal/admission"
	"github.com/ksa-portal/admissions-api/internal/dao"
	"github.com/ksa-portal/admissions-api/internal/models"
	"github.com/ksa-portal/admissions-api/internal/service"
	"github.com/ksa-portal/admissions-api/pkg/utils"
)

// SendSuccessResponse sends a successful JSON response
func SendSuccessResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// SendErrorResponse sends an error JSON response
func SendErrorResponse(c *gin.Context, statusCode int, errCode, message, details string) {
	c.JSON(statusCode, models.ErrorResponse{
		Code:    errCode,
		Message: message,
		Details: details,
	})
}

// SendCreatedResponse sends a 201 Created response
func SendCreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// SendOKResponse sends a 200 OK response
func SendOKResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendBadRequestError sends a 400 Bad Request error
func SendBadRequestError(c *gin.Context, message, details string) {
	SendErrorResponse(c, http.StatusBadRequest, models.ErrCodeBadRequest, message, details)
}

// SendUnauthorizedError sends a 401 Unauthorized error
func SendUnauthorizedError(c *gin.Context, message string) {
	SendErrorResponse(c, http.StatusUnauthorized, models.ErrCodeUnauthorized, message, "")
}

// SendNotFoundError sends a 404 Not Found error
func SendNotFoundError(c *gin.Context, message string) {
	SendErrorResponse(c, http.StatusNotFound, models.ErrCodeNotFound, message, "")
}

// SendConflictError sends a 409 Conflict error
func SendConflictError(c *gin.Context, message string) {
	SendErrorResponse(c, http.StatusConflict, models.ErrCodeConflict, message, "")
}

// SendInternalServerError sends a 500 Internal Server Error
func SendInternalServerError(c *gin.Context, message, details string) {
	SendErrorResponse(c, http.StatusInternalServerError, models.ErrCodeInternalError, message, details)
}

// SendValidationError sends a validation error response
func SendValidationError(c *gin.Context, details string) {
	SendErrorResponse(c, http.StatusBadRequest, models.ErrCodeValidationError, "Validation failed", details)
}

// SendServiceError maps a service-layer error onto the wire error contract.
// Domain errors carry enough context to be shown to the caller; anything
// unrecognized becomes an opaque 500.
func SendServiceError(c *gin.Context, err error) {
	switch {
	case admission.IsValidationError(err):
		SendErrorResponse(c, http.StatusBadRequest, models.ErrCodeValidationError, "Validation failed", err.Error())
	case admission.IsEligibilityError(err):
		SendErrorResponse(c, http.StatusBadRequest, models.ErrCodeNotEligible, "Not eligible", err.Error())
	case admission.IsTransitionError(err):
		SendErrorResponse(c, http.StatusConflict, models.ErrCodeConflict, "Invalid status change", err.Error())
	case errors.Is(err, service.ErrDuplicateNationalID):
		SendErrorResponse(c, http.StatusBadRequest, models.ErrCodeDuplicateID, "Duplicate application", err.Error())
	case errors.Is(err, service.ErrNotAuthorized):
		SendUnauthorizedError(c, err.Error())
	case errors.Is(err, dao.ErrNotFound):
		SendNotFoundError(c, "Application not found")
	default:
		SendInternalServerError(c, "Internal server error", "")
	}
}

// GetAdminIDFromContext extracts the authenticated admin label from context
func GetAdminIDFromContext(c *gin.Context) string {
	adminID, exists := c.Get("adminID")
	if !exists {
		return ""
	}
	return adminID.(string)
}

// GetCorrelationIDFromContext extracts correlation ID from context
func GetCorrelationIDFromContext(c *gin.Context) string {
	correlationID, exists := c.Get("correlationID")
	if !exists {
		return utils.GenerateID()
	}
	return correlationID.(string)
}
