package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ksa-portal/admissions-api/internal/config"
	"github.com/ksa-portal/admissions-api/internal/models"
)

// AdminAuthMiddleware gates the back-office routes behind the configured
// capability tokens. The resolved admin label is stored in the context so
// handlers can attribute actions in the audit trail.
func AdminAuthMiddleware(security *config.SecurityConfig, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Admin-Token")
		adminID, ok := security.ResolveAdminToken(token)
		if !ok {
			logger.WithFields(logrus.Fields{
				"path":      c.Request.URL.Path,
				"client_ip": c.ClientIP(),
			}).Warn("Rejected admin request with invalid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Code:    models.ErrCodeUnauthorized,
				Message: "A valid admin token is required",
			})
			return
		}

		c.Set("adminID", adminID)
		c.Next()
	}
}
