package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/ksa-portal/admissions-api/internal/admission"
	"github.com/ksa-portal/admissions-api/internal/config"
	"github.com/ksa-portal/admissions-api/internal/database"
	"github.com/ksa-portal/admissions-api/internal/handlers"
	"github.com/ksa-portal/admissions-api/internal/middleware"
	"github.com/ksa-portal/admissions-api/internal/service"
	"github.com/ksa-portal/admissions-api/internal/storage"
)

// SetupRouter configures all API routes
func SetupRouter(
	applicationService *service.ApplicationService,
	adminService *service.AdminService,
	forms *storage.FormStore,
	db *database.DB,
	cfg *config.Config,
	logger *logrus.Logger,
) *gin.Engine {
	registerValidators()

	router := gin.Default()
	router.Use(middleware.CorrelationIDMiddleware())
	if cfg.CORS.Enabled {
		router.Use(middleware.CORSMiddleware(middleware.CORSOptions{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   cfg.CORS.AllowedMethods,
			AllowedHeaders:   cfg.CORS.AllowedHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
		}))
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		if err := db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	applicationHandler := handlers.NewApplicationHandler(applicationService, forms)
	adminHandler := handlers.NewAdminHandler(adminService)

	v1 := router.Group("/api/v1")
	{
		// Applicant-facing routes
		applications := v1.Group("/applications")
		{
			applications.POST("", applicationHandler.SubmitApplication)
			applications.POST("/status-check", applicationHandler.CheckStatus)
			applications.POST("/:id/correction", applicationHandler.CorrectApplication)
			applications.POST("/:id/form", applicationHandler.UploadForm)
		}

		// Signed form downloads
		v1.GET("/forms/*path", applicationHandler.DownloadForm)

		// Back-office routes
		admin := v1.Group("/admin", middleware.AdminAuthMiddleware(&cfg.Security, logger))
		{
			admin.GET("/applicants", adminHandler.ListApplicants)
			admin.GET("/applicants/:id", adminHandler.GetApplicant)
			admin.GET("/applicants/:id/messages", adminHandler.ListMessages)
			admin.POST("/applicants/:id/status", adminHandler.UpdateStatus)
			admin.POST("/bulk-status", adminHandler.BulkUpdateStatus)
			admin.POST("/send-email", adminHandler.SendBulkEmail)
			admin.GET("/stats", adminHandler.GetStats)
			admin.GET("/dashboard", adminHandler.GetDashboard)
			admin.GET("/fraud", adminHandler.GetFraudReport)
			admin.POST("/signed-url", adminHandler.CreateSignedURL)
		}
	}

	return router
}

// registerValidators wires the domain grade scale into the binding layer so
// malformed grades are rejected before they reach the service.
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("kcsegrade", func(fl validator.FieldLevel) bool {
			return admission.Grade(fl.Field().String()).Validate() == nil
		})
	}
}
