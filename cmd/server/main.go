package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ksa-portal/admissions-api/internal/config"
	"github.com/ksa-portal/admissions-api/internal/dao"
	"github.com/ksa-portal/admissions-api/internal/database"
	"github.com/ksa-portal/admissions-api/internal/mailer"
	"github.com/ksa-portal/admissions-api/internal/router"
	"github.com/ksa-portal/admissions-api/internal/service"
	"github.com/ksa-portal/admissions-api/internal/storage"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// Set Gin to release mode by default (can be overridden by GIN_MODE env var)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	logger.WithFields(logrus.Fields{
		"version":    version,
		"build_date": buildDate,
	}).Info("Starting Admissions API Server...")

	// Load configuration
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// Set log level from config
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Logging.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	}

	logger.WithField("log_level", logger.GetLevel().String()).Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.Initialize(&cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}

	// Verify database connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		logger.WithError(err).Fatal("Database health check failed")
	}

	logger.Info("Database connection established successfully")

	// Initialize DAOs
	applicantDAO := dao.NewApplicantDAO(db)
	messageDAO := dao.NewMessageDAO(db)
	auditLogDAO := dao.NewAuditLogDAO(db)

	// Initialize mail delivery
	var mail mailer.Service
	switch cfg.Email.Provider {
	case "sendgrid":
		mail = mailer.NewSendgridService(&cfg.Email, logger)
	default:
		mail = mailer.NewConsoleService(logger)
	}
	logger.WithField("provider", cfg.Email.Provider).Info("Mailer initialized")

	// Initialize form storage
	forms, err := storage.NewFormStore(&cfg.Storage)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize form storage")
	}

	// Initialize services
	applicationService := service.NewApplicationService(
		applicantDAO,
		messageDAO,
		auditLogDAO,
		db,
		mail,
		forms,
		cfg,
		logger,
	)

	adminService := service.NewAdminService(
		applicantDAO,
		messageDAO,
		auditLogDAO,
		db,
		mail,
		forms,
		cfg,
		logger,
	)

	logger.Info("Services initialized successfully")

	// Setup router
	ginRouter := router.SetupRouter(applicationService, adminService, forms, db, cfg, logger)

	// Configure HTTP server
	serverAddr := cfg.Server.GetServerAddress()
	server := &http.Server{
		Addr:           serverAddr,
		Handler:        ginRouter,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}
	if cfg.Server.ReadTimeout > 0 {
		server.ReadTimeout = cfg.Server.ReadTimeout
	}
	if cfg.Server.WriteTimeout > 0 {
		server.WriteTimeout = cfg.Server.WriteTimeout
	}
	if cfg.Server.IdleTimeout > 0 {
		server.IdleTimeout = cfg.Server.IdleTimeout
	}

	// Start server in a goroutine
	go func() {
		logger.WithField("addr", serverAddr).Info("Starting HTTP server...")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	logger.WithField("address", serverAddr).Info("✓ Server is running")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	if err := db.Close(); err != nil {
		logger.WithError(err).Error("Failed to close database")
	}

	logger.Info("Server exited gracefully")
}
