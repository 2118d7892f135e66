package service

import (
	"context"
	"errors"
	"time"

	"github.com/ksa-portal/admissions-api/internal/admission"
	"github.com/ksa-portal/admissions-api/internal/dao"
	"github.com/ksa-portal/admissions-api/internal/database"
	"github.com/ksa-portal/admissions-api/internal/models"
)

// isNotFound reports whether err is a missing-record error from the DAO
// layer.
func isNotFound(err error) bool {
	return errors.Is(err, dao.ErrNotFound)
}

// Service-level sentinel errors
var (
	// ErrDuplicateNationalID is returned when a submission already exists
	// for the presented national ID.
	ErrDuplicateNationalID = errors.New("application already exists for this national ID")

	// ErrNotAuthorized is returned when an applicant-facing operation is
	// attempted with a reference/national ID pair that does not match.
	ErrNotAuthorized = errors.New("invalid reference or national ID")
)

// ApplicantStore is the persistence surface the services need for
// applicants.
type ApplicantStore interface {
	CreateWithTx(ctx context.Context, tx *database.Transaction, applicant *models.Applicant) error
	GetByID(ctx context.Context, id string) (*models.Applicant, error)
	GetByIDWithTx(ctx context.Context, tx *database.Transaction, id string) (*models.Applicant, error)
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
	GetLatestByCredentials(ctx context.Context, nationalID, phone string) (*models.Applicant, error)
	List(ctx context.Context, limit, offset int) ([]models.Applicant, int, error)
	ListAll(ctx context.Context) ([]models.Applicant, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Applicant, error)
	UpdateStatusWithTx(ctx context.Context, tx *database.Transaction, id string, status admission.Status, note *string) error
	ApplyCorrectionWithTx(ctx context.Context, tx *database.Transaction, applicant *models.Applicant) error
	SetFormSubmitted(ctx context.Context, id, path string, at time.Time) error
	MarkEmailSent(ctx context.Context, id string) error
}

// MessageStore is the persistence surface for application messages
type MessageStore interface {
	Create(ctx context.Context, message *models.ApplicationMessage) error
	CreateBatch(ctx context.Context, messages []models.ApplicationMessage) error
	ListByApplicant(ctx context.Context, applicantID string) ([]models.ApplicationMessage, error)
}

// AuditStore is the persistence surface for the audit trail
type AuditStore interface {
	Create(ctx context.Context, entry *models.AuditLogEntry) error
	CreateWithTx(ctx context.Context, tx *database.Transaction, entry *models.AuditLogEntry) error
}
