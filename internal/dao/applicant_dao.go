package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ksa-portal/admissions-api/internal/admission"
	"github.com/ksa-portal/admissions-api/internal/database"
	"github.com/ksa-portal/admissions-api/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

const applicantColumns = `id, full_name, email, phone_number, national_id, county_of_residence,
	       dob, calculated_age, highest_qualification, kcse_mean_grade, course_track,
	       preferred_campus, mpesa_code, status, admin_note, submitted_form_path,
	       form_submitted_at, email_sent, ip_address, device_type, created_at`

// ApplicantDAO handles database operations for applicants
type ApplicantDAO struct {
	db *database.DB
}

// NewApplicantDAO creates a new ApplicantDAO instance
func NewApplicantDAO(db *database.DB) *ApplicantDAO {
	return &ApplicantDAO{db: db}
}

// CreateWithTx inserts a new applicant using a transaction
func (dao *ApplicantDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, applicant *models.Applicant) error {
	query := `
		INSERT INTO applicants (
			id, full_name, email, phone_number, national_id, county_of_residence,
			dob, calculated_age, highest_qualification, kcse_mean_grade, course_track,
			preferred_campus, mpesa_code, status, admin_note, submitted_form_path,
			form_submitted_at, email_sent, ip_address, device_type, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(
		ctx,
		query,
		applicant.ID,
		applicant.FullName,
		applicant.Email,
		applicant.PhoneNumber,
		applicant.NationalID,
		applicant.County,
		applicant.DOB,
		applicant.CalculatedAge,
		applicant.HighestQualification,
		applicant.KCSEMeanGrade,
		applicant.CourseTrack,
		applicant.PreferredCampus,
		applicant.MpesaCode,
		applicant.Status,
		applicant.AdminNote,
		applicant.SubmittedFormPath,
		applicant.FormSubmittedAt,
		applicant.EmailSent,
		applicant.IPAddress,
		applicant.DeviceType,
		applicant.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create applicant: %w", err)
	}

	return nil
}

// GetByID retrieves an applicant by ID
func (dao *ApplicantDAO) GetByID(ctx context.Context, id string) (*models.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE id = ?`

	var applicant models.Applicant
	err := dao.db.GetContext(ctx, &applicant, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("applicant %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get applicant: %w", err)
	}

	return &applicant, nil
}

// GetByIDWithTx retrieves an applicant by ID using a transaction
func (dao *ApplicantDAO) GetByIDWithTx(ctx context.Context, tx *database.Transaction, id string) (*models.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE id = ?`

	var applicant models.Applicant
	err := tx.GetContext(ctx, &applicant, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("applicant %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get applicant: %w", err)
	}

	return &applicant, nil
}

// ExistsByNationalID reports whether a submission already exists for the
// given national ID.
func (dao *ApplicantDAO) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	query := `SELECT COUNT(1) FROM applicants WHERE national_id = ?`

	var count int
	if err := dao.db.GetContext(ctx, &count, query, nationalID); err != nil {
		return false, fmt.Errorf("failed to check national ID: %w", err)
	}

	return count > 0, nil
}

// GetLatestByCredentials retrieves the newest applicant matching the status
// page credentials (national ID + phone number).
func (dao *ApplicantDAO) GetLatestByCredentials(ctx context.Context, nationalID, phone string) (*models.Applicant, error) {
	query := `SELECT ` + applicantColumns + `
		FROM applicants
		WHERE national_id = ? AND phone_number = ?
		ORDER BY created_at DESC
		LIMIT 1`

	var applicant models.Applicant
	err := dao.db.GetContext(ctx, &applicant, query, nationalID, phone)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no application for credentials: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get applicant by credentials: %w", err)
	}

	return &applicant, nil
}

// List retrieves applicants ordered newest first, with total count
func (dao *ApplicantDAO) List(ctx context.Context, limit, offset int) ([]models.Applicant, int, error) {
	query := `SELECT ` + applicantColumns + `
		FROM applicants
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`

	applicants := []models.Applicant{}
	if err := dao.db.SelectContext(ctx, &applicants, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list applicants: %w", err)
	}

	var total int
	if err := dao.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM applicants`); err != nil {
		return nil, 0, fmt.Errorf("failed to count applicants: %w", err)
	}

	return applicants, total, nil
}

// ListAll retrieves every applicant for read-time aggregations (stats,
// dashboard, fraud report).
func (dao *ApplicantDAO) ListAll(ctx context.Context) ([]models.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants ORDER BY created_at DESC`

	applicants := []models.Applicant{}
	if err := dao.db.SelectContext(ctx, &applicants, query); err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}

	return applicants, nil
}

// GetByIDs retrieves applicants matching the given IDs
func (dao *ApplicantDAO) GetByIDs(ctx context.Context, ids []string) ([]models.Applicant, error) {
	if len(ids) == 0 {
		return []models.Applicant{}, nil
	}

	query, args, err := sqlx.In(`SELECT `+applicantColumns+` FROM applicants WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build applicant query: %w", err)
	}

	applicants := []models.Applicant{}
	if err := dao.db.SelectContext(ctx, &applicants, dao.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get applicants by IDs: %w", err)
	}

	return applicants, nil
}

// UpdateStatusWithTx updates the workflow status and admin note of an
// applicant using a transaction. A nil note clears the column.
func (dao *ApplicantDAO) UpdateStatusWithTx(ctx context.Context, tx *database.Transaction, id string, status admission.Status, note *string) error {
	query := `UPDATE applicants SET status = ?, admin_note = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, status, note, id)
	if err != nil {
		return fmt.Errorf("failed to update applicant status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("applicant %s: %w", id, ErrNotFound)
	}

	return nil
}

// ApplyCorrectionWithTx writes the bounded correction field set along with
// the PENDING status and cleared note.
func (dao *ApplicantDAO) ApplyCorrectionWithTx(ctx context.Context, tx *database.Transaction, applicant *models.Applicant) error {
	query := `
		UPDATE applicants
		SET full_name = ?, email = ?, phone_number = ?, county_of_residence = ?,
		    dob = ?, calculated_age = ?, highest_qualification = ?, kcse_mean_grade = ?,
		    course_track = ?, preferred_campus = ?, status = ?, admin_note = NULL
		WHERE id = ?
	`

	result, err := tx.ExecContext(
		ctx,
		query,
		applicant.FullName,
		applicant.Email,
		applicant.PhoneNumber,
		applicant.County,
		applicant.DOB,
		applicant.CalculatedAge,
		applicant.HighestQualification,
		applicant.KCSEMeanGrade,
		applicant.CourseTrack,
		applicant.PreferredCampus,
		applicant.Status,
		applicant.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to apply correction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("applicant %s: %w", applicant.ID, ErrNotFound)
	}

	return nil
}

// SetFormSubmitted records the stored path and timestamp of the uploaded
// completed form.
func (dao *ApplicantDAO) SetFormSubmitted(ctx context.Context, id, path string, at time.Time) error {
	query := `UPDATE applicants SET submitted_form_path = ?, form_submitted_at = ? WHERE id = ?`

	result, err := dao.db.ExecContext(ctx, query, path, at, id)
	if err != nil {
		return fmt.Errorf("failed to record form submission: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("applicant %s: %w", id, ErrNotFound)
	}

	return nil
}

// MarkEmailSent flags that the confirmation email was delivered
func (dao *ApplicantDAO) MarkEmailSent(ctx context.Context, id string) error {
	query := `UPDATE applicants SET email_sent = 1 WHERE id = ?`

	if _, err := dao.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark email sent: %w", err)
	}

	return nil
}
