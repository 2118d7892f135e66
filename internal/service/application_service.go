package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ksa-portal/admissions-api/internal/admission"
	"github.com/ksa-portal/admissions-api/internal/config"
	"github.com/ksa-portal/admissions-api/internal/database"
	"github.com/ksa-portal/admissions-api/internal/mailer"
	"github.com/ksa-portal/admissions-api/internal/models"
	"github.com/ksa-portal/admissions-api/internal/storage"
	"github.com/ksa-portal/admissions-api/pkg/utils"
)

// ApplicationService handles the applicant-facing operations: submission,
// status checks, the correction cycle, and form uploads.
type ApplicationService struct {
	applicants ApplicantStore
	messages   MessageStore
	audits     AuditStore
	db         *database.DB
	mail       mailer.Service
	forms      *storage.FormStore
	portalURL  string
	formLinks  map[string]string
	logger     *logrus.Logger
	now        func() time.Time
}

// NewApplicationService creates a new application service instance
func NewApplicationService(
	applicants ApplicantStore,
	messages MessageStore,
	audits AuditStore,
	db *database.DB,
	mail mailer.Service,
	forms *storage.FormStore,
	cfg *config.Config,
	logger *logrus.Logger,
) *ApplicationService {
	return &ApplicationService{
		applicants: applicants,
		messages:   messages,
		audits:     audits,
		db:         db,
		mail:       mail,
		forms:      forms,
		portalURL:  cfg.Email.PortalURL,
		formLinks:  cfg.Admissions.FormLinks,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit processes a new admissions application. Age is always recomputed
// server-side from the date of birth; the course track is derived, never
// user-selectable.
func (s *ApplicationService) Submit(ctx context.Context, req *models.ApplicationRequest, meta models.SubmissionMeta) (*models.SubmissionResult, error) {
	now := s.now()

	dob, err := utils.ParseDate(utils.SanitizeString(req.DOB))
	if err != nil {
		return nil, &admission.ValidationError{Field: "dob", Reason: "valid date is required (YYYY-MM-DD)"}
	}
	if !dob.Before(now) {
		return nil, &admission.ValidationError{Field: "dob", Reason: "date of birth must be in the past"}
	}

	grade := admission.Grade(utils.SanitizeString(req.KCSEMeanGrade))
	if err := grade.Validate(); err != nil {
		return nil, err
	}

	age := admission.CalculateAge(dob, now)

	track, err := admission.ClassifyTrack(age, grade)
	if err != nil {
		return nil, err
	}

	campus := admission.Campus(utils.SanitizeString(req.PreferredCampus))
	if err := admission.ValidateCampus(track, campus); err != nil {
		return nil, err
	}
	if campus == "" {
		campus = admission.DefaultCampus(track)
	}

	email := utils.SanitizeString(req.Email)
	if err := utils.ValidateEmail(email); err != nil {
		return nil, &admission.ValidationError{Field: "email", Reason: err.Error()}
	}

	mpesaCode := utils.SanitizeString(req.MpesaCode)
	if err := utils.ValidateMpesaCode(mpesaCode); err != nil {
		return nil, &admission.ValidationError{Field: "mpesaCode", Reason: err.Error()}
	}

	nationalID := utils.SanitizeString(req.NationalID)
	if err := utils.ValidateNationalID(nationalID); err != nil {
		return nil, &admission.ValidationError{Field: "nationalId", Reason: err.Error()}
	}

	exists, err := s.applicants.ExistsByNationalID(ctx, nationalID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing application: %w", err)
	}
	if exists {
		return nil, ErrDuplicateNationalID
	}

	applicant := &models.Applicant{
		ID:                   utils.GenerateApplicantID(),
		FullName:             utils.SanitizeString(req.FullName),
		Email:                email,
		PhoneNumber:          utils.SanitizeString(req.PhoneNumber),
		NationalID:           nationalID,
		County:               utils.SanitizeString(req.County),
		DOB:                  dob,
		CalculatedAge:        age,
		HighestQualification: utils.SanitizeString(req.HighestQualification),
		CourseTrack:          track,
		MpesaCode:            mpesaCode,
		Status:               admission.StatusPending,
		EmailSent:            false,
		IPAddress:            meta.IPAddress,
		DeviceType:           utils.DeviceTypeFromUserAgent(meta.UserAgent),
		CreatedAt:            now,
	}
	if !grade.IsZero() {
		g := string(grade)
		applicant.KCSEMeanGrade = &g
	}
	if campus != "" {
		c := string(campus)
		applicant.PreferredCampus = &c
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		if err := s.applicants.CreateWithTx(ctx, tx, applicant); err != nil {
			return err
		}

		return s.audits.CreateWithTx(ctx, tx, newAuditEntry(s.now(), "system", models.AuditActionSubmit, applicant.ID, map[string]interface{}{
			"course_track": track,
			"device_type":  applicant.DeviceType,
		}))
	})
	if err != nil {
		return nil, err
	}

	emailSent := s.sendConfirmation(ctx, applicant)

	s.logger.WithFields(logrus.Fields{
		"applicant_id": applicant.ID,
		"course_track": track,
		"email_sent":   emailSent,
	}).Info("Application submitted")

	return &models.SubmissionResult{
		TrackingID:  applicant.ID,
		CourseTrack: track,
		EmailSent:   emailSent,
	}, nil
}

// sendConfirmation delivers the qualification email with the track form
// link. A delivery failure does not fail the submission; email_sent stays
// false so the send can be retried from the back office.
func (s *ApplicationService) sendConfirmation(ctx context.Context, applicant *models.Applicant) bool {
	msg, err := mailer.NewSubmissionConfirmation(
		applicant.FullName,
		applicant.Email,
		applicant.CourseTrack,
		s.formLink(applicant.CourseTrack),
		s.portalURL,
	)
	if err != nil {
		s.logger.WithError(err).Error("Failed to build confirmation email")
		return false
	}

	if err := s.mail.Send(ctx, msg); err != nil {
		s.logger.WithError(err).WithField("applicant_id", applicant.ID).Error("Failed to send confirmation email")
		return false
	}

	if err := s.applicants.MarkEmailSent(ctx, applicant.ID); err != nil {
		s.logger.WithError(err).WithField("applicant_id", applicant.ID).Error("Failed to mark email sent")
	}

	return true
}

// formLink returns the application form PDF link for a track. Certificate
// applicants fill the diploma form.
func (s *ApplicationService) formLink(track admission.Track) string {
	if link, ok := s.formLinks[string(track)]; ok && link != "" {
		return link
	}
	return s.formLinks[string(admission.TrackDiploma)]
}

// CheckStatus looks up the newest application matching the presented
// national ID and phone number, along with its message history. Both
// values together act as a weak capability; a miss is not an error.
func (s *ApplicationService) CheckStatus(ctx context.Context, nationalID, phone string) (*models.StatusCheckResult, error) {
	applicant, err := s.applicants.GetLatestByCredentials(ctx, utils.SanitizeString(nationalID), utils.SanitizeString(phone))
	if err != nil {
		if isNotFound(err) {
			return &models.StatusCheckResult{Found: false}, nil
		}
		return nil, fmt.Errorf("failed to check status: %w", err)
	}

	messages, err := s.messages.ListByApplicant(ctx, applicant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	return &models.StatusCheckResult{
		Found:     true,
		Applicant: applicant,
		Messages:  messages,
	}, nil
}

// Correct runs the applicant correction cycle: the record must be in
// NEEDS_CORRECTION and the presented national ID must match. The edited
// fields are re-validated under the same rules as original submission, so
// the grade floor cannot be bypassed here. On success the record returns
// to PENDING and the admin note is cleared.
func (s *ApplicationService) Correct(ctx context.Context, id string, req *models.CorrectionRequest) (*models.Applicant, error) {
	now := s.now()

	current, err := s.applicants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := admission.CorrectionAllowed(current.Status, current.NationalID, utils.SanitizeString(req.NationalID)); err != nil {
		return nil, err
	}

	email := utils.SanitizeString(req.Email)
	if err := utils.ValidateEmail(email); err != nil {
		return nil, &admission.ValidationError{Field: "email", Reason: err.Error()}
	}

	dob, err := utils.ParseDate(utils.SanitizeString(req.DOB))
	if err != nil {
		return nil, &admission.ValidationError{Field: "dob", Reason: "valid date is required (YYYY-MM-DD)"}
	}
	if !dob.Before(now) {
		return nil, &admission.ValidationError{Field: "dob", Reason: "date of birth must be in the past"}
	}

	grade := admission.Grade(utils.SanitizeString(req.KCSEMeanGrade))
	if err := grade.Validate(); err != nil {
		return nil, err
	}

	age := admission.CalculateAge(dob, now)

	track, err := admission.ClassifyTrack(age, grade)
	if err != nil {
		return nil, err
	}

	campus := admission.Campus(utils.SanitizeString(req.PreferredCampus))
	if err := admission.ValidateCampus(track, campus); err != nil {
		return nil, err
	}
	if campus == "" {
		campus = admission.DefaultCampus(track)
	}

	updated := *current
	updated.FullName = utils.SanitizeString(req.FullName)
	updated.Email = email
	updated.PhoneNumber = utils.SanitizeString(req.PhoneNumber)
	updated.County = utils.SanitizeString(req.County)
	updated.DOB = dob
	updated.CalculatedAge = age
	updated.HighestQualification = utils.SanitizeString(req.HighestQualification)
	updated.CourseTrack = track
	updated.Status = admission.StatusPending
	updated.AdminNote = nil
	updated.KCSEMeanGrade = nil
	if !grade.IsZero() {
		g := string(grade)
		updated.KCSEMeanGrade = &g
	}
	updated.PreferredCampus = nil
	if campus != "" {
		c := string(campus)
		updated.PreferredCampus = &c
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		if err := s.applicants.ApplyCorrectionWithTx(ctx, tx, &updated); err != nil {
			return err
		}

		return s.audits.CreateWithTx(ctx, tx, newAuditEntry(s.now(), "applicant", models.AuditActionCorrection, updated.ID, map[string]interface{}{
			"course_track": track,
		}))
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithField("applicant_id", updated.ID).Info("Application corrected and resubmitted")

	return &updated, nil
}

// AttachForm stores an uploaded completed form for the applicant after
// verifying the reference/national ID pair, then records the storage path
// and upload time.
func (s *ApplicationService) AttachForm(ctx context.Context, id, nationalID, filename string, file io.Reader) (*models.FormUploadResult, error) {
	applicant, err := s.applicants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if applicant.NationalID != utils.SanitizeString(nationalID) {
		return nil, ErrNotAuthorized
	}

	now := s.now()
	path, err := s.forms.Save(applicant.ID, applicant.NationalID, filename, file, now)
	if err != nil {
		return nil, fmt.Errorf("failed to store form: %w", err)
	}

	if err := s.applicants.SetFormSubmitted(ctx, applicant.ID, path, now); err != nil {
		return nil, err
	}

	if err := s.audits.Create(ctx, newAuditEntry(s.now(), "applicant", models.AuditActionFormUpload, applicant.ID, map[string]interface{}{
		"path": path,
	})); err != nil {
		s.logger.WithError(err).Error("Audit logging failed")
	}

	s.logger.WithFields(logrus.Fields{
		"applicant_id": applicant.ID,
		"path":         path,
	}).Info("Completed form uploaded")

	return &models.FormUploadResult{Path: path}, nil
}

