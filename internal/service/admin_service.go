package service

import (
	"context"
	"fmt"
	"sort"
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

// bulkEmailChunkSize bounds how many messages go to the mail provider in
// one call.
const bulkEmailChunkSize = 50

// priorityQueueLimit caps the dashboard work queue.
const priorityQueueLimit = 50

// uploadTrendDays is the window of the dashboard upload trend.
const uploadTrendDays = 7

// AdminService handles the back-office operations: review listings, status
// decisions, bulk messaging, and the aggregate views.
type AdminService struct {
	applicants ApplicantStore
	messages   MessageStore
	audits     AuditStore
	db         *database.DB
	mail       mailer.Service
	forms      *storage.FormStore
	portalURL  string
	logger     *logrus.Logger
	now        func() time.Time
}

// NewAdminService creates a new admin service instance
func NewAdminService(
	applicants ApplicantStore,
	messages MessageStore,
	audits AuditStore,
	db *database.DB,
	mail mailer.Service,
	forms *storage.FormStore,
	cfg *config.Config,
	logger *logrus.Logger,
) *AdminService {
	return &AdminService{
		applicants: applicants,
		messages:   messages,
		audits:     audits,
		db:         db,
		mail:       mail,
		forms:      forms,
		portalURL:  cfg.Email.PortalURL,
		logger:     logger,
		now:        time.Now,
	}
}

// ListApplicants returns one page of applicants, newest first.
func (s *AdminService) ListApplicants(ctx context.Context, limit, offset int) (*models.ApplicantListResult, error) {
	limit = utils.ValidateLimit(limit)
	offset = utils.ValidateOffset(offset)

	applicants, total, err := s.applicants.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}

	return &models.ApplicantListResult{
		Applicants: applicants,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

// GetApplicant returns one applicant by tracking ID.
func (s *AdminService) GetApplicant(ctx context.Context, id string) (*models.Applicant, error) {
	return s.applicants.GetByID(ctx, id)
}

// ListMessages returns the correspondence history for one applicant.
func (s *AdminService) ListMessages(ctx context.Context, applicantID string) ([]models.ApplicationMessage, error) {
	if _, err := s.applicants.GetByID(ctx, applicantID); err != nil {
		return nil, err
	}
	return s.messages.ListByApplicant(ctx, applicantID)
}

// UpdateStatus applies one admin decision to one record. Finalized records
// cannot be changed; sending a record back for corrections requires a note
// and triggers a correction email.
func (s *AdminService) UpdateStatus(ctx context.Context, adminID, applicantID string, req *models.UpdateStatusRequest) (*models.Applicant, error) {
	applicant, err := s.applicants.GetByID(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	target := admission.Status(req.Status)
	note, err := admission.AdminTransition(applicant.Status, target, req.AdminNote)
	if err != nil {
		return nil, err
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		if err := s.applicants.UpdateStatusWithTx(ctx, tx, applicant.ID, target, note); err != nil {
			return err
		}

		return s.audits.CreateWithTx(ctx, tx, newAuditEntry(s.now(), adminID, models.AuditActionStatusUpdate, applicant.ID, map[string]interface{}{
			"from": applicant.Status,
			"to":   target,
		}))
	})
	if err != nil {
		return nil, err
	}

	applicant.Status = target
	applicant.AdminNote = note

	if target == admission.StatusNeedsCorrection {
		s.notifyCorrection(ctx, adminID, applicant, *note)
	}

	s.logger.WithFields(logrus.Fields{
		"applicant_id": applicant.ID,
		"status":       target,
		"admin_id":     adminID,
	}).Info("Application status updated")

	return applicant, nil
}

// BulkUpdateStatus applies one decision to many records. Each record is
// checked against the lifecycle individually; records that fail the check
// are reported back as skipped, never forced.
func (s *AdminService) BulkUpdateStatus(ctx context.Context, adminID string, req *models.BulkStatusRequest) (*models.BulkStatusResult, error) {
	target := admission.Status(req.Status)

	result := &models.BulkStatusResult{Skipped: []string{}}
	var eligible []*models.Applicant
	var note *string

	for _, id := range req.ApplicantIDs {
		applicant, err := s.applicants.GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			return nil, err
		}

		n, err := admission.AdminTransition(applicant.Status, target, req.AdminNote)
		if err != nil {
			if admission.IsTransitionError(err) {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			return nil, err
		}
		note = n
		eligible = append(eligible, applicant)
	}

	if len(eligible) == 0 {
		return result, nil
	}

	err := s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		for _, applicant := range eligible {
			if err := s.applicants.UpdateStatusWithTx(ctx, tx, applicant.ID, target, note); err != nil {
				return err
			}
		}

		return s.audits.CreateWithTx(ctx, tx, newAuditEntry(s.now(), adminID, models.AuditActionBulkStatus, "", map[string]interface{}{
			"status":  target,
			"updated": len(eligible),
			"skipped": len(result.Skipped),
		}))
	})
	if err != nil {
		return nil, err
	}

	result.Updated = len(eligible)

	if target == admission.StatusNeedsCorrection {
		for _, applicant := range eligible {
			s.notifyCorrection(ctx, adminID, applicant, *note)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"status":   target,
		"updated":  result.Updated,
		"skipped":  len(result.Skipped),
		"admin_id": adminID,
	}).Info("Bulk status update applied")

	return result, nil
}

// notifyCorrection sends the correction email and appends the message
// record. Both are best-effort; the status change has already committed.
func (s *AdminService) notifyCorrection(ctx context.Context, adminID string, applicant *models.Applicant, note string) {
	msg, err := mailer.NewCorrectionRequest(applicant.FullName, applicant.Email, note, s.portalURL)
	if err != nil {
		s.logger.WithError(err).Error("Failed to build correction email")
		return
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		s.logger.WithError(err).WithField("applicant_id", applicant.ID).Error("Failed to send correction email")
	}

	record := &models.ApplicationMessage{
		ID:          utils.GenerateMessageID(),
		ApplicantID: applicant.ID,
		Subject:     msg.Subject,
		Body:        note,
		SentBy:      adminID,
		SentAt:      s.now(),
	}
	if err := s.messages.Create(ctx, record); err != nil {
		s.logger.WithError(err).WithField("applicant_id", applicant.ID).Error("Failed to record correction message")
	}
}

// SendBulkEmail delivers one composed message to the selected applicants
// and appends a message record per recipient. Recipients are resolved in
// chunks to bound provider calls.
func (s *AdminService) SendBulkEmail(ctx context.Context, adminID string, req *models.BulkEmailRequest) (*models.BulkEmailResult, error) {
	now := s.now()
	sent := 0

	for start := 0; start < len(req.ApplicantIDs); start += bulkEmailChunkSize {
		end := start + bulkEmailChunkSize
		if end > len(req.ApplicantIDs) {
			end = len(req.ApplicantIDs)
		}

		applicants, err := s.applicants.GetByIDs(ctx, req.ApplicantIDs[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to load recipients: %w", err)
		}
		if len(applicants) == 0 {
			continue
		}

		batch := make([]*mailer.Message, 0, len(applicants))
		records := make([]models.ApplicationMessage, 0, len(applicants))
		for _, applicant := range applicants {
			msg, err := mailer.NewBulkMessage(applicant.FullName, applicant.Email, req.Subject, req.Body, s.portalURL)
			if err != nil {
				s.logger.WithError(err).WithField("applicant_id", applicant.ID).Error("Failed to build bulk email")
				continue
			}
			batch = append(batch, msg)
			records = append(records, models.ApplicationMessage{
				ID:          utils.GenerateMessageID(),
				ApplicantID: applicant.ID,
				Subject:     req.Subject,
				Body:        req.Body,
				SentBy:      adminID,
				SentAt:      now,
			})
		}

		if err := s.mail.Send(ctx, batch...); err != nil {
			s.logger.WithError(err).Error("Bulk email batch had delivery failures")
		}

		if err := s.messages.CreateBatch(ctx, records); err != nil {
			return nil, fmt.Errorf("failed to record messages: %w", err)
		}
		sent += len(records)
	}

	if err := s.audits.Create(ctx, newAuditEntry(now, adminID, models.AuditActionSendBulkEmail, "", map[string]interface{}{
		"subject":    req.Subject,
		"recipients": sent,
	})); err != nil {
		s.logger.WithError(err).Error("Audit logging failed")
	}

	s.logger.WithFields(logrus.Fields{
		"recipients": sent,
		"admin_id":   adminID,
	}).Info("Bulk email sent")

	return &models.BulkEmailResult{Count: sent}, nil
}

// Stats computes the admin overview aggregates in one pass over the
// applicant set.
func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	applicants, err := s.applicants.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load applicants: %w", err)
	}

	now := s.now()
	stats := &models.AdminStats{TotalApplications: len(applicants)}

	campusCounts := make(map[string]int)
	gradeCounts := make(map[string]int)
	hourCounts := make(map[int]int)
	refs := make([]admission.PaymentRef, 0, len(applicants))

	for i := range applicants {
		a := &applicants[i]

		switch a.Status {
		case admission.StatusPending, admission.StatusNeedsCorrection:
			stats.PendingApplications++
		}

		switch a.CourseTrack {
		case admission.TrackCBET:
			stats.CBETCount++
		case admission.TrackDiploma:
			stats.DiplomaCount++
		case admission.TrackCertificate:
			stats.CertificateCount++
		}

		if a.PreferredCampus != nil && *a.PreferredCampus != "" {
			campusCounts[*a.PreferredCampus]++
		}
		if a.KCSEMeanGrade != nil && *a.KCSEMeanGrade != "" {
			gradeCounts[*a.KCSEMeanGrade]++
		}
		if utils.SameDay(a.CreatedAt, now) {
			hourCounts[a.CreatedAt.Hour()]++
		}

		refs = append(refs, admission.PaymentRef{ApplicantID: a.ID, Code: a.MpesaCode})
	}

	for campus, count := range campusCounts {
		stats.CampusDemand = append(stats.CampusDemand, models.CampusDemand{Campus: campus, Count: count})
	}
	sort.Slice(stats.CampusDemand, func(i, j int) bool {
		if stats.CampusDemand[i].Count != stats.CampusDemand[j].Count {
			return stats.CampusDemand[i].Count > stats.CampusDemand[j].Count
		}
		return stats.CampusDemand[i].Campus < stats.CampusDemand[j].Campus
	})

	for grade, count := range gradeCounts {
		stats.GradeDistribution = append(stats.GradeDistribution, models.GradeCount{Grade: grade, Count: count})
	}
	sort.Slice(stats.GradeDistribution, func(i, j int) bool {
		ri, _ := admission.Grade(stats.GradeDistribution[i].Grade).Rank()
		rj, _ := admission.Grade(stats.GradeDistribution[j].Grade).Rank()
		return ri > rj
	})

	for hour := 0; hour < 24; hour++ {
		if count, ok := hourCounts[hour]; ok {
			stats.HourlyActivity = append(stats.HourlyActivity, models.HourlyCount{
				Hour:  fmt.Sprintf("%02d:00", hour),
				Count: count,
			})
		}
	}

	stats.FraudAlerts = admission.DetectDuplicateCodes(refs)

	return stats, nil
}

// Dashboard computes the document-processing funnel, the 7-day upload
// trend, and the priority work queue.
func (s *AdminService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	applicants, err := s.applicants.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load applicants: %w", err)
	}

	now := s.now()
	funnel := models.DashboardFunnel{Total: len(applicants)}
	queue := make([]models.QueueEntry, 0, len(applicants))

	dayCounts := make(map[string]int)
	withForms := 0
	for i := range applicants {
		a := &applicants[i]

		stage := models.StageBioDataOnly
		switch {
		case a.Status != admission.StatusPending:
			stage = models.StageProcessed
			funnel.Processed++
		case a.HasSubmittedForm():
			stage = models.StageReadyToReview
			funnel.ReadyForReview++
		default:
			funnel.MissingForm++
		}

		if a.HasSubmittedForm() {
			withForms++
		}
		if a.FormSubmittedAt != nil {
			dayCounts[utils.DayKey(*a.FormSubmittedAt)]++
		}

		queue = append(queue, models.QueueEntry{Applicant: *a, Stage: stage})
	}

	if funnel.Total > 0 {
		funnel.CompletionRate = withForms * 100 / funnel.Total
	}

	for offset := uploadTrendDays - 1; offset >= 0; offset-- {
		day := now.AddDate(0, 0, -offset)
		key := utils.DayKey(day)
		funnel.UploadTrend = append(funnel.UploadTrend, models.DailyCount{
			Date:  key,
			Count: dayCounts[key],
		})
	}

	stageWeight := map[string]int{
		models.StageReadyToReview: 0,
		models.StageBioDataOnly:   1,
		models.StageProcessed:     2,
	}
	sort.SliceStable(queue, func(i, j int) bool {
		if stageWeight[queue[i].Stage] != stageWeight[queue[j].Stage] {
			return stageWeight[queue[i].Stage] < stageWeight[queue[j].Stage]
		}
		return queue[i].CreatedAt.After(queue[j].CreatedAt)
	})
	if len(queue) > priorityQueueLimit {
		queue = queue[:priorityQueueLimit]
	}

	return &models.DashboardStats{Stats: funnel, PriorityQueue: queue}, nil
}

// FraudReport lists every duplicated payment code with the applicants
// sharing it.
func (s *AdminService) FraudReport(ctx context.Context) (*models.FraudReport, error) {
	applicants, err := s.applicants.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load applicants: %w", err)
	}

	refs := make([]admission.PaymentRef, 0, len(applicants))
	byCode := make(map[string][]models.Applicant)
	for i := range applicants {
		refs = append(refs, admission.PaymentRef{ApplicantID: applicants[i].ID, Code: applicants[i].MpesaCode})
		byCode[applicants[i].MpesaCode] = append(byCode[applicants[i].MpesaCode], applicants[i])
	}

	report := &models.FraudReport{Alerts: []models.FraudAlertDetail{}}
	for _, dup := range admission.DetectDuplicateCodes(refs) {
		report.Alerts = append(report.Alerts, models.FraudAlertDetail{
			Code:       dup.Code,
			Count:      dup.Count,
			Applicants: byCode[dup.Code],
		})
	}

	return report, nil
}

// SignedFormURL issues a time-limited download link for a stored form.
func (s *AdminService) SignedFormURL(path string) (*models.SignedURLResponse, error) {
	url, err := s.forms.SignURL(path, s.now())
	if err != nil {
		return nil, err
	}
	return &models.SignedURLResponse{SignedURL: url}, nil
}
