package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ksa-portal/admissions-api/internal/admission"
	"github.com/ksa-portal/admissions-api/internal/dao"
	"github.com/ksa-portal/admissions-api/internal/models"
)

func newAdminService(t *testing.T) (*AdminService, *mockApplicantStore, *mockMessageStore, *mockAuditStore, *recorderMailer, sqlmock.Sqlmock) {
	t.Helper()

	applicants := new(mockApplicantStore)
	messages := new(mockMessageStore)
	audits := new(mockAuditStore)
	mail := &recorderMailer{}
	db, sqlMock := newTestDB(t)
	cfg := testConfig(t)

	svc := NewAdminService(applicants, messages, audits, db, mail, newFormStore(t, cfg), cfg, testLogger())
	svc.now = func() time.Time { return testNow }

	return svc, applicants, messages, audits, mail, sqlMock
}

func pendingApplicant(id string) *models.Applicant {
	return &models.Applicant{
		ID:          id,
		FullName:    "Wanjiku Kamau",
		Email:       "wanjiku@example.com",
		NationalID:  "12345678",
		CourseTrack: admission.TrackDiploma,
		Status:      admission.StatusPending,
		CreatedAt:   testNow.Add(-time.Hour),
	}
}

func TestListApplicantsClampsPaging(t *testing.T) {
	svc, applicants, _, _, _, _ := newAdminService(t)

	applicants.On("List", mock.Anything, 20, 0).
		Return([]models.Applicant{*pendingApplicant("APP-1")}, 1, nil)

	result, err := svc.ListApplicants(context.Background(), 0, -5)
	require.NoError(t, err)

	assert.Equal(t, 20, result.Limit)
	assert.Equal(t, 0, result.Offset)
	assert.Equal(t, 1, result.Total)
	assert.Len(t, result.Applicants, 1)
}

func TestUpdateStatusApproves(t *testing.T) {
	svc, applicants, _, audits, mail, sqlMock := newAdminService(t)

	applicants.On("GetByID", mock.Anything, "APP-1").Return(pendingApplicant("APP-1"), nil)
	sqlMock.ExpectBegin()
	applicants.On("UpdateStatusWithTx", mock.Anything, mock.Anything, "APP-1", admission.StatusApproved, (*string)(nil)).Return(nil)
	audits.On("CreateWithTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	sqlMock.ExpectCommit()

	updated, err := svc.UpdateStatus(context.Background(), "registrar", "APP-1", &models.UpdateStatusRequest{Status: "APPROVED"})
	require.NoError(t, err)

	assert.Equal(t, admission.StatusApproved, updated.Status)
	assert.Nil(t, updated.AdminNote)
	assert.Empty(t, mail.sent, "approval sends no correction email")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestUpdateStatusNeedsCorrectionRequiresNote(t *testing.T) {
	svc, applicants, _, _, _, _ := newAdminService(t)

	applicants.On("GetByID", mock.Anything, "APP-1").Return(pendingApplicant("APP-1"), nil)

	_, err := svc.UpdateStatus(context.Background(), "registrar", "APP-1", &models.UpdateStatusRequest{Status: "NEEDS_CORRECTION"})
	assert.True(t, admission.IsValidationError(err))
}

func TestUpdateStatusNeedsCorrectionNotifiesApplicant(t *testing.T) {
	svc, applicants, messages, audits, mail, sqlMock := newAdminService(t)

	applicants.On("GetByID", mock.Anything, "APP-1").Return(pendingApplicant("APP-1"), nil)
	sqlMock.ExpectBegin()
	applicants.On("UpdateStatusWithTx", mock.Anything, mock.Anything, "APP-1", admission.StatusNeedsCorrection, mock.Anything).Return(nil)
	audits.On("CreateWithTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	sqlMock.ExpectCommit()
	var recorded *models.ApplicationMessage
	messages.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { recorded = args.Get(1).(*models.ApplicationMessage) }).
		Return(nil)

	updated, err := svc.UpdateStatus(context.Background(), "registrar", "APP-1", &models.UpdateStatusRequest{
		Status:    "NEEDS_CORRECTION",
		AdminNote: "DOB does not match the ID",
	})
	require.NoError(t, err)

	require.NotNil(t, updated.AdminNote)
	assert.Equal(t, "DOB does not match the ID", *updated.AdminNote)

	require.Len(t, mail.sent, 1)
	assert.Contains(t, mail.sent[0].HTMLContent, "DOB does not match the ID")

	require.NotNil(t, recorded)
	assert.Equal(t, "APP-1", recorded.ApplicantID)
	assert.Equal(t, "registrar", recorded.SentBy)
	assert.Equal(t, "DOB does not match the ID", recorded.Body)
}

func TestUpdateStatusRejectsFinalizedRecord(t *testing.T) {
	svc, applicants, _, _, _, _ := newAdminService(t)

	applicant := pendingApplicant("APP-1")
	applicant.Status = admission.StatusApproved
	applicants.On("GetByID", mock.Anything, "APP-1").Return(applicant, nil)

	_, err := svc.UpdateStatus(context.Background(), "registrar", "APP-1", &models.UpdateStatusRequest{Status: "REJECTED"})
	assert.True(t, admission.IsTransitionError(err))
}

func TestUpdateStatusRejectsAdminReturnToPending(t *testing.T) {
	svc, applicants, _, _, _, _ := newAdminService(t)

	applicant := pendingApplicant("APP-1")
	applicant.Status = admission.StatusNeedsCorrection
	applicants.On("GetByID", mock.Anything, "APP-1").Return(applicant, nil)

	_, err := svc.UpdateStatus(context.Background(), "registrar", "APP-1", &models.UpdateStatusRequest{Status: "PENDING"})
	assert.True(t, admission.IsTransitionError(err))
}

func TestBulkUpdateStatusSkipsIneligibleRecords(t *testing.T) {
	svc, applicants, _, audits, _, sqlMock := newAdminService(t)

	finalized := pendingApplicant("APP-2")
	finalized.Status = admission.StatusRejected

	applicants.On("GetByID", mock.Anything, "APP-1").Return(pendingApplicant("APP-1"), nil)
	applicants.On("GetByID", mock.Anything, "APP-2").Return(finalized, nil)
	applicants.On("GetByID", mock.Anything, "APP-3").Return(nil, dao.ErrNotFound)
	sqlMock.ExpectBegin()
	applicants.On("UpdateStatusWithTx", mock.Anything, mock.Anything, "APP-1", admission.StatusApproved, (*string)(nil)).Return(nil)
	audits.On("CreateWithTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	sqlMock.ExpectCommit()

	result, err := svc.BulkUpdateStatus(context.Background(), "registrar", &models.BulkStatusRequest{
		ApplicantIDs: []string{"APP-1", "APP-2", "APP-3"},
		Status:       "APPROVED",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.ElementsMatch(t, []string{"APP-2", "APP-3"}, result.Skipped)
	applicants.AssertNotCalled(t, "UpdateStatusWithTx", mock.Anything, mock.Anything, "APP-2", mock.Anything, mock.Anything)
}

func TestBulkUpdateStatusAllSkippedWritesNothing(t *testing.T) {
	svc, applicants, _, _, _, sqlMock := newAdminService(t)

	finalized := pendingApplicant("APP-1")
	finalized.Status = admission.StatusApproved
	applicants.On("GetByID", mock.Anything, "APP-1").Return(finalized, nil)

	result, err := svc.BulkUpdateStatus(context.Background(), "registrar", &models.BulkStatusRequest{
		ApplicantIDs: []string{"APP-1"},
		Status:       "REJECTED",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, []string{"APP-1"}, result.Skipped)
	assert.NoError(t, sqlMock.ExpectationsWereMet(), "no transaction when nothing is eligible")
}

func TestSendBulkEmailRecordsMessages(t *testing.T) {
	svc, applicants, messages, audits, mail, _ := newAdminService(t)

	applicants.On("GetByIDs", mock.Anything, []string{"APP-1", "APP-2"}).
		Return([]models.Applicant{*pendingApplicant("APP-1"), *pendingApplicant("APP-2")}, nil)
	var batch []models.ApplicationMessage
	messages.On("CreateBatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { batch = args.Get(1).([]models.ApplicationMessage) }).
		Return(nil)
	audits.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.SendBulkEmail(context.Background(), "registrar", &models.BulkEmailRequest{
		ApplicantIDs: []string{"APP-1", "APP-2"},
		Subject:      "Orientation week",
		Body:         "Report on Monday 8am.",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	assert.Len(t, mail.sent, 2)
	require.Len(t, batch, 2)
	assert.Equal(t, "Orientation week", batch[0].Subject)
	assert.True(t, strings.HasPrefix(batch[0].ID, "MSG-"))
}

func TestStatsAggregates(t *testing.T) {
	svc, applicants, _, _, _, _ := newAdminService(t)

	grade := func(g string) *string { return &g }
	campus := func(c string) *string { return &c }

	population := []models.Applicant{
		{ID: "APP-1", CourseTrack: admission.TrackCBET, Status: admission.StatusPending, MpesaCode: "AAA1111111", PreferredCampus: campus("Nyeri"), CreatedAt: testNow.Add(-30 * time.Minute)},
		{ID: "APP-2", CourseTrack: admission.TrackCBET, Status: admission.StatusApproved, MpesaCode: "AAA1111111", PreferredCampus: campus("Nyeri"), CreatedAt: testNow.Add(-25 * time.Hour)},
		{ID: "APP-3", CourseTrack: admission.TrackDiploma, Status: admission.StatusNeedsCorrection, MpesaCode: "AAA1111111", KCSEMeanGrade: grade("C"), PreferredCampus: campus("Thika"), CreatedAt: testNow.Add(-2 * time.Hour)},
		{ID: "APP-4", CourseTrack: admission.TrackCertificate, Status: admission.StatusRejected, MpesaCode: "BBB2222222", KCSEMeanGrade: grade("D"), PreferredCampus: campus("Thika"), CreatedAt: testNow.Add(-3 * time.Hour)},
	}
	applicants.On("ListAll", mock.Anything).Return(population, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalApplications)
	assert.Equal(t, 2, stats.PendingApplications, "NEEDS_CORRECTION counts as pending work")
	assert.Equal(t, 2, stats.CBETCount)
	assert.Equal(t, 1, stats.DiplomaCount)
	assert.Equal(t, 1, stats.CertificateCount)

	require.Len(t, stats.FraudAlerts, 1)
	assert.Equal(t, "AAA1111111", stats.FraudAlerts[0].Code)
	assert.Equal(t, 3, stats.FraudAlerts[0].Count)

	require.Len(t, stats.CampusDemand, 2)
	assert.Equal(t, "Nyeri", stats.CampusDemand[0].Campus)

	require.Len(t, stats.GradeDistribution, 2)
	assert.Equal(t, "C", stats.GradeDistribution[0].Grade, "higher grades listed first")

	// APP-1, APP-3 and APP-4 were submitted today (testNow is 10:30).
	require.Len(t, stats.HourlyActivity, 3)
	assert.Equal(t, "07:00", stats.HourlyActivity[0].Hour)
	assert.Equal(t, "10:00", stats.HourlyActivity[2].Hour)
}

func TestDashboardFunnelAndQueue(t *testing.T) {
	svc, applicants, _, _, _, _ := newAdminService(t)

	formPath := "forms/APP-2_12345678_1.pdf"
	uploadedAt := testNow.Add(-2 * time.Hour)

	population := []models.Applicant{
		{ID: "APP-1", Status: admission.StatusPending, CreatedAt: testNow.Add(-3 * time.Hour)},
		{ID: "APP-2", Status: admission.StatusPending, SubmittedFormPath: &formPath, FormSubmittedAt: &uploadedAt, CreatedAt: testNow.Add(-2 * time.Hour)},
		{ID: "APP-3", Status: admission.StatusApproved, CreatedAt: testNow.Add(-time.Hour)},
	}
	applicants.On("ListAll", mock.Anything).Return(population, nil)

	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, dashboard.Stats.Total)
	assert.Equal(t, 1, dashboard.Stats.MissingForm)
	assert.Equal(t, 1, dashboard.Stats.ReadyForReview)
	assert.Equal(t, 1, dashboard.Stats.Processed)
	assert.Equal(t, 33, dashboard.Stats.CompletionRate)
	require.Len(t, dashboard.Stats.UploadTrend, uploadTrendDays)
	assert.Equal(t, 1, dashboard.Stats.UploadTrend[uploadTrendDays-1].Count, "today's upload appears in the last bucket")

	require.Len(t, dashboard.PriorityQueue, 3)
	assert.Equal(t, "APP-2", dashboard.PriorityQueue[0].ID)
	assert.Equal(t, models.StageReadyToReview, dashboard.PriorityQueue[0].Stage)
	assert.Equal(t, models.StageBioDataOnly, dashboard.PriorityQueue[1].Stage)
	assert.Equal(t, models.StageProcessed, dashboard.PriorityQueue[2].Stage)
}

func TestFraudReportGroupsApplicantsByCode(t *testing.T) {
	svc, applicants, _, _, _, _ := newAdminService(t)

	population := []models.Applicant{
		{ID: "APP-1", MpesaCode: "AAA1111111"},
		{ID: "APP-2", MpesaCode: "AAA1111111"},
		{ID: "APP-3", MpesaCode: "BBB2222222"},
	}
	applicants.On("ListAll", mock.Anything).Return(population, nil)

	report, err := svc.FraudReport(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Alerts, 1)
	assert.Equal(t, "AAA1111111", report.Alerts[0].Code)
	assert.Equal(t, 2, report.Alerts[0].Count)
	require.Len(t, report.Alerts[0].Applicants, 2)
}

func TestSignedFormURLVerifies(t *testing.T) {
	svc, _, _, _, _, _ := newAdminService(t)

	result, err := svc.SignedFormURL("forms/APP-1_12345678_1.pdf")
	require.NoError(t, err)

	assert.Contains(t, result.SignedURL, "expires=")
	assert.Contains(t, result.SignedURL, "sig=")
	assert.True(t, strings.HasPrefix(result.SignedURL, "/api/v1/forms/"))
}

func TestGetApplicantPassesThroughNotFound(t *testing.T) {
	svc, applicants, _, _, _, _ := newAdminService(t)

	applicants.On("GetByID", mock.Anything, "APP-404").Return(nil, dao.ErrNotFound)

	_, err := svc.GetApplicant(context.Background(), "APP-404")
	assert.ErrorIs(t, err, dao.ErrNotFound)
}
