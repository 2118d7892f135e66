package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ksa-portal/admissions-api/internal/admission"
	"github.com/ksa-portal/admissions-api/internal/config"
	"github.com/ksa-portal/admissions-api/internal/database"
	"github.com/ksa-portal/admissions-api/internal/mailer"
	"github.com/ksa-portal/admissions-api/internal/models"
	"github.com/ksa-portal/admissions-api/internal/storage"
)

type mockApplicantStore struct {
	mock.Mock
}

func (m *mockApplicantStore) CreateWithTx(ctx context.Context, tx *database.Transaction, applicant *models.Applicant) error {
	args := m.Called(ctx, tx, applicant)
	return args.Error(0)
}

func (m *mockApplicantStore) GetByID(ctx context.Context, id string) (*models.Applicant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Applicant), args.Error(1)
}

func (m *mockApplicantStore) GetByIDWithTx(ctx context.Context, tx *database.Transaction, id string) (*models.Applicant, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Applicant), args.Error(1)
}

func (m *mockApplicantStore) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	args := m.Called(ctx, nationalID)
	return args.Bool(0), args.Error(1)
}

func (m *mockApplicantStore) GetLatestByCredentials(ctx context.Context, nationalID, phone string) (*models.Applicant, error) {
	args := m.Called(ctx, nationalID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Applicant), args.Error(1)
}

func (m *mockApplicantStore) List(ctx context.Context, limit, offset int) ([]models.Applicant, int, error) {
	args := m.Called(ctx, limit, offset)
	var applicants []models.Applicant
	if args.Get(0) != nil {
		applicants = args.Get(0).([]models.Applicant)
	}
	return applicants, args.Int(1), args.Error(2)
}

func (m *mockApplicantStore) ListAll(ctx context.Context) ([]models.Applicant, error) {
	args := m.Called(ctx)
	var applicants []models.Applicant
	if args.Get(0) != nil {
		applicants = args.Get(0).([]models.Applicant)
	}
	return applicants, args.Error(1)
}

func (m *mockApplicantStore) GetByIDs(ctx context.Context, ids []string) ([]models.Applicant, error) {
	args := m.Called(ctx, ids)
	var applicants []models.Applicant
	if args.Get(0) != nil {
		applicants = args.Get(0).([]models.Applicant)
	}
	return applicants, args.Error(1)
}

func (m *mockApplicantStore) UpdateStatusWithTx(ctx context.Context, tx *database.Transaction, id string, status admission.Status, note *string) error {
	args := m.Called(ctx, tx, id, status, note)
	return args.Error(0)
}

func (m *mockApplicantStore) ApplyCorrectionWithTx(ctx context.Context, tx *database.Transaction, applicant *models.Applicant) error {
	args := m.Called(ctx, tx, applicant)
	return args.Error(0)
}

func (m *mockApplicantStore) SetFormSubmitted(ctx context.Context, id, path string, at time.Time) error {
	args := m.Called(ctx, id, path, at)
	return args.Error(0)
}

func (m *mockApplicantStore) MarkEmailSent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockMessageStore struct {
	mock.Mock
}

func (m *mockMessageStore) Create(ctx context.Context, message *models.ApplicationMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockMessageStore) CreateBatch(ctx context.Context, messages []models.ApplicationMessage) error {
	args := m.Called(ctx, messages)
	return args.Error(0)
}

func (m *mockMessageStore) ListByApplicant(ctx context.Context, applicantID string) ([]models.ApplicationMessage, error) {
	args := m.Called(ctx, applicantID)
	var messages []models.ApplicationMessage
	if args.Get(0) != nil {
		messages = args.Get(0).([]models.ApplicationMessage)
	}
	return messages, args.Error(1)
}

type mockAuditStore struct {
	mock.Mock
}

func (m *mockAuditStore) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockAuditStore) CreateWithTx(ctx context.Context, tx *database.Transaction, entry *models.AuditLogEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

// recorderMailer captures outbound messages for assertions.
type recorderMailer struct {
	sent []*mailer.Message
	err  error
}

func (r *recorderMailer) Send(ctx context.Context, messages ...*mailer.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, messages...)
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newTestDB wires a database.DB over sqlmock so transaction orchestration
// can be exercised without MySQL.
func newTestDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()

	rawDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { rawDB.Close() })

	return database.NewWithDB(sqlx.NewDb(rawDB, "sqlmock"), testLogger()), sqlMock
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Email: config.EmailConfig{
			FromName:  "KSA Admissions",
			FromEmail: "admissions@example.ac.ke",
			PortalURL: "https://apply.example.ac.ke",
		},
		Storage: config.StorageConfig{
			BaseDir:          t.TempDir(),
			SigningSecret:    "test-secret",
			SignedURLTTL:     10 * time.Minute,
			DownloadBasePath: "/api/v1/forms",
		},
		Admissions: config.AdmissionsConfig{
			FormLinks: map[string]string{
				"CBET":    "https://forms.example.ac.ke/cbet.pdf",
				"DIPLOMA": "https://forms.example.ac.ke/diploma.pdf",
			},
		},
	}
}

func newFormStore(t *testing.T, cfg *config.Config) *storage.FormStore {
	t.Helper()

	forms, err := storage.NewFormStore(&cfg.Storage)
	require.NoError(t, err)
	return forms
}
