package dao

import (
	"context"
	"fmt"

	"github.com/ksa-portal/admissions-api/internal/database"
	"github.com/ksa-portal/admissions-api/internal/models"
)

// MessageDAO handles database operations for application messages.
// The table is append-only; there are no update or delete operations.
type MessageDAO struct {
	db *database.DB
}

// NewMessageDAO creates a new MessageDAO instance
func NewMessageDAO(db *database.DB) *MessageDAO {
	return &MessageDAO{db: db}
}

// Create inserts a single message record
func (dao *MessageDAO) Create(ctx context.Context, message *models.ApplicationMessage) error {
	query := `
		INSERT INTO application_messages (id, applicant_id, subject, body, sent_by, sent_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := dao.db.ExecContext(
		ctx,
		query,
		message.ID,
		message.ApplicantID,
		message.Subject,
		message.Body,
		message.SentBy,
		message.SentAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// CreateBatch inserts message records for many applicants in one statement
func (dao *MessageDAO) CreateBatch(ctx context.Context, messages []models.ApplicationMessage) error {
	if len(messages) == 0 {
		return nil
	}

	query := `
		INSERT INTO application_messages (id, applicant_id, subject, body, sent_by, sent_at)
		VALUES (:id, :applicant_id, :subject, :body, :sent_by, :sent_at)
	`

	if _, err := dao.db.NamedExecContext(ctx, query, messages); err != nil {
		return fmt.Errorf("failed to create messages: %w", err)
	}

	return nil
}

// ListByApplicant retrieves an applicant's messages, newest first
func (dao *MessageDAO) ListByApplicant(ctx context.Context, applicantID string) ([]models.ApplicationMessage, error) {
	query := `
		SELECT id, applicant_id, subject, body, sent_by, sent_at
		FROM application_messages
		WHERE applicant_id = ?
		ORDER BY sent_at DESC
	`

	messages := []models.ApplicationMessage{}
	if err := dao.db.SelectContext(ctx, &messages, query, applicantID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}
