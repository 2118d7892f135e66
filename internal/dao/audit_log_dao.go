package dao

import (
	"context"
	"fmt"

	"github.com/ksa-portal/admissions-api/internal/database"
	"github.com/ksa-portal/admissions-api/internal/models"
)

// AuditLogDAO handles database operations for the audit trail.
// Entries are write-only diagnostics; nothing reads them back.
type AuditLogDAO struct {
	db *database.DB
}

// NewAuditLogDAO creates a new AuditLogDAO instance
func NewAuditLogDAO(db *database.DB) *AuditLogDAO {
	return &AuditLogDAO{db: db}
}

// Create appends an audit log entry
func (dao *AuditLogDAO) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (id, admin_id, action, target_id, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := dao.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.AdminID,
		entry.Action,
		entry.TargetID,
		entry.Details,
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}

	return nil
}

// CreateWithTx appends an audit log entry inside a transaction
func (dao *AuditLogDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (id, admin_id, action, target_id, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.AdminID,
		entry.Action,
		entry.TargetID,
		entry.Details,
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}

	return nil
}
