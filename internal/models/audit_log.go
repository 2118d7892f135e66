package models

import "time"

// Audit action tags
const (
	AuditActionSubmit        = "APPLICATION_SUBMITTED"
	AuditActionCorrection    = "APPLICATION_CORRECTED"
	AuditActionStatusUpdate  = "STATUS_UPDATE"
	AuditActionBulkStatus    = "BULK_STATUS_UPDATE"
	AuditActionSendBulkEmail = "SEND_BULK_EMAIL"
	AuditActionFormUpload    = "FORM_UPLOADED"
)

// AuditLogEntry is an append-only record of an admin or system action.
// It is write-only: nothing in the application logic reads it back.
type AuditLogEntry struct {
	ID        string    `db:"id" json:"id"`
	AdminID   string    `db:"admin_id" json:"admin_id"`
	Action    string    `db:"action" json:"action"`
	TargetID  *string   `db:"target_id" json:"target_id,omitempty"`
	Details   JSON      `db:"details" json:"details,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
