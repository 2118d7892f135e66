package service

import (
	"encoding/json"
	"time"

	"github.com/ksa-portal/admissions-api/internal/models"
	"github.com/ksa-portal/admissions-api/pkg/utils"
)

// newAuditEntry builds an append-only audit record. Detail marshalling is
// best-effort; a record without details is still worth keeping.
func newAuditEntry(now time.Time, actor, action, targetID string, details map[string]interface{}) *models.AuditLogEntry {
	entry := &models.AuditLogEntry{
		ID:        utils.GenerateAuditID(),
		AdminID:   actor,
		Action:    action,
		CreatedAt: now,
	}
	if targetID != "" {
		entry.TargetID = &targetID
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = models.JSON(raw)
		}
	}
	return entry
}
