package utils

import (
	"github.com/google/uuid"
)

// GenerateID generates a new bare UUID
func GenerateID() string {
	return uuid.New().String()
}

// GenerateApplicantID generates a unique applicant tracking ID
func GenerateApplicantID() string {
	return "APP-" + uuid.New().String()
}

// GenerateMessageID generates a unique application message ID
func GenerateMessageID() string {
	return "MSG-" + uuid.New().String()
}

// GenerateAuditID generates a unique audit log entry ID
func GenerateAuditID() string {
	return "AUDIT-" + uuid.New().String()
}
