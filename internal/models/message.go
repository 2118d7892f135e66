package models

import "time"

// ApplicationMessage is one append-only correspondence record sent to an
// applicant. Messages are never mutated or deleted.
type ApplicationMessage struct {
	ID          string    `db:"id" json:"id"`
	ApplicantID string    `db:"applicant_id" json:"applicant_id"`
	Subject     string    `db:"subject" json:"subject"`
	Body        string    `db:"body" json:"body"`
	SentBy      string    `db:"sent_by" json:"sent_by"`
	SentAt      time.Time `db:"sent_at" json:"sent_at"`
}

// BulkEmailRequest is the admin bulk-messaging payload
type BulkEmailRequest struct {
	ApplicantIDs []string `json:"applicantIds" binding:"required,min=1"`
	Subject      string   `json:"subject" binding:"required"`
	Body         string   `json:"body" binding:"required"`
}

// BulkEmailResult reports how many recipients were messaged
type BulkEmailResult struct {
	Count int `json:"count"`
}
