package models

import "github.com/ksa-portal/admissions-api/internal/admission"

// UpdateStatusRequest is a single admin status change
type UpdateStatusRequest struct {
	Status    string `json:"status" binding:"required"`
	AdminNote string `json:"adminNote" binding:"omitempty"`
}

// BulkStatusRequest applies one status change to many records
type BulkStatusRequest struct {
	ApplicantIDs []string `json:"applicantIds" binding:"required,min=1"`
	Status       string   `json:"status" binding:"required"`
	AdminNote    string   `json:"adminNote" binding:"omitempty"`
}

// BulkStatusResult reports per-record outcomes of a bulk status change.
// Records failing the lifecycle precondition are skipped, never silently
// forced.
type BulkStatusResult struct {
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped,omitempty"`
}

// ApplicantListResult is a paginated applicant listing
type ApplicantListResult struct {
	Applicants []Applicant `json:"applicants"`
	Total      int         `json:"total"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
}

// CampusDemand is one campus preference aggregate
type CampusDemand struct {
	Campus string `json:"campus"`
	Count  int    `json:"count"`
}

// GradeCount is one grade distribution bucket
type GradeCount struct {
	Grade string `json:"grade"`
	Count int    `json:"count"`
}

// HourlyCount is one hour-of-day activity bucket
type HourlyCount struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

// AdminStats is the admin overview aggregation
type AdminStats struct {
	TotalApplications   int                       `json:"totalApplications"`
	PendingApplications int                       `json:"pendingApplications"`
	CBETCount           int                       `json:"cbetCount"`
	DiplomaCount        int                       `json:"diplomaCount"`
	CertificateCount    int                       `json:"certificateCount"`
	CampusDemand        []CampusDemand            `json:"campusDemand"`
	GradeDistribution   []GradeCount              `json:"gradeDistribution"`
	FraudAlerts         []admission.DuplicateCode `json:"fraudAlerts"`
	HourlyActivity      []HourlyCount             `json:"hourlyActivity"`
}

// Document-funnel stages shown on the dashboard
const (
	StageBioDataOnly   = "Bio-data Only"
	StageReadyToReview = "Ready to Review"
	StageProcessed     = "Processed"
)

// DailyCount is one day bucket of the upload trend
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// QueueEntry is one applicant in the dashboard priority queue
type QueueEntry struct {
	Applicant
	Stage string `json:"stage"`
}

// DashboardFunnel summarizes document-submission progress
type DashboardFunnel struct {
	Total          int          `json:"total"`
	MissingForm    int          `json:"missingForm"`
	ReadyForReview int          `json:"readyForReview"`
	Processed      int          `json:"processed"`
	CompletionRate int          `json:"completionRate"`
	UploadTrend    []DailyCount `json:"uploadTrend"`
}

// DashboardStats is the document-processing dashboard payload
type DashboardStats struct {
	Stats         DashboardFunnel `json:"stats"`
	PriorityQueue []QueueEntry    `json:"priorityQueue"`
}

// FraudAlertDetail pairs a duplicated payment code with the applicants
// sharing it
type FraudAlertDetail struct {
	Code       string      `json:"mpesa_code"`
	Count      int         `json:"count"`
	Applicants []Applicant `json:"applicants"`
}

// FraudReport is the admin fraud page payload
type FraudReport struct {
	Alerts []FraudAlertDetail `json:"alerts"`
}

// SignedURLRequest asks for a time-limited download link for a stored form
type SignedURLRequest struct {
	Path string `json:"path" binding:"required"`
}

// SignedURLResponse carries the issued link
type SignedURLResponse struct {
	SignedURL string `json:"signedUrl"`
}
