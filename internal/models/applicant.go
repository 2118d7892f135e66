package models

import (
	"time"

	"github.com/ksa-portal/admissions-api/internal/admission"
)

// Applicant represents one row of the applicants table: a single admissions
// submission and its workflow state.
type Applicant struct {
	ID                   string            `db:"id" json:"id"`
	FullName             string            `db:"full_name" json:"full_name"`
	Email                string            `db:"email" json:"email"`
	PhoneNumber          string            `db:"phone_number" json:"phone_number"`
	NationalID           string            `db:"national_id" json:"national_id"`
	County               string            `db:"county_of_residence" json:"county_of_residence"`
	DOB                  time.Time         `db:"dob" json:"dob"`
	CalculatedAge        int               `db:"calculated_age" json:"calculated_age"`
	HighestQualification string            `db:"highest_qualification" json:"highest_qualification"`
	KCSEMeanGrade        *string           `db:"kcse_mean_grade" json:"kcse_mean_grade,omitempty"`
	CourseTrack          admission.Track   `db:"course_track" json:"course_track"`
	PreferredCampus      *string           `db:"preferred_campus" json:"preferred_campus,omitempty"`
	MpesaCode            string            `db:"mpesa_code" json:"mpesa_code"`
	Status               admission.Status  `db:"status" json:"status"`
	AdminNote            *string           `db:"admin_note" json:"admin_note,omitempty"`
	SubmittedFormPath    *string           `db:"submitted_form_path" json:"submitted_form_path,omitempty"`
	FormSubmittedAt      *time.Time        `db:"form_submitted_at" json:"form_submitted_at,omitempty"`
	EmailSent            bool              `db:"email_sent" json:"email_sent"`
	IPAddress            string            `db:"ip_address" json:"ip_address"`
	DeviceType           string            `db:"device_type" json:"device_type"`
	CreatedAt            time.Time         `db:"created_at" json:"created_at"`
}

// Grade returns the applicant's KCSE mean grade, empty when not reported.
func (a *Applicant) Grade() admission.Grade {
	if a.KCSEMeanGrade == nil {
		return ""
	}
	return admission.Grade(*a.KCSEMeanGrade)
}

// HasSubmittedForm reports whether the scanned application form has been
// uploaded.
func (a *Applicant) HasSubmittedForm() bool {
	return a.SubmittedFormPath != nil && *a.SubmittedFormPath != ""
}

// ApplicationRequest is the public submission payload
type ApplicationRequest struct {
	FullName             string `json:"fullName" binding:"required,min=2"`
	Email                string `json:"email" binding:"required,email"`
	PhoneNumber          string `json:"phoneNumber" binding:"required,min=10"`
	NationalID           string `json:"nationalId" binding:"required"`
	County               string `json:"county" binding:"required"`
	DOB                  string `json:"dob" binding:"required"`
	HighestQualification string `json:"highestQualification" binding:"required"`
	KCSEMeanGrade        string `json:"kcseMeanGrade" binding:"omitempty,kcsegrade"`
	PreferredCampus      string `json:"preferredCampus" binding:"omitempty"`
	MpesaCode            string `json:"mpesaCode" binding:"required,len=10,alphanum"`
}

// SubmissionMeta carries request metadata captured at submission time
type SubmissionMeta struct {
	IPAddress string
	UserAgent string
}

// SubmissionResult is returned from a successful submission
type SubmissionResult struct {
	TrackingID  string          `json:"trackingId"`
	CourseTrack admission.Track `json:"courseTrack"`
	EmailSent   bool            `json:"emailSent"`
}

// StatusCheckRequest carries the weak credentials for the status page
type StatusCheckRequest struct {
	NationalID string `json:"nationalId" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
}

// StatusCheckResult is the status page payload
type StatusCheckResult struct {
	Found     bool                 `json:"found"`
	Applicant *Applicant           `json:"data,omitempty"`
	Messages  []ApplicationMessage `json:"messages,omitempty"`
}

// CorrectionRequest is the bounded field set an applicant may edit during a
// correction cycle. The national ID is the capability check, never an
// editable field; status is not reachable from here at all.
type CorrectionRequest struct {
	NationalID           string `json:"nationalId" binding:"required"`
	FullName             string `json:"fullName" binding:"required,min=2"`
	Email                string `json:"email" binding:"required,email"`
	PhoneNumber          string `json:"phoneNumber" binding:"required,min=10"`
	County               string `json:"county" binding:"required"`
	DOB                  string `json:"dob" binding:"required"`
	HighestQualification string `json:"highestQualification" binding:"required"`
	KCSEMeanGrade        string `json:"kcseMeanGrade" binding:"omitempty,kcsegrade"`
	PreferredCampus      string `json:"preferredCampus" binding:"omitempty"`
}

// FormUploadResult is returned after a completed form upload
type FormUploadResult struct {
	Path string `json:"path"`
}
