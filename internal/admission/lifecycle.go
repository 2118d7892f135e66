package admission

import "strings"

// Status is an application workflow state. The four literals are a wire
// contract with the front ends and must be preserved verbatim.
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusApproved        Status = "APPROVED"
	StatusRejected        Status = "REJECTED"
	StatusNeedsCorrection Status = "NEEDS_CORRECTION"
)

// Valid reports whether s is one of the four workflow states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusNeedsCorrection:
		return true
	}
	return false
}

// Terminal reports whether no transition out of s is exposed anywhere in
// the system.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// AdminTransition validates an admin-driven status change and returns the
// admin note to persist alongside it. The note is required when sending a
// record back for correction and cleared on every other transition.
func AdminTransition(current, target Status, note string) (*string, error) {
	if !target.Valid() {
		return nil, &ValidationError{Field: "status", Reason: "unknown status " + string(target)}
	}

	if !current.Valid() {
		return nil, &ValidationError{Field: "status", Reason: "record has unknown status " + string(current)}
	}

	if current.Terminal() {
		return nil, &TransitionError{From: current, To: target, Reason: "record is already finalized"}
	}

	if target == StatusPending {
		// Returning to PENDING is the applicant's correction round trip,
		// never an admin action.
		return nil, &TransitionError{From: current, To: target, Reason: "only applicant correction returns a record to PENDING"}
	}

	if target == StatusNeedsCorrection {
		if strings.TrimSpace(note) == "" {
			return nil, &ValidationError{Field: "adminNote", Reason: "a note is required when requesting corrections"}
		}
		n := note
		return &n, nil
	}

	// APPROVED / REJECTED: the note only has meaning while corrections are
	// outstanding, so it is cleared.
	return nil, nil
}

// CorrectionAllowed validates the applicant self-service resubmission
// precondition: the record must be open for corrections and the presented
// national ID must match the one on file.
func CorrectionAllowed(current Status, recordNationalID, presentedNationalID string) error {
	if recordNationalID != presentedNationalID {
		return &TransitionError{From: current, To: StatusPending, Reason: "national ID does not match this application"}
	}
	if current != StatusNeedsCorrection {
		return &TransitionError{From: current, To: StatusPending, Reason: "application is not open for corrections"}
	}
	return nil
}
