package admission

import "fmt"

// ValidationError reports malformed input (unknown grade symbol, unknown
// campus, unknown status). It is recoverable by the caller and never causes
// a state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// EligibilityError is a business-rule rejection, distinct from a validation
// failure: the input was well-formed but the applicant does not qualify.
type EligibilityError struct {
	Reason string
}

func (e *EligibilityError) Error() string {
	return e.Reason
}

// TransitionError reports a lifecycle transition attempted against a record
// that does not satisfy its preconditions. It is never partially applied.
type TransitionError struct {
	From   Status
	To     Status
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s: %s", e.From, e.To, e.Reason)
}

// IsEligibilityError reports whether err is a business-rule rejection.
func IsEligibilityError(err error) bool {
	_, ok := err.(*EligibilityError)
	return ok
}

// IsValidationError reports whether err is a validation failure.
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// IsTransitionError reports whether err is a lifecycle precondition failure.
func IsTransitionError(err error) bool {
	_, ok := err.(*TransitionError)
	return ok
}
