package admission

import "time"

// CalculateAge returns the whole-years age at the reference instant.
// The reference time is an explicit parameter so callers control the clock.
func CalculateAge(dob, now time.Time) int {
	age := now.Year() - dob.Year()

	// Not yet had the birthday this year.
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}

	return age
}
