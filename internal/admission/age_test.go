package admission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateAge_BirthdayAlreadyPassed(t *testing.T) {
	now := date(2026, time.June, 15)
	assert.Equal(t, 21, CalculateAge(date(2005, time.March, 1), now))
}

func TestCalculateAge_BirthdayNotYetReached(t *testing.T) {
	now := date(2026, time.June, 15)
	assert.Equal(t, 20, CalculateAge(date(2005, time.September, 30), now))
}

func TestCalculateAge_ExactAnniversary(t *testing.T) {
	// Exactly 21 years before "now", same month/day.
	now := date(2026, time.June, 15)
	assert.Equal(t, 21, CalculateAge(date(2005, time.June, 15), now))
}

func TestCalculateAge_OneDayBeforeAnniversary(t *testing.T) {
	now := date(2026, time.June, 14)
	assert.Equal(t, 20, CalculateAge(date(2005, time.June, 15), now))
}

func TestCalculateAge_LeapDayBirth(t *testing.T) {
	dob := date(2008, time.February, 29)

	// Feb 28 of a non-leap year: birthday not yet reached.
	assert.Equal(t, 17, CalculateAge(dob, date(2026, time.February, 28)))
	// Mar 1 of a non-leap year: birthday has passed.
	assert.Equal(t, 18, CalculateAge(dob, date(2026, time.March, 1)))
}

func TestCalculateAge_Idempotent(t *testing.T) {
	dob := date(2003, time.November, 2)
	now := date(2026, time.January, 20)

	first := CalculateAge(dob, now)
	second := CalculateAge(dob, now)
	assert.Equal(t, first, second)
}

func TestCalculateAge_MonotonicInDOB(t *testing.T) {
	// For a fixed "now", a later birth date never yields a greater age.
	now := date(2026, time.June, 15)

	prev := CalculateAge(date(1990, time.January, 1), now)
	for dob := date(1990, time.January, 2); dob.Before(date(1992, time.January, 1)); dob = dob.AddDate(0, 0, 17) {
		age := CalculateAge(dob, now)
		assert.LessOrEqual(t, age, prev, "age increased for later dob %v", dob)
		prev = age
	}
}
