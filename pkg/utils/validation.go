package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	mobileRegex = regexp.MustCompile(`(?i)mobile`)
)

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	return nil
}

// ValidateMpesaCode validates an M-PESA transaction code: exactly 10
// alphanumeric characters.
func ValidateMpesaCode(code string) error {
	if len(code) != 10 {
		return fmt.Errorf("M-PESA code must be exactly 10 characters")
	}
	if !IsAlphanumeric(code) {
		return fmt.Errorf("M-PESA code must be alphanumeric")
	}
	return nil
}

// ValidateNationalID validates a national identity document number
func ValidateNationalID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("national ID cannot be empty")
	}
	if len(id) > 32 {
		return fmt.Errorf("national ID too long (max 32 characters)")
	}
	return nil
}

// SanitizeString removes dangerous characters from user input
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")
	// Trim whitespace
	input = strings.TrimSpace(input)
	return input
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // Default limit
	}
	if limit > 100 {
		return 100 // Max limit
	}
	return limit
}

// ValidateOffset validates pagination offset
func ValidateOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// IsAlphanumeric checks if a string contains only alphanumeric characters
func IsAlphanumeric(s string) bool {
	for _, char := range s {
		if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9')) {
			return false
		}
	}
	return true
}

// DeviceTypeFromUserAgent classifies a User-Agent header into the coarse
// device type recorded with a submission.
func DeviceTypeFromUserAgent(userAgent string) string {
	if mobileRegex.MatchString(userAgent) {
		return "Mobile"
	}
	return "Desktop"
}
