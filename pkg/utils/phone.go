package utils

import "strings"

// Constants
const (
	PHONE_MAX_DIGITS = 10
)

// FormatPhone normalizes arbitrary phone input to NNN-NNN-NNNN display form.
// Non-digit characters are stripped, at most the first 10 digits are kept and
// dashes are re-inserted after the third and sixth digit. Shorter inputs
// produce a partial pattern (e.g. "512-55").
func FormatPhone(input string) string {
	var digits strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			if digits.Len() == PHONE_MAX_DIGITS {
				break
			}
		}
	}

	s := digits.String()
	switch {
	case len(s) <= 3:
		return s
	case len(s) <= 6:
		return s[:3] + "-" + s[3:]
	default:
		return s[:3] + "-" + s[3:6] + "-" + s[6:]
	}
}

// PhoneDigits returns only the digits of a formatted phone number
func PhoneDigits(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}
