package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"digits only", "5125551234", "512-555-1234"},
		{"already formatted", "512-555-1234", "512-555-1234"},
		{"punctuation and spaces", "(512) 555-1234", "512-555-1234"},
		{"letters stripped", "call 512abc555", "512-555"},
		{"partial three", "512", "512"},
		{"partial four", "5125", "512-5"},
		{"partial six", "512555", "512-555"},
		{"partial seven", "5125551", "512-555-1"},
		{"overflow truncated", "512555123499999", "512-555-1234"},
		{"country code kept as leading digit", "+1 512 555 1234", "151-255-5123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPhone(tt.input))
		})
	}
}

func TestPhoneDigits(t *testing.T) {
	assert.Equal(t, "5125551234", PhoneDigits("512-555-1234"))
	assert.Equal(t, "", PhoneDigits("no digits"))
}
