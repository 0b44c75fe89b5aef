package utils

import (
	"regexp"
	"strings"
)

var (
	localPhoneRegex = regexp.MustCompile(`^[0-9]{10}$`)
	nonDigitRegex   = regexp.MustCompile(`[^\d]`)
	emailRegex      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// IsValidPhone accepts exactly ten digits once whitespace is removed.
func IsValidPhone(phone string) bool {
	return localPhoneRegex.MatchString(StripSpaces(phone))
}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func StripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// FormatPhoneE164 prefixes a local number with the country code for SMS
// delivery. Numbers already carrying a + are returned with separators removed.
func FormatPhoneE164(phone, countryCode string) string {
	trimmed := strings.TrimSpace(phone)
	if strings.HasPrefix(trimmed, "+") {
		return "+" + nonDigitRegex.ReplaceAllString(trimmed, "")
	}

	cleaned := nonDigitRegex.ReplaceAllString(trimmed, "")
	code := strings.TrimPrefix(countryCode, "+")
	if len(cleaned) > 10 && strings.HasPrefix(cleaned, code) {
		return "+" + cleaned
	}
	return "+" + code + cleaned
}
