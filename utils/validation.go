package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	jsEventRegex = regexp.MustCompile(`on\w+="[^"]*"`)
)

// SanitizeString trims input and strips HTML tags and inline event handlers
func SanitizeString(input string) string {
	sanitized := strings.TrimSpace(input)
	sanitized = htmlTagRegex.ReplaceAllString(sanitized, "")
	sanitized = jsEventRegex.ReplaceAllString(sanitized, "")
	return strings.TrimSpace(sanitized)
}

// NormalizeEmail lowercases and trims an address for lookups and storage
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks if the email is well formed
func ValidateEmail(email string) (bool, string) {
	if !emailRegex.MatchString(email) {
		return false, "Invalid email format. Please enter a valid email address"
	}
	return true, ""
}

// ValidatePassword enforces the minimum length only; strength rules are left to the client
func ValidatePassword(password string) (bool, string) {
	if len(password) < MinPasswordLength {
		return false, fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength)
	}
	return true, ""
}

// ValidateName checks a first or last name
func ValidateName(field, name string) (bool, string) {
	if len(name) > MaxNameLength {
		return false, fmt.Sprintf("%s must not exceed %d characters", field, MaxNameLength)
	}
	return true, ""
}
