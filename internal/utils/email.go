package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates an email address and normalizes it to its
// lowercase, trimmed form used for storage and lookup.
func ValidateEmail(email string) (bool, string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(normalized) {
		return false, "", fmt.Errorf("invalid email address format")
	}
	return true, normalized, nil
}
