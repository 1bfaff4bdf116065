package validation

import (
	"fmt"
	"regexp"
)

var specialChars = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

// HasSpecialChar checks if a string contains at least one special character
func HasSpecialChar(s string) bool {
	return specialChars.MatchString(s)
}

// Password checks the staff password policy.
func Password(password string) error {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return fmt.Errorf("password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength)
	}
	if !HasSpecialChar(password) {
		return fmt.Errorf("password must contain a special character")
	}
	return nil
}
