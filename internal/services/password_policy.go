package services

import (
	"errors"
	"fmt"
	"unicode"
)

var ErrWeakPassword = errors.New("password must be 8+ characters with upper, lower case letters and a digit")

const (
	minPasswordRunes = 8
	// bcrypt ignores input past 72 bytes.
	maxPasswordBytes = 72
)

// ValidatePasswordStrength wraps ErrWeakPassword with the first rule the
// password breaks.
func ValidatePasswordStrength(password string) error {
	switch {
	case len([]rune(password)) < minPasswordRunes:
		return fmt.Errorf("%w: shorter than %d characters", ErrWeakPassword, minPasswordRunes)
	case len(password) > maxPasswordBytes:
		return fmt.Errorf("%w: longer than %d bytes", ErrWeakPassword, maxPasswordBytes)
	}

	var upper, lower, digit bool
	for _, char := range password {
		upper = upper || unicode.IsUpper(char)
		lower = lower || unicode.IsLower(char)
		digit = digit || unicode.IsDigit(char)
	}
	switch {
	case !upper:
		return fmt.Errorf("%w: no upper case letter", ErrWeakPassword)
	case !lower:
		return fmt.Errorf("%w: no lower case letter", ErrWeakPassword)
	case !digit:
		return fmt.Errorf("%w: no digit", ErrWeakPassword)
	}
	return nil
}
