package services

import (
	"errors"
	"regexp"
	"strings"
)

var ErrAuthCredentialsInvalid = errors.New("auth credentials invalid")

var usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{2,31}$`)

// NormalizeUsername lower-cases and trims raw and returns "" when the result
// is not a valid login name.
func NormalizeUsername(raw string) string {
	username := strings.ToLower(strings.TrimSpace(raw))
	if !usernamePattern.MatchString(username) {
		return ""
	}
	return username
}

func NormalizeCredentialsInput(usernameRaw string, passwordRaw string) (string, string, error) {
	username := NormalizeUsername(usernameRaw)
	password := strings.TrimSpace(passwordRaw)
	if username == "" || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return username, password, nil
}
