package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Form validation limits. Input that fails these checks is rejected
// client-side and never reaches the network.
const (
	MinPasswordLen    = 6
	MinPatientNameLen = 2
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// ValidPassword reports whether a password meets the minimum length.
func ValidPassword(s string) bool {
	return utf8.RuneCountInString(s) >= MinPasswordLen
}

// ValidPatientName reports whether a patient name is long enough to book.
func ValidPatientName(s string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= MinPatientNameLen
}
