// Package validation provides collect-all form validators: every rule for a
// submission runs to completion so the user sees all problems at once.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// EmailPattern matches a well-formed email address
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// PasswordMinLength is the minimum accepted password length
	PasswordMinLength = 6
)

var emailRegex = regexp.MustCompile(EmailPattern)

// ErrorList accumulates field-level validation messages.
type ErrorList struct {
	errs []string
}

// Add appends a message to the list.
func (l *ErrorList) Add(message string) {
	l.errs = append(l.errs, message)
}

// Empty reports whether no errors were collected.
func (l *ErrorList) Empty() bool {
	return len(l.errs) == 0
}

// Messages returns the collected messages in submission order.
func (l *ErrorList) Messages() []string {
	if l.errs == nil {
		return []string{}
	}
	return l.errs
}

// Required trims the value and records an error when it is empty or
// whitespace-only. Returns the trimmed value either way.
func Required(l *ErrorList, value, label string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		l.Add(fmt.Sprintf("%s is required.", label))
	}
	return trimmed
}

// Optional trims the value without recording anything.
func Optional(value string) string {
	return strings.TrimSpace(value)
}

// Email validates presence and well-formedness of an email address.
func Email(l *ErrorList, value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		l.Add("Email is required.")
		return trimmed
	}
	if !emailRegex.MatchString(trimmed) {
		l.Add("Invalid email format.")
	}
	return trimmed
}

// Password validates the password and its confirmation.
func Password(l *ErrorList, password, confirm string) string {
	trimmed := strings.TrimSpace(password)
	switch {
	case trimmed == "":
		l.Add("Password is required.")
	case len(trimmed) < PasswordMinLength:
		l.Add(fmt.Sprintf("Password must have at least %d characters.", PasswordMinLength))
	}

	trimmedConfirm := strings.TrimSpace(confirm)
	if trimmedConfirm == "" {
		l.Add("Please confirm your password.")
	} else if trimmed != trimmedConfirm {
		l.Add("Passwords do not match.")
	}

	return trimmed
}
