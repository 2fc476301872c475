package core

import (
	"errors"
	"regexp"
)

// ErrNotConfigured is returned when an optional integration was left unconfigured
var ErrNotConfigured = errors.New("not configured")

// ErrInvalidPayload is a sentinel error for Slack payloads missing required fields
var ErrInvalidPayload = errors.New("invalid payload")

// ErrNoThread is returned when a thread-scoped Slack call is made without a thread
var ErrNoThread = errors.New("no thread")

// IsNotConfiguredError checks if an error is a "not configured" error
func IsNotConfiguredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotConfigured) {
		return true
	}
	return notConfiguredRegex.MatchString(err.Error())
}

var notConfiguredRegex = regexp.MustCompile(`(?i)not configured`)
