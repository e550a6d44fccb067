package util

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrUnsupportedVersion = errors.New("unsupported SCORM version")
	ErrAttemptRequired    = errors.New("attempt id is required")
	ErrUnknownLifecycle   = errors.New("unknown lifecycle event")
)
