package lms

import (
	"errors"
	"fmt"
)

// 固定的诊断文本，内容页可能依赖这些字符串
const (
	DiagNotConnected = "Not connected.\n Verify network connection."
	DiagNotFound     = "Requested page not found. [404]"
	DiagServerError  = "Internal Server Error [500]."
	DiagParseFailed  = "Requested JSON parse failed."
	DiagTimeout      = "Time out error."
	DiagAborted      = "Ajax request aborted."
	diagUncaught     = "Uncaught Error.\n"
)

var (
	ErrTransport       = errors.New("lms request failed")
	ErrNotAcknowledged = errors.New("lms did not acknowledge commit")
	ErrMalformedState  = errors.New("lms returned malformed attempt state")
)

// SyncError carries the diagnostic text reported through GetDiagnostic.
type SyncError struct {
	Op         string
	Diagnostic string
	Err        error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("lms %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Diagnostic extracts the diagnostic text of err.
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}
	var se *SyncError
	if errors.As(err, &se) {
		return se.Diagnostic
	}
	return err.Error()
}
