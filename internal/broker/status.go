package broker

import (
	"context"
	"errors"
	"fmt"
)

// Code classifies a failed broker operation. Internal error distinctions are
// not preserved across the transport boundary; callers only ever see one of
// these codes plus a message.
type Code string

const (
	CodeDeclined     Code = "declined"
	CodeFailed       Code = "failed"
	CodeTimeout      Code = "timeout"
	CodeUnauthorized Code = "unauthorized"
)

// Status is the declined/failed result reported to callers instead of a
// successful result string.
type Status struct {
	Code    Code
	Message string
}

func (s *Status) Error() string {
	return fmt.Sprintf("%s: %s", s.Code, s.Message)
}

// Declined reports a request that was refused before reaching the
// implementation, typically because the caller's identity could not be
// resolved.
func Declined(format string, args ...any) *Status {
	return &Status{Code: CodeDeclined, Message: fmt.Sprintf(format, args...)}
}

// Failed reports an operation the implementation attempted and could not
// complete.
func Failed(format string, args ...any) *Status {
	return &Status{Code: CodeFailed, Message: fmt.Sprintf(format, args...)}
}

// Timeout reports an operation abandoned after its bounded wait elapsed.
func Timeout(format string, args ...any) *Status {
	return &Status{Code: CodeTimeout, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized reports a caller whose identity resolved but is not permitted.
func Unauthorized(format string, args ...any) *Status {
	return &Status{Code: CodeUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// AsStatus collapses an arbitrary error into the wire vocabulary. A *Status
// passes through unchanged; context deadline errors become timeouts;
// everything else becomes a failed status.
func AsStatus(err error) *Status {
	if err == nil {
		return nil
	}
	var status *Status
	if errors.As(err, &status) {
		return status
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout("%s", err.Error())
	}
	return Failed("%s", err.Error())
}
