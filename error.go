package structguard

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes map 1:1 onto the failure taxonomy of the engine. Application
// code inspects codes with ErrorCode rather than matching message text.
const (
	EINTERNAL    = "internal"
	EINVALID     = "invalid"
	ENOTFOUND    = "not_found"
	EPARSE       = "parse"
	EPOLICY      = "policy_mismatch"
	ERECONSTRUCT = "reconstruction"
	EUNSUPPORTED = "unsupported_format"
)

// Error represents an application error with a machine-readable code and
// optional structural context (the offending path, node ID, or source line)
// so that a failed extract or inject is diagnosable from the message alone.
type Error struct {
	// Code is one of the E* constants above.
	Code string

	// Message is a human-readable description of the error.
	Message string

	// Path is the structural address involved in the failure, if any.
	Path string

	// NodeID is the flat-map key involved in the failure, if any.
	NodeID string

	// Line is the 1-based source line of a parse failure, when the
	// underlying parser provides one. Zero means unknown.
	Line int
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("structguard: ")
	sb.WriteString(e.Message)

	var ctx []string
	if e.NodeID != "" {
		ctx = append(ctx, "id="+e.NodeID)
	}
	if e.Path != "" {
		ctx = append(ctx, "path="+e.Path)
	}
	if e.Line > 0 {
		ctx = append(ctx, fmt.Sprintf("line=%d", e.Line))
	}
	if len(ctx) > 0 {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(ctx, ", "))
		sb.WriteString(")")
	}
	return sb.String()
}

// Errorf returns a new Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps err and returns its code. Non-application errors map to
// EINTERNAL; a nil error returns the empty string.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps err and returns its message. Non-application errors
// report a generic message; a nil error returns the empty string.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// IsReconstruction reports whether err belongs to the reconstruction class
// of failures: a plain shape mismatch (ERECONSTRUCT) or a policy mismatch
// (EPOLICY), both of which mean the whole inject call was refused.
func IsReconstruction(err error) bool {
	code := ErrorCode(err)
	return code == ERECONSTRUCT || code == EPOLICY
}
