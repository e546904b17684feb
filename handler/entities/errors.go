package entities

import (
	"errors"
	"fmt"
)

// Code classifies every outcome of a public engine operation.
// The set is stable: callers switch on it instead of matching messages.
type Code int

const (
	CodeOK Code = iota
	CodeInvalidApplication
	CodeInvalidType
	CodeInvalidScheme
	CodeSystemFailure
	CodeDeclined
	CodeNotFound
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeInvalidApplication:
		return "invalid_application"
	case CodeInvalidType:
		return "invalid_type"
	case CodeInvalidScheme:
		return "invalid_scheme"
	case CodeDeclined:
		return "declined"
	case CodeNotFound:
		return "not_found"
	}
	return "system_failure"
}

// Sentinel errors for common error patterns.
// These allow both errors.Is() checks and errors.As() for detailed information.
var (
	// ErrNotFound is returned when a query is valid but the data does not exist.
	// It is an expected outcome, not an exceptional one.
	ErrNotFound = errors.New("not found")

	// ErrInvalidApplication is returned when a path does not resolve to an
	// application, or the application does not declare the requested capability.
	ErrInvalidApplication = errors.New("invalid application")

	// ErrInvalidType is returned for malformed type identifiers and extensions.
	ErrInvalidType = errors.New("invalid type identifier")

	// ErrInvalidScheme is returned for malformed URL schemes.
	ErrInvalidScheme = errors.New("invalid scheme")

	// ErrDeclined is returned when the registry accepted a write request but
	// a subsequent read shows it was not applied. The platform or the user
	// refused; retrying blindly will not help.
	ErrDeclined = errors.New("declined")

	// ErrSystemFailure is returned for unexpected collaborator failures.
	ErrSystemFailure = errors.New("system failure")
)

// NotFoundError reports a valid query against data that does not exist.
type NotFoundError struct {
	Kind   string // "type", "scheme", "binding", "application"
	Target string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Target)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError reports rejected caller input. Code is one of
// CodeInvalidApplication, CodeInvalidType, CodeInvalidScheme.
type ValidationError struct {
	Code   Code
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	switch e.Code {
	case CodeInvalidApplication:
		return target == ErrInvalidApplication
	case CodeInvalidType:
		return target == ErrInvalidType
	case CodeInvalidScheme:
		return target == ErrInvalidScheme
	}
	return false
}

// DeclinedError reports a silently ignored registry write, detected by the
// transactor's read-back. Current holds the binding observed after the
// write, empty if none exists.
type DeclinedError struct {
	Target  string
	AppPath string
	Current string
}

func (e *DeclinedError) Error() string {
	if e.Current == "" {
		return fmt.Sprintf("default handler change for %s was not applied", e.Target)
	}
	return fmt.Sprintf("default handler change for %s was not applied: still %s", e.Target, e.Current)
}

func (e *DeclinedError) Is(target error) bool {
	return target == ErrDeclined
}

// SystemError wraps an unexpected collaborator failure.
type SystemError struct {
	Op  string
	Err error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SystemError) Unwrap() error {
	return e.Err
}

func (e *SystemError) Is(target error) bool {
	return target == ErrSystemFailure
}

// CodeOf maps an error to its result code. A nil error is CodeOK;
// an unrecognized error is CodeSystemFailure.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidApplication):
		return CodeInvalidApplication
	case errors.Is(err, ErrInvalidType):
		return CodeInvalidType
	case errors.Is(err, ErrInvalidScheme):
		return CodeInvalidScheme
	case errors.Is(err, ErrDeclined):
		return CodeDeclined
	}
	return CodeSystemFailure
}
