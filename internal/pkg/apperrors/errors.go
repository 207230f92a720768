package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// Authentication errors
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrInvalidFormat = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Rate limiting
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Identity errors
var (
	ErrUnknownAccountKind = errors.New("unknown account kind")
	ErrAccountNotFound    = fmt.Errorf("account: %w", ErrResourceNotFound)
	ErrEmailAlreadyExists = fmt.Errorf("contact address: %w", ErrResourceAlreadyExists)
)

// Vacancy and application errors
var (
	ErrVacancyNotFound        = fmt.Errorf("vacancy: %w", ErrResourceNotFound)
	ErrApplicationNotFound    = fmt.Errorf("application: %w", ErrResourceNotFound)
	ErrNotOwner               = fmt.Errorf("not owner: %w", ErrPermissionDenied)
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrDuplicateApplication   = errors.New("application already exists for this vacancy")
	ErrNoSeatsAvailable       = errors.New("no seats available")
	ErrMissingPrerequisite    = errors.New("missing prerequisite")
)

// Messaging errors
var (
	ErrMessageNotFound      = fmt.Errorf("message: %w", ErrResourceNotFound)
	ErrInvalidPairing       = errors.New("invalid messaging pairing")
	ErrNoRelationshipExists = errors.New("no application links these parties")
)

// Kind names are stable and safe to expose to callers.
const (
	KindNotFound               = "NotFound"
	KindForbidden              = "Forbidden"
	KindNotOwner               = "NotOwner"
	KindInvalidStateTransition = "InvalidStateTransition"
	KindDuplicateApplication   = "DuplicateApplication"
	KindNoSeatsAvailable       = "NoSeatsAvailable"
	KindMissingPrerequisite    = "MissingPrerequisite"
	KindInvalidPairing         = "InvalidPairing"
	KindNoRelationshipExists   = "NoRelationshipExists"
	KindValidationError        = "ValidationError"
	KindUnknownAccountKind     = "UnknownAccountKind"
	KindAccountNotFound        = "AccountNotFound"
	KindVacancyNotFound        = "VacancyNotFound"
	KindConflict               = "Conflict"
	KindRateLimited            = "RateLimited"
	KindUnauthorized           = "Unauthorized"
	KindInternal               = "Internal"
)

// kindTable is ordered from most to least specific.
var kindTable = []struct {
	err  error
	kind string
}{
	{ErrAccountNotFound, KindAccountNotFound},
	{ErrVacancyNotFound, KindVacancyNotFound},
	{ErrResourceNotFound, KindNotFound},
	{ErrNotOwner, KindNotOwner},
	{ErrPermissionDenied, KindForbidden},
	{ErrInvalidStateTransition, KindInvalidStateTransition},
	{ErrDuplicateApplication, KindDuplicateApplication},
	{ErrNoSeatsAvailable, KindNoSeatsAvailable},
	{ErrMissingPrerequisite, KindMissingPrerequisite},
	{ErrInvalidPairing, KindInvalidPairing},
	{ErrNoRelationshipExists, KindNoRelationshipExists},
	{ErrValidationFailed, KindValidationError},
	{ErrUnknownAccountKind, KindUnknownAccountKind},
	{ErrResourceAlreadyExists, KindConflict},
	{ErrRateLimited, KindRateLimited},
	{ErrTokenExpired, KindUnauthorized},
	{ErrTokenInvalid, KindUnauthorized},
	{ErrInvalidFormat, KindUnauthorized},
}

// KindOf returns the taxonomy kind of err, or KindInternal when err is not
// one of the anticipated failures.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, entry := range kindTable {
		if errors.Is(err, entry.err) {
			return entry.kind
		}
	}
	return KindInternal
}

// IsDomain reports whether err belongs to the taxonomy (as opposed to an
// opaque storage or programming failure).
func IsDomain(err error) bool {
	k := KindOf(err)
	return k != "" && k != KindInternal
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a new custom error for malformed input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
