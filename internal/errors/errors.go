package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrPermissionDenied = new(ErrCodePermissionDenied, "permission denied")
	ErrHTTPClient       = new(ErrCodeHTTPClient, "http client error")
	ErrDatabase         = new(ErrCodeDatabase, "database error")
	ErrSystem           = new(ErrCodeSystemError, "system error")

	// Billing session failures. Every public billing operation narrows its
	// failures to exactly one of these before they reach a caller.
	ErrNotAuthenticated      = new(ErrCodeNotAuthenticated, "could not get user session")
	ErrCustomerResolution    = new(ErrCodeCustomerResolution, "unable to access customer record")
	ErrNoCustomerRecord      = new(ErrCodeNoCustomerRecord, "no customer record")
	ErrUnrecognizedPriceType = new(ErrCodeUnrecognizedPriceType, "unrecognized price type")
	ErrSessionCreation       = new(ErrCodeSessionCreation, "unable to create session")
	ErrUnknownFailure        = new(ErrCodeUnknownFailure, "an unknown error occurred")

	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrHTTPClient:       http.StatusInternalServerError,
		ErrDatabase:         http.StatusInternalServerError,
		ErrNotFound:         http.StatusNotFound,
		ErrAlreadyExists:    http.StatusConflict,
		ErrValidation:       http.StatusBadRequest,
		ErrPermissionDenied: http.StatusForbidden,
		ErrSystem:           http.StatusInternalServerError,

		ErrNotAuthenticated:      http.StatusUnauthorized,
		ErrCustomerResolution:    http.StatusBadGateway,
		ErrNoCustomerRecord:      http.StatusNotFound,
		ErrUnrecognizedPriceType: http.StatusBadRequest,
		ErrSessionCreation:       http.StatusBadGateway,
		ErrUnknownFailure:        http.StatusInternalServerError,
	}

	// billing kinds are checked before the generic ones so that a
	// narrowed error wrapping e.g. a database error reports the narrowed code
	codePrecedence = []*InternalError{
		ErrNotAuthenticated,
		ErrNoCustomerRecord,
		ErrCustomerResolution,
		ErrUnrecognizedPriceType,
		ErrSessionCreation,
		ErrUnknownFailure,
		ErrValidation,
		ErrNotFound,
		ErrAlreadyExists,
		ErrPermissionDenied,
		ErrHTTPClient,
		ErrDatabase,
		ErrSystem,
	}
)

const (
	ErrCodeHTTPClient       = "http_client_error"
	ErrCodeSystemError      = "system_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeAlreadyExists    = "already_exists"
	ErrCodeValidation       = "validation_error"
	ErrCodePermissionDenied = "permission_denied"
	ErrCodeDatabase         = "database_error"

	ErrCodeNotAuthenticated      = "not_authenticated"
	ErrCodeCustomerResolution    = "customer_resolution_failed"
	ErrCodeNoCustomerRecord      = "no_customer_record"
	ErrCodeUnrecognizedPriceType = "unrecognized_price_type"
	ErrCodeSessionCreation       = "session_creation_failed"
	ErrCodeUnknownFailure        = "unknown_failure"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// New creates a new InternalError
func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotAuthenticated checks if an error is a missing session error
func IsNotAuthenticated(err error) bool {
	return errors.Is(err, ErrNotAuthenticated)
}

// IsNoCustomerRecord checks if an error reports a user without a billing customer
func IsNoCustomerRecord(err error) bool {
	return errors.Is(err, ErrNoCustomerRecord)
}

// Code returns the machine-readable code of err, or unknown_failure when
// err carries none of the known marks.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, kind := range codePrecedence {
		if errors.Is(err, kind) {
			return kind.Code
		}
	}
	return ErrCodeUnknownFailure
}

func HTTPStatusFromErr(err error) int {
	for _, kind := range codePrecedence {
		if errors.Is(err, kind) {
			return statusCodeMap[kind]
		}
	}
	return http.StatusInternalServerError
}
