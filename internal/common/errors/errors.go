// Package errors provides standardized error handling for the portal's HTTP surface.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeApplicationValidationFailed ErrorCode = "APPLICATION_VALIDATION_FAILED"
	ErrCodeRecordSchemaInvalid         ErrorCode = "RECORD_SCHEMA_INVALID"
	ErrCodeInvalidRequest              ErrorCode = "INVALID_REQUEST"
	ErrCodeFormReadOnly                ErrorCode = "FORM_READ_ONLY"

	ErrCodeAuthentication    ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodeDomainNotAllowed  ErrorCode = "DOMAIN_NOT_ALLOWED"
	ErrCodeSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeInvalidOAuthState ErrorCode = "INVALID_OAUTH_STATE"
	ErrCodeAdminAccessDenied ErrorCode = "ADMIN_ACCESS_DENIED"
	ErrCodeFormClosed        ErrorCode = "FORM_CLOSED"

	ErrCodeApplicationNotFound         ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeApplicationAlreadySubmitted ErrorCode = "APPLICATION_ALREADY_SUBMITTED"
	ErrCodeStoreReadFailed             ErrorCode = "STORE_READ_FAILED"
	ErrCodeStoreWriteFailed            ErrorCode = "STORE_WRITE_FAILED"
	ErrCodeSessionStoreFailed          ErrorCode = "SESSION_STORE_FAILED"

	ErrCodeExportFailed           ErrorCode = "EXPORT_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeExternalService        ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a metadata entry and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewApplicationValidationFailedError carries the per-field errors in metadata.
func NewApplicationValidationFailedError(fieldErrors interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationValidationFailed,
		Message:   "Please fix the highlighted fields",
		Retryable: false,
		Metadata:  map[string]interface{}{"fields": fieldErrors},
		Timestamp: time.Now().UTC(),
	}
}

func NewRecordSchemaInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordSchemaInvalid,
		Message:   "Application record does not match schema",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewFormReadOnlyError() *StandardError {
	return &StandardError{
		Code:      ErrCodeFormReadOnly,
		Message:   "Your application has been submitted and can no longer be edited",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAuthenticationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthentication,
		Message:   "Authentication failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDomainNotAllowedError uses message as the user-facing text.
func NewDomainNotAllowedError(message, email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDomainNotAllowed,
		Message:   message,
		Details:   fmt.Sprintf("email: %s", email),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSessionNotFoundError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Please login to access the form",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidOAuthStateError() *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidOAuthState,
		Message:   "Sign-in request expired, please try again",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAdminAccessDeniedError(email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAdminAccessDenied,
		Message:   "Unauthorized access",
		Details:   fmt.Sprintf("email: %s", email),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewFormClosedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeFormClosed,
		Message:   "Applications are closed",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewApplicationNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationNotFound,
		Message:   "No application found.",
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewApplicationAlreadySubmittedError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicationAlreadySubmitted,
		Message:   "Application has already been submitted",
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewStoreReadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreReadFailed,
		Message:   "Failed to load applications",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewStoreWriteFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreWriteFailed,
		Message:   "Failed to save application",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewSessionStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStoreFailed,
		Message:   "Session storage unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewExportFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExportFailed,
		Message:   "Failed to download Excel file",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   fmt.Sprintf("Failed to send %s notification", notificationType),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

var statusByCode = map[ErrorCode]int{
	ErrCodeApplicationValidationFailed: http.StatusUnprocessableEntity,
	ErrCodeRecordSchemaInvalid:         http.StatusUnprocessableEntity,
	ErrCodeInvalidRequest:              http.StatusBadRequest,
	ErrCodeFormReadOnly:                http.StatusConflict,
	ErrCodeAuthentication:              http.StatusUnauthorized,
	ErrCodeDomainNotAllowed:            http.StatusForbidden,
	ErrCodeSessionNotFound:             http.StatusUnauthorized,
	ErrCodeInvalidOAuthState:           http.StatusBadRequest,
	ErrCodeAdminAccessDenied:           http.StatusForbidden,
	ErrCodeFormClosed:                  http.StatusForbidden,
	ErrCodeApplicationNotFound:         http.StatusNotFound,
	ErrCodeApplicationAlreadySubmitted: http.StatusConflict,
	ErrCodeStoreReadFailed:             http.StatusServiceUnavailable,
	ErrCodeStoreWriteFailed:            http.StatusServiceUnavailable,
	ErrCodeSessionStoreFailed:          http.StatusServiceUnavailable,
	ErrCodeExportFailed:                http.StatusInternalServerError,
	ErrCodeNotificationSendFailed:      http.StatusBadGateway,
	ErrCodeExternalService:             http.StatusBadGateway,
}

// StatusCode returns the HTTP status for an error, 500 when unknown.
func StatusCode(err error) int {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		if status, ok := statusByCode[stdErr.Code]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HasCode reports whether err is a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return errors.As(err, &stdErr) && stdErr.Code == code
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "SCHEMA") || strings.Contains(codeStr, "INVALID_REQUEST"):
		return "VALIDATION"
	case strings.Contains(codeStr, "AUTH") || strings.Contains(codeStr, "DOMAIN") || strings.Contains(codeStr, "SESSION_NOT_FOUND") || strings.Contains(codeStr, "OAUTH") || strings.Contains(codeStr, "ADMIN"):
		return "AUTH"
	case strings.Contains(codeStr, "STORE") || strings.Contains(codeStr, "APPLICATION"):
		return "STORE"
	case strings.Contains(codeStr, "EXPORT"):
		return "EXPORT"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
