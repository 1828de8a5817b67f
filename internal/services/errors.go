package services

import (
	"errors"
	"fmt"

	"sharegate/internal/constants"
)

// ServiceError represents a service-level error with an error code
type ServiceError struct {
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new service error
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// WrapServiceError wraps an existing error with a service error
func WrapServiceError(code, message string, err error) *ServiceError {
	return &ServiceError{Code: code, Message: message, Err: err}
}

// IsServiceError checks if an error is a ServiceError and returns its code
func IsServiceError(err error) (string, bool) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code, true
	}
	return "", false
}

// Pre-defined service errors for common cases
var (
	// Engine errors
	ErrRequestNotFound = NewServiceError(constants.ErrCodeRequestNotFound, "access request not found")
	ErrForbidden       = NewServiceError(constants.ErrCodeForbidden, "caller does not own this file")
	ErrSelfRequest     = NewServiceError(constants.ErrCodeInvalidRequest, "an owner cannot request access to their own file")
	ErrInvalidClientID = NewServiceError(constants.ErrCodeInvalidClientID, "invalid client identifier")
	ErrInvalidFileName = NewServiceError(constants.ErrCodeInvalidFileName, "invalid file name")

	// Auth errors
	ErrAuthRequired      = NewServiceError(constants.ErrCodeAuthRequired, "authentication required")
	ErrAuthInvalidAPIKey = NewServiceError(constants.ErrCodeAuthInvalidAPIKey, "invalid API key")
	ErrAuthInvalidCreds  = NewServiceError(constants.ErrCodeAuthInvalidCredentials, "invalid credentials")
	ErrClientNotFound    = NewServiceError(constants.ErrCodeAuthClientNotFound, "client not found")
	ErrClientExists      = NewServiceError(constants.ErrCodeAuthClientExists, "client already registered")
	ErrIdentityMismatch  = NewServiceError(constants.ErrCodeAuthIdentityMismatch, "API key does not belong to the acting client")
	ErrPassphraseTooWeak = NewServiceError(constants.ErrCodeAuthPassphraseTooWeak, "passphrase does not meet requirements")
)

// Errors with context

func ErrFileNotFoundWithName(ownerID, fileName string) *ServiceError {
	return &ServiceError{
		Code:    constants.ErrCodeFileNotFound,
		Message: fmt.Sprintf("file not found: %s (owner %s)", fileName, ownerID),
	}
}

func ErrInvalidTransitionWithState(operation, state string) *ServiceError {
	return &ServiceError{
		Code:    constants.ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot %s a request in state %q", operation, state),
	}
}

func ErrMissingParamWithName(name string) *ServiceError {
	return &ServiceError{
		Code:    constants.ErrCodeInvalidRequest,
		Message: fmt.Sprintf("required parameter missing: %s", name),
	}
}

// WrapInternalError wraps a store failure as an internal service error.
func WrapInternalError(err error) *ServiceError {
	return WrapServiceError(constants.ErrCodeInternalError, "internal error", err)
}
