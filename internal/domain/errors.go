package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Store errors
	ErrNotInitialized ErrorCode = "STORE_NOT_INITIALIZED"

	// Ingestion errors
	ErrParseFailed ErrorCode = "PARSE_FAILED"

	// Explanation client errors
	ErrMissingAPIKey ErrorCode = "MISSING_API_KEY"
	ErrUpstreamAPI   ErrorCode = "UPSTREAM_API_ERROR"
	ErrResponseParse ErrorCode = "RESPONSE_PARSE_FAILED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewNotInitializedError() *DomainError {
	return NewError(ErrNotInitialized, "database not initialized", nil)
}

func NewQuestionNotFoundError(id int64) *DomainError {
	return NewError(ErrNotFound, fmt.Sprintf("question not found with ID: %d", id), nil)
}

func NewParseError(message string, err error) *DomainError {
	return NewError(ErrParseFailed, message, err)
}

func NewMissingAPIKeyError() *DomainError {
	return NewError(ErrMissingAPIKey, "API key is missing; configure one in settings", nil)
}

func NewUpstreamAPIError(message string, err error) *DomainError {
	return NewError(ErrUpstreamAPI, message, err)
}

func NewResponseParseError(err error) *DomainError {
	return NewError(ErrResponseParse, "failed to parse API response", err)
}
