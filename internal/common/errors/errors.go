// Package errors provides standardized error handling for the HTTP surface
// and the post-submission follow-ups.
package errors

import (
	stderrors "errors"
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
	// request errors
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRequestBody  ErrorCode = "INVALID_REQUEST_BODY"
	ErrCodeInvalidNumericInput ErrorCode = "INVALID_NUMERIC_INPUT"
	ErrCodeUnknownIndustry     ErrorCode = "UNKNOWN_INDUSTRY"
	ErrCodeMethodNotAllowed    ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimited         ErrorCode = "RATE_LIMITED"

	// persistence errors
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"

	// follow-up errors, never surfaced to clients
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeCRMSyncFailed          ErrorCode = "CRM_SYNC_FAILED"
	ErrCodeSearchIndexFailed      ErrorCode = "SEARCH_INDEX_FAILED"
	ErrCodeWorkflowStartFailed    ErrorCode = "WORKFLOW_START_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error. Message is safe to
// show to clients; Metadata entries are added to the response body.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata sets a public response field and returns e.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// HTTPStatus returns the response status for e.
func (e *StandardError) HTTPStatus() int {
	return HTTPStatus(e.Code)
}

// ==========================
// 2. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: IsRetryableErrorCode(code),
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewMissingRequiredFieldsError reports absent or empty contact fields.
func NewMissingRequiredFieldsError(fields []string) *StandardError {
	return newError(ErrCodeValidationFailed, "Missing required fields",
		fmt.Sprintf("fields: %s", strings.Join(fields, ", ")), nil)
}

// NewInvalidRequestBodyError reports a body that is not JSON or fails the
// schema. violations are returned to the client under "errors".
func NewInvalidRequestBodyError(violations []string) *StandardError {
	if violations == nil {
		violations = []string{}
	}
	return newError(ErrCodeInvalidRequestBody, "Invalid request body", strings.Join(violations, "; "), nil).
		WithMetadata("errors", violations)
}

// NewInvalidNumericInputError lists calculator fields that are not numbers.
func NewInvalidNumericInputError(fields []string, cause error) *StandardError {
	return newError(ErrCodeInvalidNumericInput, "Invalid numeric input", strings.Join(fields, ", "), cause).
		WithMetadata("fields", fields)
}

// NewUnknownIndustryError reports an industry missing from the multiplier table.
func NewUnknownIndustryError(industry string, cause error) *StandardError {
	return newError(ErrCodeUnknownIndustry, "Unknown industry", fmt.Sprintf("industry: %s", industry), cause)
}

func NewMethodNotAllowedError(method string) *StandardError {
	return newError(ErrCodeMethodNotAllowed, "Method not allowed", fmt.Sprintf("method: %s", method), nil)
}

func NewRateLimitedError(retryAfter time.Duration) *StandardError {
	return newError(ErrCodeRateLimited, "Too many requests", fmt.Sprintf("retryAfter: %s", retryAfter), nil)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Error processing enquiry", err.Error(), err)
}

// NewDatabaseInsertFailedError carries the driver error; the submission is
// never retried by this service.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Error processing enquiry", err.Error(), err)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), err)
}

func NewCRMSyncFailedError(err error) *StandardError {
	return newError(ErrCodeCRMSyncFailed, "CRM lead creation failed", err.Error(), err)
}

func NewSearchIndexFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchIndexFailed, "Search indexing failed",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), err)
}

func NewWorkflowStartFailedError(processID string, err error) *StandardError {
	return newError(ErrCodeWorkflowStartFailed, "Workflow start failed",
		fmt.Sprintf("processId: %s, error: %s", processID, err.Error()), err)
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Internal server error", err.Error(), err)
}

// ==========================
// 3. Code Mapping
// ==========================

type codeSpec struct {
	status    int
	retryable bool
	category  string
}

var codeMapping = map[ErrorCode]codeSpec{
	ErrCodeValidationFailed:    {http.StatusBadRequest, false, "validation"},
	ErrCodeInvalidRequestBody:  {http.StatusBadRequest, false, "validation"},
	ErrCodeInvalidNumericInput: {http.StatusBadRequest, false, "validation"},
	ErrCodeUnknownIndustry:     {http.StatusBadRequest, false, "validation"},
	ErrCodeMethodNotAllowed:    {http.StatusMethodNotAllowed, false, "request"},
	ErrCodeRateLimited:         {http.StatusTooManyRequests, true, "request"},

	ErrCodeDatabaseConnectionFailed: {http.StatusInternalServerError, true, "database"},
	ErrCodeDatabaseInsertFailed:     {http.StatusInternalServerError, true, "database"},

	ErrCodeNotificationSendFailed: {http.StatusBadGateway, true, "followup"},
	ErrCodeCRMSyncFailed:          {http.StatusBadGateway, true, "followup"},
	ErrCodeSearchIndexFailed:      {http.StatusBadGateway, true, "followup"},
	ErrCodeWorkflowStartFailed:    {http.StatusBadGateway, true, "followup"},

	ErrCodeInternal: {http.StatusInternalServerError, false, "internal"},
}

// HTTPStatus maps a code to its response status. Unknown codes are 500.
func HTTPStatus(code ErrorCode) int {
	if spec, ok := codeMapping[code]; ok {
		return spec.status
	}
	return http.StatusInternalServerError
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return codeMapping[code].retryable
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	if spec, ok := codeMapping[code]; ok {
		return spec.category
	}
	return "unknown"
}

// ==========================
// 4. Normalization
// ==========================

// Normalize returns the StandardError in err's chain. Package sentinels
// declared as errors.New("<CODE>") are recognised by their text, so a handler
// error wrapping ErrDatabaseInsertFailed becomes DATABASE_INSERT_FAILED with
// the full chain as details. Anything else is INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}

	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	if code, ok := sentinelCode(err); ok {
		return newError(code, defaultMessage(code), err.Error(), err)
	}

	return NewInternalError(err)
}

func sentinelCode(err error) (ErrorCode, bool) {
	queue := []error{err}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if e == nil {
			continue
		}
		if _, ok := codeMapping[ErrorCode(e.Error())]; ok {
			return ErrorCode(e.Error()), true
		}
		switch u := e.(type) {
		case interface{ Unwrap() error }:
			queue = append(queue, u.Unwrap())
		case interface{ Unwrap() []error }:
			queue = append(queue, u.Unwrap()...)
		}
	}
	return "", false
}

func defaultMessage(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed:
		return "Missing required fields"
	case ErrCodeInvalidRequestBody:
		return "Invalid request body"
	case ErrCodeInvalidNumericInput:
		return "Invalid numeric input"
	case ErrCodeUnknownIndustry:
		return "Unknown industry"
	case ErrCodeMethodNotAllowed:
		return "Method not allowed"
	case ErrCodeRateLimited:
		return "Too many requests"
	case ErrCodeDatabaseConnectionFailed, ErrCodeDatabaseInsertFailed:
		return "Error processing enquiry"
	}
	return "Internal server error"
}
