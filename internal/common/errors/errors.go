// Package errors provides the coded error type shared by the HTTP API and the
// job workers, and its conversion to workflow (BPMN) errors.
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

// Input and account errors
const (
	ErrCodeInvalidInput          ErrorCode = "INVALID_INPUT"
	ErrCodeInvalidEmail          ErrorCode = "INVALID_EMAIL"
	ErrCodeWeakPassword          ErrorCode = "WEAK_PASSWORD"
	ErrCodeInvalidInvitationCode ErrorCode = "INVALID_INVITATION_CODE"
	ErrCodeUserAlreadyExists     ErrorCode = "USER_ALREADY_EXISTS"
	ErrCodeUserNotFound          ErrorCode = "USER_NOT_FOUND"
	ErrCodeInvalidCredentials    ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeSessionInvalid        ErrorCode = "SESSION_INVALID"
	ErrCodeForbidden             ErrorCode = "FORBIDDEN"
)

// Generation backend errors
const (
	ErrCodeBackendNotConfigured ErrorCode = "BACKEND_NOT_CONFIGURED"
	ErrCodeLLMTimeout           ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMSynthesisFailed   ErrorCode = "LLM_SYNTHESIS_FAILED"
)

// Storage errors
const (
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeSessionStoreFailed       ErrorCode = "SESSION_STORE_FAILED"
)

const ErrCodeWorkflowEngineUnavailable ErrorCode = "WORKFLOW_ENGINE_UNAVAILABLE"

const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

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

// WithMetadata returns e after attaching key=value.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError reports a missing or malformed request field.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid input", details, false)
}

func NewInvalidEmailError(email string) *StandardError {
	return newError(ErrCodeInvalidEmail, "Email address is not valid", fmt.Sprintf("email: %s", email), false)
}

func NewWeakPasswordError(minLength int) *StandardError {
	return newError(ErrCodeWeakPassword, "Password is too short", fmt.Sprintf("minimum length: %d", minLength), false)
}

func NewPasswordTooLongError(maxLength int) *StandardError {
	return newError(ErrCodeWeakPassword, "Password is too long", fmt.Sprintf("maximum length: %d bytes", maxLength), false)
}

func NewInvalidInvitationCodeError() *StandardError {
	return newError(ErrCodeInvalidInvitationCode, "Invitation code is not valid", "", false)
}

func NewUserAlreadyExistsError(email string) *StandardError {
	return newError(ErrCodeUserAlreadyExists, "An account with this email already exists", fmt.Sprintf("email: %s", email), false)
}

func NewUserNotFoundError(email string) *StandardError {
	return newError(ErrCodeUserNotFound, "No account for this email", fmt.Sprintf("email: %s", email), false)
}

func NewInvalidCredentialsError() *StandardError {
	return newError(ErrCodeInvalidCredentials, "Email or password is incorrect", "", false)
}

// NewSessionInvalidError covers missing, expired, malformed and revoked tokens.
func NewSessionInvalidError(details string) *StandardError {
	return newError(ErrCodeSessionInvalid, "Not logged in or session expired", details, false)
}

func NewForbiddenError(details string) *StandardError {
	return newError(ErrCodeForbidden, "Insufficient permissions", details, false)
}

// NewBackendNotConfiguredError is returned when AI generation is requested
// without a configured remote backend.
func NewBackendNotConfiguredError(provider string) *StandardError {
	return newError(ErrCodeBackendNotConfigured, "AI generation backend is not configured", fmt.Sprintf("provider: %s", provider), false)
}

// NewLLMTimeoutError creates a retryable LLM timeout error.
func NewLLMTimeoutError(timeout time.Duration) *StandardError {
	return newError(ErrCodeLLMTimeout, "LLM generation timeout", fmt.Sprintf("call exceeded %s", timeout), true)
}

// NewLLMSynthesisFailedError creates a retryable LLM failure.
func NewLLMSynthesisFailedError(err error) *StandardError {
	return newError(ErrCodeLLMSynthesisFailed, "LLM generation API error", detailsOf(err), true)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", detailsOf(err), true)
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, detailsOf(err)), true)
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", detailsOf(err), true)
}

func NewSessionStoreFailedError(err error) *StandardError {
	return newError(ErrCodeSessionStoreFailed, "Session store error", detailsOf(err), true)
}

// NewWorkflowEngineUnavailableError wraps Zeebe gateway failures.
func NewWorkflowEngineUnavailableError(operation string, err error) *StandardError {
	return newError(ErrCodeWorkflowEngineUnavailable, "Workflow engine unavailable",
		fmt.Sprintf("operation: %s, error: %s", operation, detailsOf(err)), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", detailsOf(err), false)
}

func detailsOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 4. Error Conversion
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:             "INVALID_INPUT",
	ErrCodeBackendNotConfigured:     "BACKEND_NOT_CONFIGURED",
	ErrCodeLLMTimeout:               "LLM_TIMEOUT",
	ErrCodeLLMSynthesisFailed:       "LLM_SYNTHESIS_FAILED",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:     "QUERY_EXECUTION_FAILED",
	ErrCodeDatabaseInsertFailed:     "DATABASE_INSERT_FAILED",
}

// GetRetryCount returns the recommended retry count for a job that failed with code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeSessionStoreFailed,
		ErrCodeLLMSynthesisFailed:
		return 3

	case ErrCodeLLMTimeout:
		return 1

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// HTTPStatus maps an error code to the response status the API uses for it.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidEmail, ErrCodeWeakPassword, ErrCodeInvalidInvitationCode:
		return http.StatusBadRequest
	case ErrCodeUserAlreadyExists:
		return http.StatusConflict
	case ErrCodeUserNotFound, ErrCodeInvalidCredentials, ErrCodeSessionInvalid:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBackendNotConfigured, ErrCodeDatabaseConnectionFailed:
		return http.StatusServiceUnavailable
	case ErrCodeLLMTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeLLMSynthesisFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err to a *StandardError, wrapping anything else as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err carries code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "USER") || strings.Contains(codeStr, "CREDENTIALS") ||
		strings.Contains(codeStr, "SESSION") || strings.Contains(codeStr, "FORBIDDEN"):
		return "AUTH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "LLM") || strings.Contains(codeStr, "BACKEND"):
		return "AI"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "WEAK"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
