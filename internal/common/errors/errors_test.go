// internal/common/errors/errors_test.go
package errors

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name            string
		err             *StandardError
		expectedCode    string
		expectedRetries int
	}{
		{"invalid input is terminal", NewInvalidInputError("productName is required"), "INVALID_INPUT", 0},
		{"llm failure retries", NewLLMSynthesisFailedError(fmt.Errorf("502")), "LLM_SYNTHESIS_FAILED", 3},
		{"llm timeout retries once", NewLLMTimeoutError(5 * time.Second), "LLM_TIMEOUT", 1},
		{"unmapped code passes through", NewUserNotFoundError("a@b.co"), "USER_NOT_FOUND", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.expectedCode, bpmnErr.Code)
			assert.Equal(t, tt.expectedRetries, bpmnErr.Retries)

			vars := bpmnErr.ToErrorVariables()
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
			assert.Equal(t, tt.expectedCode, vars["errorCode"])
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeWeakPassword, http.StatusBadRequest},
		{ErrCodeUserAlreadyExists, http.StatusConflict},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeSessionInvalid, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeBackendNotConfigured, http.StatusServiceUnavailable},
		{ErrCodeLLMTimeout, http.StatusGatewayTimeout},
		{ErrCodeQueryExecutionFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.code))
		})
	}
}

func TestAsStandardError(t *testing.T) {
	assert.Nil(t, AsStandardError(nil))

	wrapped := fmt.Errorf("register: %w", NewUserAlreadyExistsError("a@b.co"))
	stdErr := AsStandardError(wrapped)
	require.NotNil(t, stdErr)
	assert.Equal(t, ErrCodeUserAlreadyExists, stdErr.Code)
	assert.True(t, HasCode(wrapped, ErrCodeUserAlreadyExists))

	plain := AsStandardError(fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeInvalidCredentials))
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeSessionInvalid))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryExecutionFailed))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeBackendNotConfigured))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidInvitationCode))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestWithMetadata(t *testing.T) {
	err := NewInvalidInputError("x").WithMetadata("field", "sellingPoint")
	assert.Equal(t, "sellingPoint", err.Metadata["field"])
}
