package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyUpstream(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      ErrorCode
		retryable bool
	}{
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), CodeUpstreamTimeout, true},
		{"timeout text", errors.New("net/http: request timeout"), CodeUpstreamTimeout, true},
		{"status 429", errors.New("error, status code: 429, message: slow down"), CodeUpstreamRateLimited, true},
		{"quota", errors.New("RESOURCE_EXHAUSTED: quota exceeded"), CodeUpstreamRateLimited, true},
		{"other", errors.New("connection refused"), CodeUpstreamFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := ClassifyUpstream("gemini", tt.err)
			require.NotNil(t, se)
			assert.Equal(t, tt.code, se.Code)
			assert.Equal(t, tt.retryable, se.Retryable)
			assert.ErrorIs(t, se, tt.err)
		})
	}
}

func TestClassifyUpstream_PassesCodedErrorsThrough(t *testing.T) {
	original := New(CodeUpstreamMalformed, "empty response")
	wrapped := fmt.Errorf("agent: %w", original)

	se := ClassifyUpstream("openai", wrapped)

	assert.Same(t, original, se)
	assert.False(t, se.Retryable)
	assert.Nil(t, ClassifyUpstream("openai", nil))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{New(CodeValidationFailed, "bad"), http.StatusBadRequest},
		{New(CodeBatchTooLarge, "too many"), http.StatusBadRequest},
		{New(CodeOwnershipMismatch, "not yours"), http.StatusForbidden},
		{New(CodeNotFound, "missing"), http.StatusNotFound},
		{New(CodeConflict, "taken"), http.StatusConflict},
		{New(CodeUpstreamRateLimited, "slow"), http.StatusTooManyRequests},
		{New(CodeUpstreamTimeout, "slow"), http.StatusGatewayTimeout},
		{New(CodeUpstreamMalformed, "junk"), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("x")))
	assert.True(t, Is(fmt.Errorf("w: %w", New(CodeNotFound, "x")), CodeNotFound))
	assert.False(t, Is(nil, CodeNotFound))
}
