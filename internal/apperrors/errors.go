// Package apperrors defines the structured errors shared by the gateway, the agents and the
// HTTP layer.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type ErrorCode string

// Upstream (language model provider) errors.
const (
	CodeUpstreamTimeout     ErrorCode = "UPSTREAM_TIMEOUT"
	CodeUpstreamRateLimited ErrorCode = "UPSTREAM_RATE_LIMITED"
	CodeUpstreamMalformed   ErrorCode = "UPSTREAM_MALFORMED_RESPONSE"
	CodeUpstreamFailed      ErrorCode = "UPSTREAM_FAILED"
)

// Request and persistence errors.
const (
	CodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeOwnershipMismatch ErrorCode = "OWNERSHIP_MISMATCH"
	CodeBatchTooLarge     ErrorCode = "BATCH_TOO_LARGE"
	CodeJSONExpected      ErrorCode = "JSON_EXPECTED"
	CodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	CodeConflict          ErrorCode = "CONFLICT"
	CodeRateLimited       ErrorCode = "RATE_LIMITED"
	CodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// StandardError is a coded application error. Callers branch on Code, never on Message.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

func New(code ErrorCode, message string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Retryable: isRetryableCode(code),
		Timestamp: time.Now().UTC(),
	}
}

func Wrap(code ErrorCode, message string, cause error) *StandardError {
	e := New(code, message)
	e.cause = cause
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// ClassifyUpstream turns a provider SDK error into a coded upstream error. Errors that are
// already coded pass through unchanged.
func ClassifyUpstream(provider string, err error) *StandardError {
	if err == nil {
		return nil
	}

	var se *StandardError
	if errors.As(err, &se) {
		return se
	}

	msg := fmt.Sprintf("%s request failed", provider)
	lower := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		strings.Contains(lower, "timeout"),
		strings.Contains(lower, "deadline exceeded"):
		return Wrap(CodeUpstreamTimeout, msg, err)
	case strings.Contains(lower, "429"),
		strings.Contains(lower, "rate limit"),
		strings.Contains(lower, "resource_exhausted"),
		strings.Contains(lower, "quota"):
		return Wrap(CodeUpstreamRateLimited, msg, err)
	default:
		return Wrap(CodeUpstreamFailed, msg, err)
	}
}

// CodeOf returns the code carried by err, or CodeInternal.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeInternal
}

func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// HTTPStatus maps an error to the status the API answers with.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeValidationFailed, CodeBatchTooLarge:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeOwnershipMismatch:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeRateLimited, CodeUpstreamRateLimited:
		return http.StatusTooManyRequests
	case CodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	case CodeUpstreamMalformed, CodeUpstreamFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func isRetryableCode(code ErrorCode) bool {
	switch code {
	case CodeUpstreamTimeout, CodeUpstreamRateLimited, CodeUpstreamFailed, CodeRateLimited:
		return true
	}
	return false
}
