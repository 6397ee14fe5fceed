package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpath/career-advisor/internal/apperrors"
	"careerpath/career-advisor/internal/config"
	"careerpath/career-advisor/internal/metrics"
)

func TestInstrumentedGateway_RecordsOutcome(t *testing.T) {
	gw := newFakeGateway()
	gw.reply = func(n int, _ CompletionRequest) (string, error) {
		if n == 1 {
			return "", apperrors.New(apperrors.CodeUpstreamTimeout, "fake request failed")
		}
		return "ok", nil
	}
	instrumented := NewInstrumentedGateway(gw)

	okBefore := testutil.ToFloat64(metrics.GatewayRequests.WithLabelValues("fake", "ok"))
	timeoutBefore := testutil.ToFloat64(metrics.GatewayRequests.WithLabelValues("fake", string(apperrors.CodeUpstreamTimeout)))

	text, err := instrumented.Complete(context.Background(), CompletionRequest{Prompt: "a"})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)

	_, err = instrumented.Complete(context.Background(), CompletionRequest{Prompt: "b"})
	assert.True(t, apperrors.Is(err, apperrors.CodeUpstreamTimeout))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.GatewayRequests.WithLabelValues("fake", "ok")))
	assert.Equal(t, timeoutBefore+1, testutil.ToFloat64(metrics.GatewayRequests.WithLabelValues("fake", string(apperrors.CodeUpstreamTimeout))))
	assert.Equal(t, "fake", instrumented.Provider())
}

func TestNewCompletionGateway_Selection(t *testing.T) {
	_, err := NewCompletionGateway(context.Background(), &config.Config{LLM: config.LLMConfig{Provider: "anthropic"}})
	assert.ErrorContains(t, err, "unknown LLM provider")

	_, err = NewCompletionGateway(context.Background(), &config.Config{LLM: config.LLMConfig{Provider: "groq"}})
	assert.ErrorContains(t, err, "API key is required")

	gw, err := NewCompletionGateway(context.Background(), &config.Config{
		LLM:    config.LLMConfig{Provider: "openai"},
		OpenAI: config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini"},
	})
	require.NoError(t, err)
	assert.Equal(t, "openai", gw.Provider())
}

func TestClassifyOpenAIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperrors.ErrorCode
	}{
		{"rate limited", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"}, apperrors.CodeUpstreamRateLimited},
		{"gateway timeout", &openai.RequestError{HTTPStatusCode: http.StatusGatewayTimeout, Err: errors.New("upstream")}, apperrors.CodeUpstreamTimeout},
		{"deadline", context.DeadlineExceeded, apperrors.CodeUpstreamTimeout},
		{"server error", &openai.APIError{HTTPStatusCode: http.StatusInternalServerError, Message: "boom"}, apperrors.CodeUpstreamFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.CodeOf(classifyOpenAIError("openai", tt.err)))
		})
	}
}

func TestMaxTokensOrDefault(t *testing.T) {
	assert.Equal(t, DefaultMaxTokens, maxTokensOrDefault(0))
	assert.Equal(t, 500, maxTokensOrDefault(500))
}

func TestTruncateRunes_KeepsEmbeddingInputValidUTF8(t *testing.T) {
	text := "a" + strings.Repeat("é", maxEmbedChars)

	out := truncateRunes(text, maxEmbedChars)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, maxEmbedChars, utf8.RuneCountInString(out))

	assert.Equal(t, "short", truncateRunes("short", maxEmbedChars))
}
