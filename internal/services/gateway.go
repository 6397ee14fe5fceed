package services

import (
	"context"
	"fmt"
	"time"

	"careerpath/career-advisor/internal/apperrors"
	"careerpath/career-advisor/internal/config"
	"careerpath/career-advisor/internal/metrics"
)

// DefaultMaxTokens is used when a completion request does not set MaxTokens.
const DefaultMaxTokens = 2000

// CompletionRequest is one blocking chat completion: an optional system message, one user
// message and an output budget.
type CompletionRequest struct {
	Prompt       string
	SystemPrompt string
	MaxTokens    int
}

// CompletionGateway is the single integration point with the hosted language model.
// Implementations return *apperrors.StandardError with an upstream code on failure.
type CompletionGateway interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Provider() string
}

// NewCompletionGateway builds the gateway selected by LLM_PROVIDER, wrapped with metrics.
func NewCompletionGateway(ctx context.Context, cfg *config.Config) (CompletionGateway, error) {
	var (
		gw  CompletionGateway
		err error
	)

	switch cfg.LLM.Provider {
	case "gemini", "":
		gw, err = NewGeminiService(ctx, cfg.Gemini, cfg.LLM.Temperature)
	case "openai", "groq":
		gw, err = NewOpenAIGateway(cfg.LLM.Provider, cfg.OpenAI, cfg.LLM.Temperature)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLM.Provider)
	}
	if err != nil {
		return nil, err
	}

	return NewInstrumentedGateway(gw), nil
}

type instrumentedGateway struct {
	next CompletionGateway
}

// NewInstrumentedGateway records request counts and latency for next.
func NewInstrumentedGateway(next CompletionGateway) CompletionGateway {
	return &instrumentedGateway{next: next}
}

// Complete implements CompletionGateway.
func (g *instrumentedGateway) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	start := time.Now()
	text, err := g.next.Complete(ctx, req)

	provider := g.next.Provider()
	metrics.GatewayDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	status := "ok"
	if err != nil {
		status = string(apperrors.CodeOf(err))
	}
	metrics.GatewayRequests.WithLabelValues(provider, status).Inc()

	return text, err
}

// Provider implements CompletionGateway.
func (g *instrumentedGateway) Provider() string {
	return g.next.Provider()
}

func maxTokensOrDefault(n int) int {
	if n <= 0 {
		return DefaultMaxTokens
	}
	return n
}
