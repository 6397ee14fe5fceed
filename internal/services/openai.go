package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"careerpath/career-advisor/internal/apperrors"
	"careerpath/career-advisor/internal/config"
	"careerpath/career-advisor/internal/logger"
)

type openAIGateway struct {
	client      *openai.Client
	provider    string
	model       string
	temperature float32
}

// NewOpenAIGateway talks to any OpenAI-compatible chat completion API. provider labels logs
// and metrics ("openai" or "groq").
func NewOpenAIGateway(provider string, cfg config.OpenAIConfig, temperature float32) (CompletionGateway, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("an API key is required for the %s provider", provider)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &openAIGateway{
		client:      openai.NewClientWithConfig(clientConfig),
		provider:    provider,
		model:       cfg.Model,
		temperature: temperature,
	}, nil
}

// Provider implements CompletionGateway.
func (g *openAIGateway) Provider() string {
	return g.provider
}

// Complete implements CompletionGateway.
func (g *openAIGateway) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    messages,
		MaxTokens:   maxTokensOrDefault(req.MaxTokens),
		Temperature: g.temperature,
	})
	if err != nil {
		logger.Error().Err(err).Str("provider", g.provider).Msg("❌ Chat completion failed")
		return "", classifyOpenAIError(g.provider, err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.New(apperrors.CodeUpstreamMalformed, fmt.Sprintf("%s returned no choices", g.provider))
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		e := apperrors.New(apperrors.CodeUpstreamMalformed, fmt.Sprintf("%s returned an empty message", g.provider))
		e.Details = string(resp.Choices[0].FinishReason)
		return "", e
	}

	return text, nil
}

// classifyOpenAIError prefers the HTTP status carried by the SDK error over message text.
func classifyOpenAIError(provider string, err error) error {
	status := 0

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	msg := fmt.Sprintf("%s request failed", provider)
	switch status {
	case http.StatusTooManyRequests:
		return apperrors.Wrap(apperrors.CodeUpstreamRateLimited, msg, err)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return apperrors.Wrap(apperrors.CodeUpstreamTimeout, msg, err)
	}

	return apperrors.ClassifyUpstream(provider, err)
}
