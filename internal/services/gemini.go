package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"careerpath/career-advisor/internal/apperrors"
	"careerpath/career-advisor/internal/config"
	"careerpath/career-advisor/internal/logger"
)

const providerGemini = "gemini"

// maxEmbedChars keeps embedding input within the model's token window.
const maxEmbedChars = 40000

// Embedder turns text into a dense vector for the career memory.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// GeminiService is both a CompletionGateway and an Embedder.
type GeminiService interface {
	CompletionGateway
	Embedder
}

type geminiService struct {
	client      *genai.Client
	modelName   string
	embedModel  string
	temperature float32
}

func NewGeminiService(ctx context.Context, cfg config.GeminiConfig, temperature float32) (GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		client:      client,
		modelName:   cfg.Model,
		embedModel:  cfg.EmbedModel,
		temperature: temperature,
	}, nil
}

// Provider implements CompletionGateway.
func (g *geminiService) Provider() string {
	return providerGemini
}

// Complete implements CompletionGateway.
func (g *geminiService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	temperature := g.temperature
	genConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(maxTokensOrDefault(req.MaxTokens)),
	}
	if req.SystemPrompt != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(req.Prompt), genConfig)
	if err != nil {
		logger.Error().Err(err).Str("provider", providerGemini).Msg("❌ Gemini API error")
		return "", apperrors.ClassifyUpstream(providerGemini, err)
	}

	if resp == nil {
		return "", apperrors.New(apperrors.CodeUpstreamMalformed, "gemini returned no response")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		reason := "no candidates"
		if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
			reason = string(resp.Candidates[0].FinishReason)
		}
		logger.Warn().Str("provider", providerGemini).Str("finish_reason", reason).Msg("⚠️ Gemini response had no text")
		e := apperrors.New(apperrors.CodeUpstreamMalformed, "gemini returned no text content")
		e.Details = reason
		return "", e
	}

	return text, nil
}

// GenerateEmbedding implements Embedder.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = truncateRunes(text, maxEmbedChars)

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, apperrors.ClassifyUpstream(providerGemini, err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, apperrors.New(apperrors.CodeUpstreamMalformed, "empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}
