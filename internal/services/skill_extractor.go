package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"careerpath/career-advisor/internal/apperrors"
	"careerpath/career-advisor/internal/logger"
)

const (
	StatusParsed   = "parsed"
	StatusUnparsed = "unparsed"
)

const jsonOnlySystemPrompt = "You are a precise information extraction engine. Respond with JSON only."

var jobSkillsSchema = gojsonschema.NewStringLoader(`{
  "type": "object",
  "required": ["required_skills"],
  "properties": {
    "job_title": {"type": "string"},
    "required_skills": {"type": "array", "items": {"type": "string"}},
    "preferred_skills": {"type": "array", "items": {"type": "string"}},
    "experience_level": {"type": "string"},
    "years_of_experience": {"type": "number", "minimum": 0},
    "responsibilities": {"type": "array", "items": {"type": "string"}}
  }
}`)

var skillMatchSchema = gojsonschema.NewStringLoader(`{
  "type": "object",
  "required": ["match_percentage", "matched_skills", "missing_critical_skills"],
  "properties": {
    "match_percentage": {"type": "number", "minimum": 0, "maximum": 100},
    "matched_skills": {"type": "array", "items": {"type": "string"}},
    "missing_critical_skills": {"type": "array", "items": {"type": "string"}},
    "transferable_skills": {"type": "array", "items": {"type": "string"}},
    "recommendation": {"type": "string"},
    "readiness_level": {"type": "string"}
  }
}`)

// StructuredResult is the outcome of a model call that was asked for JSON. Status is
// "parsed" with Data set, or "unparsed" with the raw text and the reason in ErrorCode.
type StructuredResult struct {
	Status    string                 `json:"status"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Raw       string                 `json:"raw,omitempty"`
	ErrorCode apperrors.ErrorCode    `json:"error_code,omitempty"`
	Errors    []string               `json:"errors,omitempty"`
}

// Parsed reports whether the model output matched the expected shape.
func (r *StructuredResult) Parsed() bool {
	return r.Status == StatusParsed
}

// JobAnalyzer extracts structured data from job descriptions.
type JobAnalyzer interface {
	ExtractSkills(ctx context.Context, jobDescription string) (*StructuredResult, error)
	CompareToProfile(ctx context.Context, jobSkills string, candidateSkills []string) (*StructuredResult, error)
}

type jobAnalyzer struct {
	gateway   CompletionGateway
	prompts   *PromptLibrary
	maxTokens int
}

func NewJobAnalyzer(gateway CompletionGateway, prompts *PromptLibrary, maxTokens int) JobAnalyzer {
	return &jobAnalyzer{gateway: gateway, prompts: prompts, maxTokens: maxTokens}
}

// ExtractSkills implements JobAnalyzer. Gateway failures are errors; prose or off-schema
// output is an unparsed result.
func (j *jobAnalyzer) ExtractSkills(ctx context.Context, jobDescription string) (*StructuredResult, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, apperrors.New(apperrors.CodeValidationFailed, "job description is required")
	}

	logger.Info().Int("length", len(jobDescription)).Msg("🔍 Extracting skills from job description")
	return j.complete(ctx, TplExtractSkills, map[string]interface{}{
		"JobDescription": jobDescription,
	}, jobSkillsSchema)
}

// CompareToProfile implements JobAnalyzer.
func (j *jobAnalyzer) CompareToProfile(ctx context.Context, jobSkills string, candidateSkills []string) (*StructuredResult, error) {
	if strings.TrimSpace(jobSkills) == "" {
		return nil, apperrors.New(apperrors.CodeValidationFailed, "job skills are required")
	}

	return j.complete(ctx, TplCompareSkills, map[string]interface{}{
		"JobSkills":       jobSkills,
		"CandidateSkills": candidateSkills,
	}, skillMatchSchema)
}

func (j *jobAnalyzer) complete(ctx context.Context, tpl string, data map[string]interface{}, schema gojsonschema.JSONLoader) (*StructuredResult, error) {
	prompt, err := j.prompts.Render(tpl, data)
	if err != nil {
		return nil, err
	}

	text, err := j.gateway.Complete(ctx, CompletionRequest{
		Prompt:       prompt,
		SystemPrompt: jsonOnlySystemPrompt,
		MaxTokens:    j.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	return parseStructured(text, schema), nil
}

// parseStructured decodes the JSON object embedded in text and validates it against schema.
func parseStructured(text string, schema gojsonschema.JSONLoader) *StructuredResult {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(extractJSON(text)), &data); err != nil {
		logger.Warn().Err(err).Msg("⚠️ Model returned invalid JSON")
		return &StructuredResult{
			Status:    StatusUnparsed,
			Raw:       text,
			ErrorCode: apperrors.CodeJSONExpected,
			Errors:    []string{err.Error()},
		}
	}

	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(data))
	if err != nil {
		return &StructuredResult{
			Status:    StatusUnparsed,
			Raw:       text,
			ErrorCode: apperrors.CodeUpstreamMalformed,
			Errors:    []string{fmt.Sprintf("validation error: %v", err)},
		}
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return &StructuredResult{
			Status:    StatusUnparsed,
			Raw:       text,
			ErrorCode: apperrors.CodeUpstreamMalformed,
			Errors:    errs,
		}
	}

	return &StructuredResult{Status: StatusParsed, Data: data}
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
