package services

import (
	"context"
)

// ApplicationStrategist plans applications, resumes and interviews.
type ApplicationStrategist struct {
	*Agent
}

func NewApplicationStrategist(gateway CompletionGateway, prompts *PromptLibrary, maxTokens int) (*ApplicationStrategist, error) {
	agent, err := newPersonaAgent(gateway, prompts, PersonaApplicationStrategist, maxTokens)
	if err != nil {
		return nil, err
	}
	return &ApplicationStrategist{Agent: agent}, nil
}

// CreateApplicationStrategy plans an application to one job. match is a 0-100 skill match.
func (a *ApplicationStrategist) CreateApplicationStrategy(ctx context.Context, jobDescription, background string, match int) (string, error) {
	return a.render(ctx, TplApplicationStrategy, map[string]interface{}{
		"JobDescription": jobDescription,
		"Background":     background,
		"Match":          match,
	}, nil)
}

func (a *ApplicationStrategist) OptimizeResumeSection(ctx context.Context, text, requirements string) (string, error) {
	return a.render(ctx, TplOptimizeResumeSection, map[string]interface{}{
		"Text":         text,
		"Requirements": requirements,
	}, nil)
}

func (a *ApplicationStrategist) PrepareInterviewQuestions(ctx context.Context, jobTitle, company, jobDescription string) (string, error) {
	return a.render(ctx, TplInterviewQuestions, map[string]interface{}{
		"JobTitle":       jobTitle,
		"Company":        company,
		"JobDescription": jobDescription,
	}, nil)
}

// HonestStrategy is the strategy step of the skills-only analysis.
func (a *ApplicationStrategist) HonestStrategy(ctx context.Context, role string, readiness int, gaps, matched []string, timeframe string) (string, error) {
	return a.render(ctx, TplHonestStrategy, map[string]interface{}{
		"TargetRole": role,
		"Readiness":  readiness,
		"Missing":    gaps,
		"Matched":    matched,
		"Timeframe":  timeframe,
	}, nil)
}
