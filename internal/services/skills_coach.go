package services

import (
	"context"
	"strings"

	"careerpath/career-advisor/internal/scoring"
)

// maxPlannedSkills bounds the per-skill sections of a realistic plan.
const maxPlannedSkills = 5

// SkillGap is the scored comparison between a candidate and a role.
type SkillGap struct {
	TargetRole     string
	CurrentSkills  []string
	RequiredSkills []string
	Readiness      scoring.ReadinessResult
}

// NewSkillGap scores current against required for role.
func NewSkillGap(role string, current, required []string) SkillGap {
	return SkillGap{
		TargetRole:     role,
		CurrentSkills:  current,
		RequiredSkills: required,
		Readiness:      scoring.Score(current, required),
	}
}

// SkillsCoach assesses skill gaps and writes learning plans.
type SkillsCoach struct {
	*Agent
}

func NewSkillsCoach(gateway CompletionGateway, prompts *PromptLibrary, maxTokens int) (*SkillsCoach, error) {
	agent, err := newPersonaAgent(gateway, prompts, PersonaSkillsCoach, maxTokens)
	if err != nil {
		return nil, err
	}
	return &SkillsCoach{Agent: agent}, nil
}

// HonestAssessment explains what the scored gap means for the candidate.
func (s *SkillsCoach) HonestAssessment(ctx context.Context, gap SkillGap) (string, error) {
	return s.render(ctx, TplHonestAssessment, map[string]interface{}{
		"TargetRole":     gap.TargetRole,
		"CurrentSkills":  gap.CurrentSkills,
		"RequiredSkills": gap.RequiredSkills,
		"Matched":        gap.Readiness.Matched,
		"Missing":        gap.Readiness.Missing,
		"Readiness":      gap.Readiness.Score,
	}, nil)
}

// CreateRealisticPlan writes a learning plan for gaps. With no gaps it returns a fixed message
// without calling the gateway.
func (s *SkillsCoach) CreateRealisticPlan(ctx context.Context, gaps []string, timeframe string, months int, role string) (string, error) {
	if len(gaps) == 0 {
		return s.prompts.Render(TplNoLearningPlan, map[string]interface{}{"TargetRole": role})
	}

	focus := gaps
	if len(focus) > maxPlannedSkills {
		focus = focus[:maxPlannedSkills]
	}

	return s.render(ctx, TplRealisticLearningPlan, map[string]interface{}{
		"TargetRole":      role,
		"Timeframe":       timeframe,
		"TimeframeMonths": months,
		"Gaps":            gaps,
		"FocusGaps":       focus,
	}, nil)
}

// AssessSkillLevel scores current against required and runs an honest assessment.
func (s *SkillsCoach) AssessSkillLevel(ctx context.Context, current, required []string) (string, error) {
	return s.HonestAssessment(ctx, NewSkillGap("the role", current, required))
}

// CreateLearningPlan writes a week-by-week plan for a learner at level.
func (s *SkillsCoach) CreateLearningPlan(ctx context.Context, gaps []string, weeks int, level string) (string, error) {
	if len(gaps) == 0 {
		return s.prompts.Render(TplNoLearningPlan, map[string]interface{}{"TargetRole": "the role"})
	}
	if weeks <= 0 {
		weeks = 12
	}
	if strings.TrimSpace(level) == "" {
		level = "beginner"
	}

	return s.render(ctx, TplLearningPlan, map[string]interface{}{
		"Gaps":  gaps,
		"Weeks": weeks,
		"Level": level,
	}, nil)
}
