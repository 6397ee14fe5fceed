package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"careerpath/career-advisor/internal/apperrors"
	"careerpath/career-advisor/internal/catalog"
	"careerpath/career-advisor/internal/config"
	"careerpath/career-advisor/internal/logger"
	"careerpath/career-advisor/internal/metrics"
	"careerpath/career-advisor/internal/scoring"
)

// Branch is the path an analysis takes.
type Branch string

const (
	BranchResume Branch = "resume"
	BranchSkills Branch = "skills"
)

// StepName identifies one gateway-backed step of the pipeline.
type StepName string

const (
	StepResumeRealityCheck       StepName = "resume_reality_check"
	StepMarketFit                StepName = "market_fit"
	StepPersonalizedLearningPlan StepName = "personalized_learning_plan"
	StepApplicationReadiness     StepName = "application_readiness"

	StepRoleMarketAnalysis    StepName = "role_market_analysis"
	StepRealisticLearningPlan StepName = "realistic_learning_plan"
	StepHonestStrategy        StepName = "honest_strategy"
	StepSkillsRealityCheck    StepName = "skills_reality_check"
)

// Section is one of the four report fields.
type Section string

const (
	SectionFinalRecommendations Section = "final_recommendations"
	SectionMarketResearch       Section = "market_research"
	SectionLearningPlan         Section = "learning_plan"
	SectionApplicationStrategy  Section = "application_strategy"
)

// Timeframe is the user's horizon, in months with an optional display form.
type Timeframe struct {
	Months  int
	Display string
}

// String returns Display when set and "<months> months" otherwise.
func (t Timeframe) String() string {
	if d := strings.TrimSpace(t.Display); d != "" {
		return d
	}
	return fmt.Sprintf("%d months", t.Months)
}

type AnalysisRequest struct {
	UserID        string
	TargetRole    string
	CurrentSkills []string
	Timeframe     Timeframe
	ResumeText    string
}

// Report holds the four text sections of an analysis.
type Report struct {
	FinalRecommendations string
	MarketResearch       string
	LearningPlan         string
	ApplicationStrategy  string
}

func (r *Report) set(section Section, text string) {
	switch section {
	case SectionFinalRecommendations:
		r.FinalRecommendations = text
	case SectionMarketResearch:
		r.MarketResearch = text
	case SectionLearningPlan:
		r.LearningPlan = text
	case SectionApplicationStrategy:
		r.ApplicationStrategy = text
	}
}

// AnalysisReport is the result of ComprehensiveAnalysis. Readiness is set on the skills branch.
type AnalysisReport struct {
	Report
	Branch    Branch
	Steps     []StepName
	Readiness *scoring.ReadinessResult
}

// CareerAnalyzer runs comprehensive analyses and deep resume reviews.
type CareerAnalyzer interface {
	ComprehensiveAnalysis(ctx context.Context, req AnalysisRequest) (*AnalysisReport, error)
	AnalyzeResumeDeeply(ctx context.Context, resumeText, targetRole string) (string, error)
}

// AdvisorOptions tunes the pipeline.
type AdvisorOptions struct {
	ResumeMinChars         int
	ResumeCharBudget       int
	DefaultTimeframeMonths int
	Timeout                time.Duration
	MaxTokens              int
}

// AdvisorOptionsFromConfig maps configuration onto AdvisorOptions.
func AdvisorOptionsFromConfig(cfg *config.Config) AdvisorOptions {
	return AdvisorOptions{
		ResumeMinChars:         cfg.Analysis.ResumeMinChars,
		ResumeCharBudget:       cfg.Analysis.ResumeCharBudget,
		DefaultTimeframeMonths: cfg.Analysis.DefaultTimeframeMonths,
		Timeout:                cfg.LLM.RequestTimeout,
		MaxTokens:              cfg.LLM.MaxTokens,
	}
}

func (o AdvisorOptions) withDefaults() AdvisorOptions {
	if o.ResumeMinChars <= 0 {
		o.ResumeMinChars = 100
	}
	if o.ResumeCharBudget <= 0 {
		o.ResumeCharBudget = 3000
	}
	if o.DefaultTimeframeMonths <= 0 {
		o.DefaultTimeframeMonths = 6
	}
	return o
}

// CareerAdvisor coordinates the other agents. It is itself an agent with the
// career advisor persona.
type CareerAdvisor struct {
	*Agent

	market     *MarketResearcher
	coach      *SkillsCoach
	strategist *ApplicationStrategist
	opts       AdvisorOptions
}

// NewCareerAdvisor builds the advisor and the three agents it coordinates, all sharing gateway.
func NewCareerAdvisor(gateway CompletionGateway, prompts *PromptLibrary, opts AdvisorOptions) (*CareerAdvisor, error) {
	opts = opts.withDefaults()

	agent, err := newPersonaAgent(gateway, prompts, PersonaCareerAdvisor, opts.MaxTokens)
	if err != nil {
		return nil, err
	}
	market, err := NewMarketResearcher(gateway, prompts, opts.MaxTokens)
	if err != nil {
		return nil, err
	}
	coach, err := NewSkillsCoach(gateway, prompts, opts.MaxTokens)
	if err != nil {
		return nil, err
	}
	strategist, err := NewApplicationStrategist(gateway, prompts, opts.MaxTokens)
	if err != nil {
		return nil, err
	}

	return &CareerAdvisor{
		Agent:      agent,
		market:     market,
		coach:      coach,
		strategist: strategist,
		opts:       opts,
	}, nil
}

// AdvisorFactory builds a fresh advisor and agent set per request. Only the gateway and the
// prompt library are shared, so transcripts never outlive the request that produced them.
type AdvisorFactory struct {
	gateway CompletionGateway
	prompts *PromptLibrary
	opts    AdvisorOptions
}

// NewAdvisorFactory checks once that every persona resolves.
func NewAdvisorFactory(gateway CompletionGateway, prompts *PromptLibrary, opts AdvisorOptions) (*AdvisorFactory, error) {
	f := &AdvisorFactory{gateway: gateway, prompts: prompts, opts: opts.withDefaults()}
	if _, err := f.New(); err != nil {
		return nil, err
	}
	return f, nil
}

// New returns an advisor with empty transcripts.
func (f *AdvisorFactory) New() (*CareerAdvisor, error) {
	return NewCareerAdvisor(f.gateway, f.prompts, f.opts)
}

// ComprehensiveAnalysis implements CareerAnalyzer on a fresh advisor.
func (f *AdvisorFactory) ComprehensiveAnalysis(ctx context.Context, req AnalysisRequest) (*AnalysisReport, error) {
	advisor, err := f.New()
	if err != nil {
		return nil, err
	}
	return advisor.ComprehensiveAnalysis(ctx, req)
}

// AnalyzeResumeDeeply implements CareerAnalyzer on a fresh advisor.
func (f *AdvisorFactory) AnalyzeResumeDeeply(ctx context.Context, resumeText, targetRole string) (string, error) {
	advisor, err := f.New()
	if err != nil {
		return "", err
	}
	return advisor.AnalyzeResumeDeeply(ctx, resumeText, targetRole)
}

func (c *CareerAdvisor) MarketResearcher() *MarketResearcher           { return c.market }
func (c *CareerAdvisor) SkillsCoach() *SkillsCoach                     { return c.coach }
func (c *CareerAdvisor) ApplicationStrategist() *ApplicationStrategist { return c.strategist }

// AnalyzeResumeDeeply implements CareerAnalyzer.
func (c *CareerAdvisor) AnalyzeResumeDeeply(ctx context.Context, resumeText, targetRole string) (string, error) {
	if strings.TrimSpace(resumeText) == "" {
		return "", apperrors.New(apperrors.CodeValidationFailed, "resume text is required")
	}
	return c.render(ctx, TplResumeDeepAnalysis, map[string]interface{}{
		"Resume":     truncateRunes(strings.TrimSpace(resumeText), c.opts.ResumeCharBudget),
		"TargetRole": targetRole,
	}, nil)
}

// analysisState is what the steps of one run read from and write to.
type analysisState struct {
	req       AnalysisRequest
	required  []string
	timeframe string
	resume    string
	readiness scoring.ReadinessResult
	outputs   map[StepName]string
}

type pipelineStep struct {
	name    StepName
	section Section
	run     func(ctx context.Context, s *analysisState) (string, error)
}

// UsesResume reports whether text is long enough to take the resume branch.
func (c *CareerAdvisor) UsesResume(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) > c.opts.withDefaults().ResumeMinChars
}

// ComprehensiveAnalysis implements CareerAnalyzer. Steps run one at a time and the first
// failure aborts the run with its typed error.
func (c *CareerAdvisor) ComprehensiveAnalysis(ctx context.Context, req AnalysisRequest) (*AnalysisReport, error) {
	req.TargetRole = strings.TrimSpace(req.TargetRole)
	if req.TargetRole == "" {
		return nil, apperrors.New(apperrors.CodeValidationFailed, "target role is required")
	}
	if req.Timeframe.Months <= 0 {
		req.Timeframe.Months = c.opts.DefaultTimeframeMonths
	}

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	state := &analysisState{
		req:       req,
		required:  catalog.RequiredSkills(req.TargetRole),
		timeframe: req.Timeframe.String(),
		outputs:   make(map[StepName]string),
	}

	report := &AnalysisReport{}
	var steps []pipelineStep
	if c.UsesResume(req.ResumeText) {
		report.Branch = BranchResume
		state.resume = truncateRunes(strings.TrimSpace(req.ResumeText), c.opts.ResumeCharBudget)
		steps = c.resumeSteps()
	} else {
		report.Branch = BranchSkills
		state.readiness = scoring.Score(req.CurrentSkills, state.required)
		readiness := state.readiness
		report.Readiness = &readiness
		steps = c.skillsSteps()
	}

	log := logger.With("career_advisor")
	log.Info().
		Str("role", req.TargetRole).
		Str("branch", string(report.Branch)).
		Int("steps", len(steps)).
		Msg("🚀 Starting comprehensive analysis")

	for _, step := range steps {
		text, err := step.run(ctx, state)
		if err != nil {
			metrics.AnalysisSteps.WithLabelValues(string(step.name), "error").Inc()
			metrics.AnalysesTotal.WithLabelValues(string(report.Branch), "error").Inc()
			log.Error().Err(err).Str("step", string(step.name)).Msg("❌ Analysis step failed")
			return nil, err
		}
		metrics.AnalysisSteps.WithLabelValues(string(step.name), "ok").Inc()

		state.outputs[step.name] = text
		report.set(step.section, text)
		report.Steps = append(report.Steps, step.name)
	}

	metrics.AnalysesTotal.WithLabelValues(string(report.Branch), "ok").Inc()
	log.Info().Str("role", req.TargetRole).Msg("✅ Comprehensive analysis completed")
	return report, nil
}

// resumeSteps are independent: each prompt re-sends the resume excerpt and nothing else is shared.
func (c *CareerAdvisor) resumeSteps() []pipelineStep {
	return []pipelineStep{
		{
			name:    StepResumeRealityCheck,
			section: SectionFinalRecommendations,
			run: func(ctx context.Context, s *analysisState) (string, error) {
				return c.render(ctx, TplResumeRealityCheck, map[string]interface{}{
					"Resume":         s.resume,
					"TargetRole":     s.req.TargetRole,
					"Timeframe":      s.timeframe,
					"RequiredSkills": s.required,
				}, nil)
			},
		},
		{
			name:    StepMarketFit,
			section: SectionMarketResearch,
			run: func(ctx context.Context, s *analysisState) (string, error) {
				return c.render(ctx, TplMarketFit, map[string]interface{}{
					"Resume":         s.resume,
					"TargetRole":     s.req.TargetRole,
					"RequiredSkills": s.required,
				}, nil)
			},
		},
		{
			name:    StepPersonalizedLearningPlan,
			section: SectionLearningPlan,
			run: func(ctx context.Context, s *analysisState) (string, error) {
				return c.render(ctx, TplPersonalizedLearningPlan, map[string]interface{}{
					"Resume":      s.resume,
					"TargetRole":  s.req.TargetRole,
					"Timeframe":   s.timeframe,
					"PhaseMonths": phaseMonths(s.req.Timeframe.Months),
				}, nil)
			},
		},
		{
			name:    StepApplicationReadiness,
			section: SectionApplicationStrategy,
			run: func(ctx context.Context, s *analysisState) (string, error) {
				return c.render(ctx, TplApplicationReadiness, map[string]interface{}{
					"Resume":     s.resume,
					"TargetRole": s.req.TargetRole,
					"Timeframe":  s.timeframe,
				}, nil)
			},
		},
	}
}

// skillsSteps end with a synthesis that sees the three earlier outputs as agent context.
func (c *CareerAdvisor) skillsSteps() []pipelineStep {
	return []pipelineStep{
		{
			name:    StepRoleMarketAnalysis,
			section: SectionMarketResearch,
			run: func(ctx context.Context, s *analysisState) (string, error) {
				return c.market.AnalyzeRoleSpecific(ctx, s.req.TargetRole, s.required)
			},
		},
		{
			name:    StepRealisticLearningPlan,
			section: SectionLearningPlan,
			run: func(ctx context.Context, s *analysisState) (string, error) {
				return c.coach.CreateRealisticPlan(ctx, s.readiness.Missing, s.timeframe, s.req.Timeframe.Months, s.req.TargetRole)
			},
		},
		{
			name:    StepHonestStrategy,
			section: SectionApplicationStrategy,
			run: func(ctx context.Context, s *analysisState) (string, error) {
				return c.strategist.HonestStrategy(ctx, s.req.TargetRole, s.readiness.Score, s.readiness.Missing, s.readiness.Matched, s.timeframe)
			},
		},
		{
			name:    StepSkillsRealityCheck,
			section: SectionFinalRecommendations,
			run: func(ctx context.Context, s *analysisState) (string, error) {
				entries := []ContextEntry{
					{Agent: c.market.Name, Text: s.outputs[StepRoleMarketAnalysis]},
					{Agent: c.coach.Name, Text: s.outputs[StepRealisticLearningPlan]},
					{Agent: c.strategist.Name, Text: s.outputs[StepHonestStrategy]},
				}
				return c.render(ctx, TplSkillsRealityCheck, map[string]interface{}{
					"TargetRole":     s.req.TargetRole,
					"Timeframe":      s.timeframe,
					"CurrentSkills":  s.req.CurrentSkills,
					"RequiredSkills": s.required,
					"Matched":        s.readiness.Matched,
					"Missing":        s.readiness.Missing,
					"Readiness":      s.readiness.Score,
				}, entries)
			},
		},
	}
}

func phaseMonths(months int) int {
	if p := months / 3; p > 0 {
		return p
	}
	return 1
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
