package services

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Template names referenced by the agents and the orchestrator.
const (
	TplDefaultSystemPrompt      = "default_system_prompt"
	TplAgentTurn                = "agent_turn"
	TplResumeDeepAnalysis       = "resume_deep_analysis"
	TplResumeRealityCheck       = "resume_reality_check"
	TplMarketFit                = "market_fit"
	TplPersonalizedLearningPlan = "personalized_learning_plan"
	TplApplicationReadiness     = "application_readiness"
	TplSkillsRealityCheck       = "skills_reality_check"
	TplRoleMarketAnalysis       = "role_market_analysis"
	TplRoleDemand               = "role_demand"
	TplTrendingSkills           = "trending_skills"
	TplCompareRoles             = "compare_roles"
	TplHonestAssessment         = "honest_assessment"
	TplNoLearningPlan           = "no_learning_plan"
	TplRealisticLearningPlan    = "realistic_learning_plan"
	TplLearningPlan             = "learning_plan"
	TplApplicationStrategy      = "application_strategy"
	TplOptimizeResumeSection    = "optimize_resume_section"
	TplInterviewQuestions       = "interview_questions"
	TplHonestStrategy           = "honest_strategy"
	TplExtractSkills            = "extract_skills"
	TplCompareSkills            = "compare_skills"

	TplGreetingFinal    = "greeting_final_recommendations"
	TplGreetingMarket   = "greeting_market_research"
	TplGreetingLearning = "greeting_learning_plan"
	TplGreetingStrategy = "greeting_application_strategy"
)

// Persona keys in the agents section.
const (
	PersonaCareerAdvisor         = "career_advisor"
	PersonaMarketResearcher      = "market_researcher"
	PersonaSkillsCoach           = "skills_coach"
	PersonaApplicationStrategist = "application_strategist"
)

var requiredTemplates = []string{
	TplDefaultSystemPrompt, TplAgentTurn, TplResumeDeepAnalysis, TplResumeRealityCheck,
	TplMarketFit, TplPersonalizedLearningPlan, TplApplicationReadiness, TplSkillsRealityCheck,
	TplRoleMarketAnalysis, TplRoleDemand, TplTrendingSkills, TplCompareRoles,
	TplHonestAssessment, TplNoLearningPlan, TplRealisticLearningPlan, TplLearningPlan,
	TplApplicationStrategy, TplOptimizeResumeSection, TplInterviewQuestions, TplHonestStrategy,
	TplExtractSkills, TplCompareSkills, TplGreetingFinal, TplGreetingMarket, TplGreetingLearning, TplGreetingStrategy,
}

var requiredPersonas = []string{
	PersonaCareerAdvisor, PersonaMarketResearcher, PersonaSkillsCoach, PersonaApplicationStrategist,
}

//go:embed prompts/prompts.yaml
var defaultPrompts []byte

// AgentPersona is the identity an agent speaks with.
type AgentPersona struct {
	Name         string   `yaml:"name"`
	Role         string   `yaml:"role"`
	Expertise    []string `yaml:"expertise"`
	SystemPrompt string   `yaml:"system_prompt"`
}

type promptFile struct {
	Agents    map[string]AgentPersona `yaml:"agents"`
	Templates map[string]string       `yaml:"templates"`
}

// PromptLibrary holds the parsed personas and task templates. It is safe for concurrent use
// once loaded.
type PromptLibrary struct {
	personas  map[string]AgentPersona
	templates *template.Template
}

// LoadPromptLibrary reads prompts from path, or the embedded defaults when path is empty.
func LoadPromptLibrary(path string) (*PromptLibrary, error) {
	if path == "" {
		return ParsePromptLibrary(defaultPrompts)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}
	return ParsePromptLibrary(data)
}

// DefaultPromptLibrary parses the embedded prompts. It panics if they are invalid.
func DefaultPromptLibrary() *PromptLibrary {
	lib, err := ParsePromptLibrary(defaultPrompts)
	if err != nil {
		panic(err)
	}
	return lib
}

// ParsePromptLibrary parses a prompts document and checks that every persona and template the
// service uses is present and compiles.
func ParsePromptLibrary(data []byte) (*PromptLibrary, error) {
	var file promptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}

	for _, key := range requiredPersonas {
		if _, ok := file.Agents[key]; !ok {
			return nil, fmt.Errorf("prompts: missing agent persona %q", key)
		}
	}

	root := template.New("prompts").Funcs(promptFuncs).Option("missingkey=error")
	for _, name := range requiredTemplates {
		body, ok := file.Templates[name]
		if !ok {
			return nil, fmt.Errorf("prompts: missing template %q", name)
		}
		if _, err := root.New(name).Parse(body); err != nil {
			return nil, fmt.Errorf("prompts: failed to parse template %q: %w", name, err)
		}
	}

	return &PromptLibrary{personas: file.Agents, templates: root}, nil
}

// Persona returns the persona stored under key.
func (p *PromptLibrary) Persona(key string) (AgentPersona, error) {
	persona, ok := p.personas[key]
	if !ok {
		return AgentPersona{}, fmt.Errorf("unknown agent persona %q", key)
	}
	return persona, nil
}

// Render executes the named template. Missing data keys are an error.
func (p *PromptLibrary) Render(name string, data map[string]interface{}) (string, error) {
	var sb strings.Builder
	if err := p.templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", name, err)
	}
	return strings.TrimSpace(sb.String()), nil
}

var promptFuncs = template.FuncMap{
	"join":    func(items []string) string { return strings.Join(items, ", ") },
	"listOr":  listOr,
	"bullets": bullets,
	"upper":   strings.ToUpper,
	"add":     func(a, b int) int { return a + b },
}

func listOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

// bullets renders one "- " line per item, prefixed by marker when set.
func bullets(items []string, marker, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	lines := make([]string, len(items))
	for i, item := range items {
		if marker != "" {
			lines[i] = "- " + marker + " " + item
		} else {
			lines[i] = "- " + item
		}
	}
	return strings.Join(lines, "\n")
}
