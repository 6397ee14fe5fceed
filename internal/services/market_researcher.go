package services

import (
	"context"
	"strings"
)

// DefaultMarketLocation is used when a demand query names no location.
const DefaultMarketLocation = "remote"

// MarketResearcher analyses labour-market demand for roles and skills.
type MarketResearcher struct {
	*Agent
}

func NewMarketResearcher(gateway CompletionGateway, prompts *PromptLibrary, maxTokens int) (*MarketResearcher, error) {
	agent, err := newPersonaAgent(gateway, prompts, PersonaMarketResearcher, maxTokens)
	if err != nil {
		return nil, err
	}
	return &MarketResearcher{Agent: agent}, nil
}

// AnalyzeRoleDemand reports demand, openings and salaries for role in location.
func (m *MarketResearcher) AnalyzeRoleDemand(ctx context.Context, role, location string) (string, error) {
	if strings.TrimSpace(location) == "" {
		location = DefaultMarketLocation
	}
	return m.render(ctx, TplRoleDemand, map[string]interface{}{
		"Role":     role,
		"Location": location,
	}, nil)
}

// IdentifyTrendingSkills groups a role's skills into core, desired, emerging and declining.
func (m *MarketResearcher) IdentifyTrendingSkills(ctx context.Context, role string) (string, error) {
	return m.render(ctx, TplTrendingSkills, map[string]interface{}{"Role": role}, nil)
}

// CompareRoleOpportunities compares openings, pay and growth across roles.
func (m *MarketResearcher) CompareRoleOpportunities(ctx context.Context, roles []string) (string, error) {
	return m.render(ctx, TplCompareRoles, map[string]interface{}{"Roles": roles}, nil)
}

// AnalyzeRoleSpecific is the market step of the skills-only analysis.
func (m *MarketResearcher) AnalyzeRoleSpecific(ctx context.Context, role string, requiredSkills []string) (string, error) {
	return m.render(ctx, TplRoleMarketAnalysis, map[string]interface{}{
		"Role":           role,
		"RequiredSkills": requiredSkills,
	}, nil)
}
