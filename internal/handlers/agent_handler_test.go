package handlers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpath/career-advisor/internal/apperrors"
	"careerpath/career-advisor/internal/services"
)

func newAgentApp(t *testing.T) (*fiber.App, *stubGateway, *services.CareerAdvisor) {
	t.Helper()

	gw := &stubGateway{}
	advisors, err := services.NewAdvisorFactory(gw, services.DefaultPromptLibrary(), services.AdvisorOptions{})
	require.NoError(t, err)
	advisor, err := advisors.New()
	require.NoError(t, err)

	h := NewAgentHandler(advisors)
	app := newTestApp()
	app.Post("/market/demand", h.HandleRoleDemand)
	app.Post("/market/trending", h.HandleTrendingSkills)
	app.Post("/market/compare", h.HandleCompareRoles)
	app.Post("/skills/assess", h.HandleAssessSkills)
	app.Post("/learning-plan", h.HandleLearningPlan)
	app.Post("/strategy/application", h.HandleApplicationStrategy)
	app.Post("/strategy/resume-section", h.HandleOptimizeResume)
	app.Post("/strategy/interview", h.HandleInterviewQuestions)
	return app, gw, advisor
}

func TestAgentHandler_Endpoints(t *testing.T) {
	app, gw, advisor := newAgentApp(t)

	tests := []struct {
		path  string
		body  map[string]interface{}
		agent string
	}{
		{"/market/demand", map[string]interface{}{"role": "Data Analyst"}, advisor.MarketResearcher().Name},
		{"/market/trending", map[string]interface{}{"role": "Data Analyst"}, advisor.MarketResearcher().Name},
		{"/market/compare", map[string]interface{}{"roles": []string{"Data Analyst", "Data Scientist"}}, advisor.MarketResearcher().Name},
		{"/skills/assess", map[string]interface{}{"target_role": "Data Analyst", "current_skills": []string{"SQL"}}, advisor.SkillsCoach().Name},
		{"/skills/assess", map[string]interface{}{"current_skills": []string{"SQL"}, "required_skills": []string{"SQL", "Python"}}, advisor.SkillsCoach().Name},
		{"/learning-plan", map[string]interface{}{"skill_gaps": []string{"Python"}, "timeframe_weeks": 8}, advisor.SkillsCoach().Name},
		{"/strategy/application", map[string]interface{}{"job_description": "Analyst role", "match_percentage": 60}, advisor.ApplicationStrategist().Name},
		{"/strategy/resume-section", map[string]interface{}{"section_text": "Built dashboards"}, advisor.ApplicationStrategist().Name},
		{"/strategy/interview", map[string]interface{}{"job_title": "Data Analyst", "company": "Acme"}, advisor.ApplicationStrategist().Name},
	}

	for i, tt := range tests {
		status, body := doJSON(t, app, http.MethodPost, tt.path, tt.body)
		require.Equal(t, fiber.StatusOK, status, tt.path)
		assert.Equal(t, tt.agent, body["agent"], tt.path)
		assert.NotEmpty(t, body["result"], tt.path)
		assert.Equal(t, i+1, gw.count(), tt.path)
	}
}

func TestAgentHandler_LearningPlanWithoutGaps(t *testing.T) {
	app, gw, _ := newAgentApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/learning-plan", map[string]interface{}{})
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["result"])
	assert.Zero(t, gw.count())
}

func TestAgentHandler_Validation(t *testing.T) {
	app, gw, _ := newAgentApp(t)

	tests := []struct {
		path string
		body map[string]interface{}
	}{
		{"/market/demand", map[string]interface{}{}},
		{"/market/compare", map[string]interface{}{"roles": []string{"Only One"}}},
		{"/skills/assess", map[string]interface{}{"current_skills": []string{"SQL"}}},
		{"/strategy/application", map[string]interface{}{"job_description": "x", "match_percentage": 140}},
		{"/strategy/interview", map[string]interface{}{"company": "Acme"}},
	}
	for _, tt := range tests {
		status, _ := doJSON(t, app, http.MethodPost, tt.path, tt.body)
		assert.Equal(t, fiber.StatusBadRequest, status, tt.path)
	}
	assert.Zero(t, gw.count())
}

func TestAgentHandler_UpstreamRateLimited(t *testing.T) {
	app, gw, _ := newAgentApp(t)
	gw.err = apperrors.New(apperrors.CodeUpstreamRateLimited, "stub request failed")

	status, body := doJSON(t, app, http.MethodPost, "/market/trending", map[string]interface{}{"role": "Data Analyst"})
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, "UPSTREAM_RATE_LIMITED", body["code"])
}
