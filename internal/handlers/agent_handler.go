package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"careerpath/career-advisor/internal/catalog"
	"careerpath/career-advisor/internal/models"
	"careerpath/career-advisor/internal/services"
)

const maxComparedRoles = 5

// AgentHandler gives direct access to the specialist agents outside the full analysis.
// Every request gets its own agent set.
type AgentHandler struct {
	advisors *services.AdvisorFactory
}

func NewAgentHandler(advisors *services.AdvisorFactory) *AgentHandler {
	return &AgentHandler{advisors: advisors}
}

func agentResult(c *fiber.Ctx, agent *services.Agent, text string, err error) error {
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.AgentResponse{Agent: agent.Name, Result: text})
}

// HandleRoleDemand handles POST /market/demand
func (h *AgentHandler) HandleRoleDemand(c *fiber.Ctx) error {
	var req models.MarketRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if strings.TrimSpace(req.Role) == "" {
		return badRequest(c, "role is required")
	}

	advisor, err := h.advisors.New()
	if err != nil {
		return respondError(c, err)
	}
	market := advisor.MarketResearcher()

	text, err := market.AnalyzeRoleDemand(c.UserContext(), strings.TrimSpace(req.Role), req.Location)
	return agentResult(c, market.Agent, text, err)
}

// HandleTrendingSkills handles POST /market/trending
func (h *AgentHandler) HandleTrendingSkills(c *fiber.Ctx) error {
	var req models.MarketRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if strings.TrimSpace(req.Role) == "" {
		return badRequest(c, "role is required")
	}

	advisor, err := h.advisors.New()
	if err != nil {
		return respondError(c, err)
	}
	market := advisor.MarketResearcher()

	text, err := market.IdentifyTrendingSkills(c.UserContext(), strings.TrimSpace(req.Role))
	return agentResult(c, market.Agent, text, err)
}

// HandleCompareRoles handles POST /market/compare
func (h *AgentHandler) HandleCompareRoles(c *fiber.Ctx) error {
	var req models.MarketRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	var roles []string
	for _, r := range req.Roles {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	if len(roles) < 2 || len(roles) > maxComparedRoles {
		return badRequest(c, "Provide between 2 and 5 roles to compare")
	}

	advisor, err := h.advisors.New()
	if err != nil {
		return respondError(c, err)
	}
	market := advisor.MarketResearcher()

	text, err := market.CompareRoleOpportunities(c.UserContext(), roles)
	return agentResult(c, market.Agent, text, err)
}

// HandleAssessSkills handles POST /skills/assess. Without explicit required skills the role's
// catalog entry is used.
func (h *AgentHandler) HandleAssessSkills(c *fiber.Ctx) error {
	var req models.SkillAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	role := strings.TrimSpace(req.TargetRole)
	required := req.RequiredSkills
	if len(required) == 0 {
		if role == "" {
			return badRequest(c, "target_role or required_skills is required")
		}
		required = catalog.RequiredSkills(role)
	}

	advisor, err := h.advisors.New()
	if err != nil {
		return respondError(c, err)
	}
	coach := advisor.SkillsCoach()

	var text string
	if role == "" {
		text, err = coach.AssessSkillLevel(c.UserContext(), req.CurrentSkills, required)
	} else {
		text, err = coach.HonestAssessment(c.UserContext(), services.NewSkillGap(role, req.CurrentSkills, required))
	}
	return agentResult(c, coach.Agent, text, err)
}

// HandleLearningPlan handles POST /learning-plan
func (h *AgentHandler) HandleLearningPlan(c *fiber.Ctx) error {
	var req models.LearningPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	advisor, err := h.advisors.New()
	if err != nil {
		return respondError(c, err)
	}
	coach := advisor.SkillsCoach()

	text, err := coach.CreateLearningPlan(c.UserContext(), req.SkillGaps, req.TimeframeWeeks, req.Level)
	return agentResult(c, coach.Agent, text, err)
}

// HandleApplicationStrategy handles POST /strategy/application
func (h *AgentHandler) HandleApplicationStrategy(c *fiber.Ctx) error {
	var req models.ApplicationStrategyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return badRequest(c, "job_description is required")
	}
	if req.MatchPercentage < 0 || req.MatchPercentage > 100 {
		return badRequest(c, "match_percentage must be between 0 and 100")
	}

	advisor, err := h.advisors.New()
	if err != nil {
		return respondError(c, err)
	}
	strategist := advisor.ApplicationStrategist()

	text, err := strategist.CreateApplicationStrategy(c.UserContext(), req.JobDescription, req.Background, req.MatchPercentage)
	return agentResult(c, strategist.Agent, text, err)
}

// HandleOptimizeResume handles POST /strategy/resume-section
func (h *AgentHandler) HandleOptimizeResume(c *fiber.Ctx) error {
	var req models.ResumeSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if strings.TrimSpace(req.SectionText) == "" {
		return badRequest(c, "section_text is required")
	}

	advisor, err := h.advisors.New()
	if err != nil {
		return respondError(c, err)
	}
	strategist := advisor.ApplicationStrategist()

	text, err := strategist.OptimizeResumeSection(c.UserContext(), req.SectionText, req.JobRequirements)
	return agentResult(c, strategist.Agent, text, err)
}

// HandleInterviewQuestions handles POST /strategy/interview
func (h *AgentHandler) HandleInterviewQuestions(c *fiber.Ctx) error {
	var req models.InterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if strings.TrimSpace(req.JobTitle) == "" {
		return badRequest(c, "job_title is required")
	}

	advisor, err := h.advisors.New()
	if err != nil {
		return respondError(c, err)
	}
	strategist := advisor.ApplicationStrategist()

	text, err := strategist.PrepareInterviewQuestions(c.UserContext(), req.JobTitle, req.Company, req.JobDescription)
	return agentResult(c, strategist.Agent, text, err)
}
