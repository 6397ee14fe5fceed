package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"careerpath/career-advisor/internal/catalog"
	"careerpath/career-advisor/internal/models"
	"careerpath/career-advisor/internal/services"
)

const maxMemoryResults = 50

// MemoryHandler exposes the vector-backed career memory. It is only routed when Qdrant is configured.
type MemoryHandler struct {
	memory services.CareerMemory
}

func NewMemoryHandler(memory services.CareerMemory) *MemoryHandler {
	return &MemoryHandler{
		memory: memory,
	}
}

// HandleStoreSkills handles POST /memory/skills
func (h *MemoryHandler) HandleStoreSkills(c *fiber.Ctx) error {
	var req models.StoreSkillsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if strings.TrimSpace(req.UserID) == "" {
		return badRequest(c, "user_id is required")
	}
	if len(req.Skills) == 0 {
		return badRequest(c, "skills are required")
	}

	level := req.Level
	if level == "" {
		level = "intermediate"
	}

	stored := 0
	for _, skill := range req.Skills {
		if strings.TrimSpace(skill) == "" {
			continue
		}
		if err := h.memory.StoreSkill(c.UserContext(), req.UserID, services.SkillRecord{
			Name:        strings.TrimSpace(skill),
			Proficiency: level,
		}); err != nil {
			return respondError(c, err)
		}
		stored++
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"stored":  stored,
	})
}

// HandleSimilarSkills handles GET /memory/skills/similar?user_id=&query=
func (h *MemoryHandler) HandleSimilarSkills(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Query("user_id"))
	query := strings.TrimSpace(c.Query("query"))
	if userID == "" || query == "" {
		return badRequest(c, "user_id and query are required")
	}

	minRelevance := float32(services.DefaultMinRelevance)
	if raw := c.Query("min_relevance"); raw != "" {
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil || v < 0 || v > 1 {
			return badRequest(c, "min_relevance must be between 0 and 1")
		}
		minRelevance = float32(v)
	}

	limit := queryLimit(c, "limit", services.DefaultSimilarLimit, maxMemoryResults)
	matches, err := h.memory.FindSimilarSkills(c.UserContext(), userID, query, limit, minRelevance)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"matches": matches})
}

// HandleCoverage handles GET /memory/:user_id/coverage. Required skills come from ?skills=a,b
// or, failing that, from the catalog entry of ?role=.
func (h *MemoryHandler) HandleCoverage(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Params("user_id"))
	if userID == "" {
		return badRequest(c, "user_id is required")
	}

	var required []string
	for _, s := range strings.Split(c.Query("skills"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			required = append(required, s)
		}
	}
	role := strings.TrimSpace(c.Query("role"))
	if len(required) == 0 {
		if role == "" {
			return badRequest(c, "skills or role is required")
		}
		required = catalog.RequiredSkills(role)
	}

	coverage, err := h.memory.SkillCoverage(c.UserContext(), userID, required)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"user_id":  userID,
		"role":     role,
		"required": required,
		"coverage": coverage,
	})
}

// HandleProgress handles POST /memory/progress
func (h *MemoryHandler) HandleProgress(c *fiber.Ctx) error {
	var req models.ProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if strings.TrimSpace(req.UserID) == "" {
		return badRequest(c, "user_id is required")
	}

	if err := h.memory.StoreLearningProgress(c.UserContext(), req.UserID, req.Skill, req.Progress, req.Note); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleStoreJob handles POST /memory/jobs
func (h *MemoryHandler) HandleStoreJob(c *fiber.Ctx) error {
	var req models.JobMemoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if strings.TrimSpace(req.UserID) == "" {
		return badRequest(c, "user_id is required")
	}

	if err := h.memory.StoreJobAnalysis(c.UserContext(), req.UserID, services.JobRecord{
		Title:          req.Title,
		Company:        req.Company,
		RequiredSkills: req.RequiredSkills,
		MatchPercent:   req.MatchPercentage,
	}); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true})
}

// HandleSimilarJobs handles GET /memory/jobs/similar?user_id=&query=
func (h *MemoryHandler) HandleSimilarJobs(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Query("user_id"))
	query := strings.TrimSpace(c.Query("query"))
	if userID == "" || query == "" {
		return badRequest(c, "user_id and query are required")
	}

	limit := queryLimit(c, "limit", services.DefaultSimilarLimit, maxMemoryResults)
	matches, err := h.memory.FindSimilarJobs(c.UserContext(), userID, query, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"matches": matches})
}

// HandleKnowledge handles GET /memory/knowledge?query=
func (h *MemoryHandler) HandleKnowledge(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		return badRequest(c, "query is required")
	}

	limit := queryLimit(c, "limit", services.DefaultSimilarLimit, maxMemoryResults)
	matches, err := h.memory.FindRoleKnowledge(c.UserContext(), query, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"matches": matches})
}
