package handlers

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"careerpath/career-advisor/internal/logger"
	"careerpath/career-advisor/internal/models"
	"careerpath/career-advisor/internal/repositories"
	"careerpath/career-advisor/internal/services"
)

// greetingInputs get a canned introduction instead of a model-backed analysis.
var greetingInputs = map[string]bool{
	"hello":   true,
	"hi":      true,
	"hey":     true,
	"test":    true,
	"testing": true,
}

type AnalyzeHandler struct {
	analyzer    services.CareerAnalyzer
	prompts     *services.PromptLibrary
	historyRepo repositories.HistoryRepository
	trackerRepo repositories.TrackerRepository
	publisher   services.EventPublisher
	worker      services.Worker
}

func NewAnalyzeHandler(
	analyzer services.CareerAnalyzer,
	prompts *services.PromptLibrary,
	historyRepo repositories.HistoryRepository,
	trackerRepo repositories.TrackerRepository,
	publisher services.EventPublisher,
	worker services.Worker,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:    analyzer,
		prompts:     prompts,
		historyRepo: historyRepo,
		trackerRepo: trackerRepo,
		publisher:   publisher,
		worker:      worker,
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	role := strings.TrimSpace(req.TargetRole)
	if role == "" {
		return badRequest(c, "Please enter a message or career goal")
	}

	if greetingInputs[strings.ToLower(role)] {
		sections, err := h.greeting()
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(models.AnalyzeResponse{AnalysisSections: sections})
	}

	timeframe := services.Timeframe{Months: req.TimeframeMonths, Display: req.TimeframeDisplay}
	report, err := h.analyzer.ComprehensiveAnalysis(c.UserContext(), services.AnalysisRequest{
		UserID:        req.UserID,
		TargetRole:    role,
		CurrentSkills: req.CurrentSkills,
		Timeframe:     timeframe,
		ResumeText:    req.ResumeText,
	})
	if err != nil {
		return respondError(c, err)
	}

	sections := models.AnalysisSections{
		FinalRecommendations: report.FinalRecommendations,
		MarketResearch:       report.MarketResearch,
		LearningPlan:         report.LearningPlan,
		ApplicationStrategy:  report.ApplicationStrategy,
	}

	resp := models.AnalyzeResponse{
		AnalysisSections: sections,
		Branch:           string(report.Branch),
		Steps:            make([]string, 0, len(report.Steps)),
	}
	for _, step := range report.Steps {
		resp.Steps = append(resp.Steps, string(step))
	}
	if report.Readiness != nil {
		score := report.Readiness.Score
		resp.Readiness = &score
	}

	h.recordAnalysis(req, role, timeframe, sections, resp.Branch)

	return c.JSON(resp)
}

func (h *AnalyzeHandler) greeting() (models.AnalysisSections, error) {
	var sections models.AnalysisSections
	for _, part := range []struct {
		tpl string
		dst *string
	}{
		{services.TplGreetingFinal, &sections.FinalRecommendations},
		{services.TplGreetingMarket, &sections.MarketResearch},
		{services.TplGreetingLearning, &sections.LearningPlan},
		{services.TplGreetingStrategy, &sections.ApplicationStrategy},
	} {
		text, err := h.prompts.Render(part.tpl, nil)
		if err != nil {
			return sections, err
		}
		*part.dst = text
	}
	return sections, nil
}

// recordAnalysis queues the history save, search log and completion event. None of them can
// change the response.
func (h *AnalyzeHandler) recordAnalysis(req models.AnalyzeRequest, role string, timeframe services.Timeframe, sections models.AnalysisSections, branch string) {
	var timeframeText string
	if timeframe.Months > 0 || strings.TrimSpace(timeframe.Display) != "" {
		timeframeText = timeframe.String()
	}

	history := models.NewAnalysisHistory(req.UserID, role, sections)
	h.worker.Enqueue(services.Job{
		Name: "save_history",
		Run: func(context.Context) error {
			return h.historyRepo.Create(history)
		},
	})

	skills, err := json.Marshal(nonNil(req.CurrentSkills))
	if err != nil {
		logger.Warn().Err(err).Msg("⚠️ Failed to encode skills for search log")
		skills = []byte("[]")
	}
	search := &models.SearchLog{
		UserID:         req.UserID,
		UserEmail:      req.UserEmail,
		TargetRole:     role,
		CurrentSkills:  skills,
		Timeframe:      timeframeText,
		ResumeUploaded: strings.TrimSpace(req.ResumeText) != "",
		SearchedAt:     time.Now().UTC(),
	}
	h.worker.Enqueue(services.Job{
		Name: "log_search",
		Run: func(context.Context) error {
			return h.trackerRepo.LogSearch(search)
		},
	})

	event := services.Event{
		Type:       services.EventAnalysisCompleted,
		UserID:     req.UserID,
		OccurredAt: time.Now().UTC(),
		Data: map[string]interface{}{
			"analysis_id": history.ID.String(),
			"target_role": role,
			"branch":      branch,
		},
	}
	publishLater(h.worker, h.publisher, event)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
