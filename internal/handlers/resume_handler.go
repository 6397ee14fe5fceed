package handlers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"careerpath/career-advisor/internal/logger"
	"careerpath/career-advisor/internal/models"
	"careerpath/career-advisor/internal/services"
)

type ResumeHandler struct {
	parser      services.ResumeParser
	store       services.ResumeStore
	analyzer    services.CareerAnalyzer
	jobAnalyzer services.JobAnalyzer
	maxFileSize int64
}

func NewResumeHandler(
	parser services.ResumeParser,
	store services.ResumeStore,
	analyzer services.CareerAnalyzer,
	jobAnalyzer services.JobAnalyzer,
	maxFileSize int64,
) *ResumeHandler {
	return &ResumeHandler{
		parser:      parser,
		store:       store,
		analyzer:    analyzer,
		jobAnalyzer: jobAnalyzer,
		maxFileSize: maxFileSize,
	}
}

// HandleParseResume handles POST /parse-resume. Archiving the upload is best-effort.
func (h *ResumeHandler) HandleParseResume(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "A resume file is required in the 'file' field")
	}

	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		return badRequest(c, fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "Failed to read uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return badRequest(c, "Failed to read uploaded file")
	}

	parsed, err := h.parser.Parse(fileHeader.Filename, data)
	if err != nil {
		return respondError(c, err)
	}

	resp := models.ParseResumeResponse{
		Text:            parsed.Text,
		Filename:        fileHeader.Filename,
		ExtractedSkills: nonNil(parsed.Skills),
		Format:          parsed.Format,
	}

	if h.store != nil {
		key, err := h.store.Save(c.UserContext(), fileHeader.Filename, data)
		if err != nil {
			logger.Warn().Err(err).Str("backend", h.store.Backend()).Msg("⚠️ Failed to archive resume")
		} else {
			resp.StorageKey = key
		}
	}

	logger.Info().
		Str("filename", fileHeader.Filename).
		Str("format", parsed.Format).
		Int("skills", len(parsed.Skills)).
		Msg("📄 Resume parsed")

	return c.JSON(resp)
}

// HandleAnalyzeResume handles POST /resume/analyze
func (h *ResumeHandler) HandleAnalyzeResume(c *fiber.Ctx) error {
	var req models.ResumeAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	if strings.TrimSpace(req.ResumeText) == "" {
		return badRequest(c, "resume_text is required")
	}
	if strings.TrimSpace(req.TargetRole) == "" {
		return badRequest(c, "target_role is required")
	}

	analysis, err := h.analyzer.AnalyzeResumeDeeply(c.UserContext(), req.ResumeText, strings.TrimSpace(req.TargetRole))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"target_role": strings.TrimSpace(req.TargetRole),
		"analysis":    analysis,
	})
}

// HandleExtractSkills handles POST /skills/extract. A reply the model did not format as the
// expected JSON is still a 200 with status "unparsed".
func (h *ResumeHandler) HandleExtractSkills(c *fiber.Ctx) error {
	var req models.ExtractSkillsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return badRequest(c, "job_description is required")
	}

	return h.structured(c, func(ctx context.Context) (*services.StructuredResult, error) {
		return h.jobAnalyzer.ExtractSkills(ctx, req.JobDescription)
	})
}

// HandleCompareSkills handles POST /skills/compare
func (h *ResumeHandler) HandleCompareSkills(c *fiber.Ctx) error {
	var req models.CompareSkillsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if strings.TrimSpace(req.JobSkills) == "" {
		return badRequest(c, "job_skills is required")
	}

	return h.structured(c, func(ctx context.Context) (*services.StructuredResult, error) {
		return h.jobAnalyzer.CompareToProfile(ctx, req.JobSkills, nonNil(req.CandidateSkills))
	})
}

func (h *ResumeHandler) structured(c *fiber.Ctx, call func(ctx context.Context) (*services.StructuredResult, error)) error {
	result, err := call(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
