package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpath/career-advisor/internal/catalog"
	"careerpath/career-advisor/internal/services"
)

// fakeMemory keeps skills per user and treats exact, case-insensitive names as matches.
type fakeMemory struct {
	skills   map[string][]services.SkillRecord
	jobs     map[string][]services.JobRecord
	progress map[string]int
	failWith error
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{
		skills:   map[string][]services.SkillRecord{},
		jobs:     map[string][]services.JobRecord{},
		progress: map[string]int{},
	}
}

func (m *fakeMemory) StoreSkill(_ context.Context, userID string, skill services.SkillRecord) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.skills[userID] = append(m.skills[userID], skill)
	return nil
}

func (m *fakeMemory) FindSimilarSkills(_ context.Context, userID, query string, _ int, _ float32) ([]services.MemoryMatch, error) {
	var out []services.MemoryMatch
	for _, s := range m.skills[userID] {
		if strings.EqualFold(s.Name, query) {
			out = append(out, services.MemoryMatch{ID: s.Name, Text: s.Name, Relevance: 1})
		}
	}
	return out, nil
}

func (m *fakeMemory) StoreJobAnalysis(_ context.Context, userID string, job services.JobRecord) error {
	m.jobs[userID] = append(m.jobs[userID], job)
	return nil
}

func (m *fakeMemory) FindSimilarJobs(_ context.Context, userID, _ string, _ int) ([]services.MemoryMatch, error) {
	var out []services.MemoryMatch
	for _, j := range m.jobs[userID] {
		out = append(out, services.MemoryMatch{ID: j.Title, Text: j.Title, Relevance: 0.9})
	}
	return out, nil
}

func (m *fakeMemory) StoreLearningProgress(_ context.Context, userID, skill string, progress int, _ string) error {
	m.progress[userID+"/"+skill] = progress
	return nil
}

func (m *fakeMemory) SkillCoverage(ctx context.Context, userID string, required []string) (*services.SkillCoverage, error) {
	coverage := &services.SkillCoverage{Matched: []string{}, Missing: []string{}}
	for _, r := range required {
		found, _ := m.FindSimilarSkills(ctx, userID, r, 1, 0)
		if len(found) > 0 {
			coverage.Matched = append(coverage.Matched, r)
		} else {
			coverage.Missing = append(coverage.Missing, r)
		}
	}
	if len(required) > 0 {
		coverage.Percentage = len(coverage.Matched) * 100 / len(required)
	}
	return coverage, nil
}

func (m *fakeMemory) IngestRoleKnowledge(context.Context, string, string) (int, error) {
	return 0, nil
}

func (m *fakeMemory) FindRoleKnowledge(_ context.Context, query string, _ int) ([]services.MemoryMatch, error) {
	return []services.MemoryMatch{{ID: "doc", Text: "knowledge about " + query, Relevance: 0.8}}, nil
}

func newMemoryApp(memory services.CareerMemory) *fiber.App {
	h := NewMemoryHandler(memory)
	app := newTestApp()
	app.Post("/memory/skills", h.HandleStoreSkills)
	app.Get("/memory/skills/similar", h.HandleSimilarSkills)
	app.Post("/memory/progress", h.HandleProgress)
	app.Post("/memory/jobs", h.HandleStoreJob)
	app.Get("/memory/jobs/similar", h.HandleSimilarJobs)
	app.Get("/memory/knowledge", h.HandleKnowledge)
	app.Get("/memory/:user_id/coverage", h.HandleCoverage)
	return app
}

func TestMemoryHandler_SkillsAndCoverage(t *testing.T) {
	memory := newFakeMemory()
	app := newMemoryApp(memory)

	status, body := doJSON(t, app, http.MethodPost, "/memory/skills", map[string]interface{}{
		"user_id": "u1",
		"skills":  []string{"SQL", " ", "Excel"},
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.EqualValues(t, 2, body["stored"])
	assert.Equal(t, "intermediate", memory.skills["u1"][0].Proficiency)

	status, body = doJSON(t, app, http.MethodGet, "/memory/skills/similar?user_id=u1&query=sql", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["matches"], 1)

	status, body = doJSON(t, app, http.MethodGet, "/memory/u1/coverage?skills=SQL,Python", nil)
	require.Equal(t, fiber.StatusOK, status)
	coverage := body["coverage"].(map[string]interface{})
	assert.EqualValues(t, 50, coverage["percentage"])

	status, body = doJSON(t, app, http.MethodGet, "/memory/u1/coverage?role=Data%20Analyst", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["required"], len(catalog.RequiredSkills("Data Analyst")))
	coverage = body["coverage"].(map[string]interface{})
	assert.EqualValues(t, 2*100/len(catalog.RequiredSkills("Data Analyst")), coverage["percentage"])
}

func TestMemoryHandler_ProgressJobsKnowledge(t *testing.T) {
	memory := newFakeMemory()
	app := newMemoryApp(memory)

	status, _ := doJSON(t, app, http.MethodPost, "/memory/progress", map[string]interface{}{
		"user_id":  "u1",
		"skill":    "Python",
		"progress": 40,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 40, memory.progress["u1/Python"])

	status, _ = doJSON(t, app, http.MethodPost, "/memory/jobs", map[string]interface{}{
		"user_id":         "u1",
		"title":           "Data Analyst",
		"company":         "Acme",
		"required_skills": []string{"SQL"},
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, body := doJSON(t, app, http.MethodGet, "/memory/jobs/similar?user_id=u1&query=analyst", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["matches"], 1)

	status, body = doJSON(t, app, http.MethodGet, "/memory/knowledge?query=kubernetes", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["matches"], 1)
}

func TestMemoryHandler_Errors(t *testing.T) {
	memory := newFakeMemory()
	app := newMemoryApp(memory)

	status, _ := doJSON(t, app, http.MethodGet, "/memory/skills/similar?user_id=u1", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodGet, "/memory/skills/similar?user_id=u1&query=sql&min_relevance=2", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodGet, "/memory/u1/coverage", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	memory.failWith = errors.New("qdrant unavailable")
	status, body := doJSON(t, app, http.MethodPost, "/memory/skills", map[string]interface{}{
		"user_id": "u1",
		"skills":  []string{"SQL"},
	})
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Internal server error", body["error"])
}
