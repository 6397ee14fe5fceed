package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"careerpath/career-advisor/internal/apperrors"
	"careerpath/career-advisor/internal/logger"
)

// Point kinds kept in the career memory collection.
const (
	KindSkill         = "skill"
	KindJobAnalysis   = "job_analysis"
	KindProgress      = "progress"
	KindRoleKnowledge = "role_knowledge"
)

const (
	DefaultSimilarLimit   = 5
	DefaultMinRelevance   = 0.7
	CoverageMinRelevance  = 0.75
	defaultKnowledgeLimit = 5
	knowledgeChunkSize    = 1000
	knowledgeChunkOverlap = 200
)

type SkillRecord struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
	Evidence    string `json:"evidence"`
	Category    string `json:"category"`
}

type JobRecord struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	RequiredSkills []string `json:"required_skills"`
	MatchPercent   float64  `json:"match_percentage"`
}

type MemoryMatch struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Relevance float32 `json:"relevance"`
}

// SkillCoverage is the memory-backed counterpart of the readiness score.
type SkillCoverage struct {
	Percentage int      `json:"percentage"`
	Matched    []string `json:"matched"`
	Missing    []string `json:"missing"`
}

// CareerMemory remembers a user's skills, analysed jobs and learning progress, and holds
// shared role knowledge.
type CareerMemory interface {
	StoreSkill(ctx context.Context, userID string, skill SkillRecord) error
	FindSimilarSkills(ctx context.Context, userID, query string, limit int, minRelevance float32) ([]MemoryMatch, error)
	StoreJobAnalysis(ctx context.Context, userID string, job JobRecord) error
	FindSimilarJobs(ctx context.Context, userID, query string, limit int) ([]MemoryMatch, error)
	StoreLearningProgress(ctx context.Context, userID, skill string, progress int, notes string) error
	SkillCoverage(ctx context.Context, userID string, required []string) (*SkillCoverage, error)
	IngestRoleKnowledge(ctx context.Context, docID, text string) (int, error)
	FindRoleKnowledge(ctx context.Context, query string, limit int) ([]MemoryMatch, error)
}

type careerMemory struct {
	store    VectorStore
	embedder Embedder
	chunker  TextChunker
	now      func() time.Time
}

func NewCareerMemory(store VectorStore, embedder Embedder, chunker TextChunker) CareerMemory {
	return &careerMemory{
		store:    store,
		embedder: embedder,
		chunker:  chunker,
		now:      time.Now,
	}
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

func (m *careerMemory) save(ctx context.Context, p MemoryPoint) error {
	embedding, err := m.embedder.GenerateEmbedding(ctx, p.Text)
	if err != nil {
		return fmt.Errorf("failed to generate embedding: %w", err)
	}
	p.Embedding = embedding

	if err := m.store.Upsert(ctx, p); err != nil {
		return err
	}
	return nil
}

func (m *careerMemory) search(ctx context.Context, query string, filter SearchFilter, limit int, minRelevance float32) ([]MemoryMatch, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	embedding, err := m.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	results, err := m.store.Search(ctx, embedding, filter, limit, minRelevance)
	if err != nil {
		return nil, err
	}

	matches := make([]MemoryMatch, 0, len(results))
	for _, r := range results {
		if r.Score < minRelevance {
			continue
		}
		matches = append(matches, MemoryMatch{ID: r.ID, Text: r.Text, Relevance: r.Score})
	}
	return matches, nil
}

// StoreSkill implements CareerMemory. Storing a skill again replaces it.
func (m *careerMemory) StoreSkill(ctx context.Context, userID string, skill SkillRecord) error {
	if strings.TrimSpace(skill.Name) == "" {
		return apperrors.New(apperrors.CodeValidationFailed, "skill name is required")
	}
	if skill.Category == "" {
		skill.Category = "technical"
	}

	text := fmt.Sprintf("Skill: %s\nProficiency: %s\nCategory: %s\nEvidence: %s",
		skill.Name, skill.Proficiency, skill.Category, skill.Evidence)

	if err := m.save(ctx, MemoryPoint{
		DocID:  "skill_" + slug(skill.Name),
		UserID: userID,
		Kind:   KindSkill,
		Text:   text,
		Metadata: map[string]interface{}{
			"skill":       skill.Name,
			"proficiency": skill.Proficiency,
		},
	}); err != nil {
		return err
	}

	logger.Info().Str("user_id", userID).Str("skill", skill.Name).Msg("✅ Stored skill")
	return nil
}

// FindSimilarSkills implements CareerMemory.
func (m *careerMemory) FindSimilarSkills(ctx context.Context, userID, query string, limit int, minRelevance float32) ([]MemoryMatch, error) {
	return m.search(ctx, query, SearchFilter{Kind: KindSkill, UserID: userID}, limit, minRelevance)
}

// StoreJobAnalysis implements CareerMemory.
func (m *careerMemory) StoreJobAnalysis(ctx context.Context, userID string, job JobRecord) error {
	if strings.TrimSpace(job.Title) == "" {
		return apperrors.New(apperrors.CodeValidationFailed, "job title is required")
	}

	text := fmt.Sprintf("Job: %s\nCompany: %s\nMatch: %g%%\nRequired Skills: %s",
		job.Title, job.Company, job.MatchPercent, strings.Join(job.RequiredSkills, ", "))

	if err := m.save(ctx, MemoryPoint{
		DocID:  fmt.Sprintf("job_%s_%s", slug(job.Company), slug(job.Title)),
		UserID: userID,
		Kind:   KindJobAnalysis,
		Text:   text,
		Metadata: map[string]interface{}{
			"company": job.Company,
			"title":   job.Title,
			"match":   job.MatchPercent,
		},
	}); err != nil {
		return err
	}

	logger.Info().Str("user_id", userID).Str("job", job.Title).Str("company", job.Company).Msg("💼 Stored job analysis")
	return nil
}

// FindSimilarJobs implements CareerMemory.
func (m *careerMemory) FindSimilarJobs(ctx context.Context, userID, query string, limit int) ([]MemoryMatch, error) {
	return m.search(ctx, query, SearchFilter{Kind: KindJobAnalysis, UserID: userID}, limit, 0)
}

// StoreLearningProgress implements CareerMemory. progress is clamped to 0-100.
func (m *careerMemory) StoreLearningProgress(ctx context.Context, userID, skill string, progress int, notes string) error {
	if strings.TrimSpace(skill) == "" {
		return apperrors.New(apperrors.CodeValidationFailed, "skill is required")
	}
	progress = max(0, min(100, progress))

	text := fmt.Sprintf("Learning: %s\nProgress: %d%%\nNotes: %s\nUpdated: %s",
		skill, progress, notes, m.now().UTC().Format(time.RFC3339))

	if err := m.save(ctx, MemoryPoint{
		DocID:  "progress_" + slug(skill),
		UserID: userID,
		Kind:   KindProgress,
		Text:   text,
		Metadata: map[string]interface{}{
			"skill":    skill,
			"progress": progress,
		},
	}); err != nil {
		return err
	}

	logger.Info().Str("user_id", userID).Str("skill", skill).Int("progress", progress).Msg("📈 Updated progress")
	return nil
}

// SkillCoverage implements CareerMemory. A required skill is covered when the user's best
// stored skill match reaches CoverageMinRelevance. The percentage is floored.
func (m *careerMemory) SkillCoverage(ctx context.Context, userID string, required []string) (*SkillCoverage, error) {
	coverage := &SkillCoverage{Matched: []string{}, Missing: []string{}}

	for _, skill := range required {
		similar, err := m.FindSimilarSkills(ctx, userID, skill, 1, CoverageMinRelevance)
		if err != nil {
			return nil, err
		}
		if len(similar) > 0 {
			coverage.Matched = append(coverage.Matched, skill)
		} else {
			coverage.Missing = append(coverage.Missing, skill)
		}
	}

	if len(required) > 0 {
		coverage.Percentage = len(coverage.Matched) * 100 / len(required)
	}
	return coverage, nil
}

// IngestRoleKnowledge replaces the shared document docID with the chunks of text.
func (m *careerMemory) IngestRoleKnowledge(ctx context.Context, docID, text string) (int, error) {
	if err := m.store.DeleteDocument(ctx, docID); err != nil {
		return 0, err
	}

	chunks := m.chunker.ChunkText(text, knowledgeChunkSize, knowledgeChunkOverlap)
	for i, chunk := range chunks {
		if err := m.save(ctx, MemoryPoint{
			DocID:    docID,
			Chunk:    i,
			Kind:     KindRoleKnowledge,
			Text:     chunk,
			Metadata: map[string]interface{}{"chunk": i},
		}); err != nil {
			return i, fmt.Errorf("failed to store chunk %d: %w", i, err)
		}
	}

	return len(chunks), nil
}

// FindRoleKnowledge implements CareerMemory.
func (m *careerMemory) FindRoleKnowledge(ctx context.Context, query string, limit int) ([]MemoryMatch, error) {
	if limit <= 0 {
		limit = defaultKnowledgeLimit
	}
	return m.search(ctx, query, SearchFilter{Kind: KindRoleKnowledge}, limit, 0)
}
