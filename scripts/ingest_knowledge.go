package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"careerpath/career-advisor/internal/catalog"
	"careerpath/career-advisor/internal/config"
	"careerpath/career-advisor/internal/logger"
	"careerpath/career-advisor/internal/services"
)

func main() {
	dir := pflag.StringP("dir", "d", "./reference_docs", "directory of reference documents (.pdf, .docx, .txt, .md)")
	skipCatalog := pflag.Bool("skip-catalog", false, "do not ingest the built-in role skill catalog")
	dryRun := pflag.Bool("dry-run", false, "extract and chunk documents without storing them")
	pflag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Log)
	logger.Info().Msg("🚀 Starting knowledge ingestion...")

	documents := collectDocuments(*dir, !*skipCatalog)
	if len(documents) == 0 {
		logger.Warn().Str("dir", *dir).Msg("⚠️ Nothing to ingest")
		return
	}

	if *dryRun {
		chunker := services.NewTextChunker()
		for _, doc := range documents {
			chunks := chunker.ChunkText(doc.text, 1000, 200)
			logger.Info().Str("doc", doc.id).Int("chars", len(doc.text)).Int("chunks", len(chunks)).Msg("📄 Dry run")
		}
		return
	}

	ctx := context.Background()

	store, err := services.NewQdrantService(cfg.Qdrant)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to initialize Qdrant")
	}
	if err := store.InitCollection(ctx); err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to initialize collection")
	}

	embedder, err := services.NewGeminiService(ctx, cfg.Gemini, cfg.LLM.Temperature)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to initialize Gemini")
	}

	memory := services.NewCareerMemory(store, embedder, services.NewTextChunker())

	successCount, failCount := 0, 0
	for _, doc := range documents {
		chunks, err := memory.IngestRoleKnowledge(ctx, doc.id, doc.text)
		if err != nil {
			logger.Error().Err(err).Str("doc", doc.id).Int("stored", chunks).Msg("❌ Failed to ingest document")
			failCount++
			continue
		}
		logger.Info().Str("doc", doc.id).Int("chunks", chunks).Msg("✅ Ingested document")
		successCount++
	}

	logger.Info().Int("successful", successCount).Int("failed", failCount).Msg("📊 Ingestion summary")
	if failCount > 0 {
		os.Exit(1)
	}
}

type document struct {
	id   string
	text string
}

// collectDocuments returns the catalog entries followed by the readable files under dir.
// A missing dir is not an error.
func collectDocuments(dir string, withCatalog bool) []document {
	var docs []document

	if withCatalog {
		entries := catalog.Entries()
		keys := make([]string, 0, len(entries))
		for key := range entries {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			docs = append(docs, document{
				id:   "catalog_" + strings.ReplaceAll(key, " ", "_"),
				text: fmt.Sprintf("Role: %s\nRequired skills: %s", key, strings.Join(entries[key], ", ")),
			})
		}
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("dir", dir).Msg("⚠️ Cannot read reference directory")
		}
		return docs
	}

	parser := services.NewResumeParser()
	for _, f := range files {
		if f.IsDir() {
			continue
		}

		path := filepath.Join(dir, f.Name())
		text, err := extractText(parser, path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("⚠️ Skipping document")
			continue
		}

		id := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
		docs = append(docs, document{id: "doc_" + id, text: text})
	}

	return docs
}

func extractText(parser services.ResumeParser, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, pages, err := parser.ExtractPDF(data)
		if err != nil {
			return "", err
		}
		logger.Info().Str("path", path).Int("pages", pages).Msg("📖 Extracted PDF")
		return services.CleanText(text), nil
	case ".docx", ".txt", ".md":
		parsed, err := parser.Parse(filepath.Base(path), data)
		if err != nil {
			return "", err
		}
		if parsed.Text == services.DOCXPlaceholder {
			return "", fmt.Errorf("no text content found in %s", path)
		}
		return services.CleanText(parsed.Text), nil
	default:
		return "", fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}
