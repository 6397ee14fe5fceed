package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"careerpath/career-advisor/internal/config"
	"careerpath/career-advisor/internal/services"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

// stubGateway answers with reply, or "answer N" when reply is empty, unless err is set.
type stubGateway struct {
	mu    sync.Mutex
	calls int
	reply string
	err   error
}

func (g *stubGateway) Complete(context.Context, services.CompletionRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	if g.reply != "" {
		return g.reply, nil
	}
	return fmt.Sprintf("answer %d", g.calls), nil
}

func (g *stubGateway) Provider() string { return "stub" }

func (g *stubGateway) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// inlineWorker runs jobs synchronously so tests can assert on their effects.
type inlineWorker struct {
	mu   sync.Mutex
	jobs []string
	errs []error
}

func (w *inlineWorker) Start(context.Context) {}
func (w *inlineWorker) Stop()                 {}

func (w *inlineWorker) Enqueue(job services.Job) bool {
	err := job.Run(context.Background())
	w.mu.Lock()
	defer w.mu.Unlock()
	w.jobs = append(w.jobs, job.Name)
	w.errs = append(w.errs, err)
	return true
}

func (w *inlineWorker) names() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.jobs...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []services.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e services.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
}

// doJSON sends body as JSON and decodes the JSON response into a map.
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]interface{}) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}
