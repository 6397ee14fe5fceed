package handlers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpath/career-advisor/internal/models"
	"careerpath/career-advisor/internal/repositories"
	"careerpath/career-advisor/internal/services"
)

func newAnalyticsApp(t *testing.T) (*fiber.App, repositories.TrackerRepository, *recordingPublisher) {
	t.Helper()

	tracker := repositories.NewTrackerRepository(newTestDB(t))
	publisher := &recordingPublisher{}
	h := NewAnalyticsHandler(tracker, publisher, &inlineWorker{})

	app := newTestApp()
	app.Get("/analytics/searches", h.HandleSearches)
	app.Get("/analytics/popular-roles", h.HandlePopularRoles)
	app.Get("/analytics/summary", h.HandleSummary)
	app.Get("/user/:user_id/searches", h.HandleUserSearches)
	app.Post("/activity", h.HandleActivity)
	return app, tracker, publisher
}

func seedSearches(t *testing.T, tracker repositories.TrackerRepository) {
	t.Helper()
	for _, s := range []struct{ user, role string }{
		{"u1", "Data Analyst"},
		{"u2", "Data Analyst"},
		{"u1", "ML Engineer"},
		{"u3", "Data Analyst"},
	} {
		require.NoError(t, tracker.LogSearch(&models.SearchLog{
			UserID:        s.user,
			TargetRole:    s.role,
			CurrentSkills: []byte(`[]`),
		}))
	}
}

func TestAnalyticsHandler_Reads(t *testing.T) {
	app, tracker, _ := newAnalyticsApp(t)
	seedSearches(t, tracker)

	status, body := doJSON(t, app, http.MethodGet, "/analytics/searches?limit=2", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["searches"], 2)

	status, body = doJSON(t, app, http.MethodGet, "/analytics/popular-roles", nil)
	require.Equal(t, fiber.StatusOK, status)
	roles := body["popular_roles"].([]interface{})
	require.Len(t, roles, 2)
	top := roles[0].(map[string]interface{})
	assert.Equal(t, "Data Analyst", top["role"])
	assert.EqualValues(t, 3, top["count"])

	status, body = doJSON(t, app, http.MethodGet, "/analytics/summary", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 4, body["total_searches"])
	assert.EqualValues(t, 3, body["unique_users"])

	status, body = doJSON(t, app, http.MethodGet, "/user/u1/searches", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["searches"], 2)
}

func TestAnalyticsHandler_Activity(t *testing.T) {
	app, _, publisher := newAnalyticsApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/activity", models.ActivityRequest{
		UserID:       "u1",
		ActivityType: "page_view",
		Details:      map[string]interface{}{"page": "history"},
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, []string{services.EventActivityLogged}, publisher.types())

	status, _ = doJSON(t, app, http.MethodPost, "/activity", models.ActivityRequest{UserID: "u1"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}
