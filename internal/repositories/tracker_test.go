package repositories

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"careerpath/career-advisor/internal/models"
)

func logSearch(t *testing.T, repo TrackerRepository, userID, role string, at time.Time) {
	t.Helper()
	skills, err := json.Marshal([]string{"SQL"})
	require.NoError(t, err)
	require.NoError(t, repo.LogSearch(&models.SearchLog{
		UserID:        userID,
		TargetRole:    role,
		CurrentSkills: datatypes.JSON(skills),
		Timeframe:     "6 months",
		SearchedAt:    at,
	}))
}

func TestTrackerRepository_PopularRolesAndSummary(t *testing.T) {
	repo := NewTrackerRepository(newTestDB(t))
	now := time.Now().UTC()

	logSearch(t, repo, "u1", "Data Analyst", now)
	logSearch(t, repo, "u2", "Data Analyst", now)
	logSearch(t, repo, "u1", "Data Analyst", now)
	logSearch(t, repo, "u3", "SDE", now)
	logSearch(t, repo, "u3", "Backend Developer", now)
	logSearch(t, repo, "u2", "SDE", now)

	roles, err := repo.PopularRoles(2)
	require.NoError(t, err)
	assert.Equal(t, []models.RoleCount{
		{Role: "Data Analyst", Count: 3},
		{Role: "SDE", Count: 2},
	}, roles)

	summary, err := repo.Summary()
	require.NoError(t, err)
	assert.Equal(t, int64(6), summary.TotalSearches)
	assert.Equal(t, int64(3), summary.UniqueUsers)
	assert.Len(t, summary.PopularRoles, 3)
	assert.Equal(t, "Backend Developer", summary.PopularRoles[2].Role)
}

func TestTrackerRepository_SearchesNewestFirst(t *testing.T) {
	repo := NewTrackerRepository(newTestDB(t))
	now := time.Now().UTC()

	logSearch(t, repo, "u1", "First", now.Add(-time.Hour))
	logSearch(t, repo, "u1", "Second", now)
	logSearch(t, repo, "u2", "Other", now.Add(-30*time.Minute))

	mine, err := repo.FindSearchesByUser("u1", 0)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Second", mine[0].TargetRole)

	all, err := repo.FindAllSearches(2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Second", all[0].TargetRole)
	assert.Equal(t, "Other", all[1].TargetRole)
}

func TestTrackerRepository_LogActivity(t *testing.T) {
	db := newTestDB(t)
	repo := NewTrackerRepository(db)

	require.NoError(t, repo.LogActivity(&models.ActivityLog{
		UserID:       "u1",
		ActivityType: "login",
		Details:      datatypes.JSONMap{"source": "web"},
	}))

	var stored models.ActivityLog
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, "login", stored.ActivityType)
	assert.Equal(t, "web", stored.Details["source"])
	assert.False(t, stored.ActivityAt.IsZero())
}

func TestTrackerRepository_EmptySummary(t *testing.T) {
	repo := NewTrackerRepository(newTestDB(t))

	summary, err := repo.Summary()
	require.NoError(t, err)
	assert.Zero(t, summary.TotalSearches)
	assert.Empty(t, summary.PopularRoles)
}
