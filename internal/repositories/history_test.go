package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpath/career-advisor/internal/apperrors"
	"careerpath/career-advisor/internal/models"
)

func seedHistory(t *testing.T, repo HistoryRepository, userID, role string, at time.Time) *models.AnalysisHistory {
	t.Helper()
	h := models.NewAnalysisHistory(userID, role, models.AnalysisSections{
		FinalRecommendations: "final " + role,
		MarketResearch:       "market",
		LearningPlan:         "plan",
		ApplicationStrategy:  "strategy",
	})
	h.CreatedAt = at
	require.NoError(t, repo.Create(h))
	return h
}

func TestHistoryRepository_CreateAndFind(t *testing.T) {
	repo := NewHistoryRepository(newTestDB(t))
	h := seedHistory(t, repo, "user-1", "Data Analyst", time.Now())

	found, err := repo.FindByID(h.ID)
	require.NoError(t, err)

	assert.Equal(t, "user-1", found.UserID)
	assert.Equal(t, models.AnalysisTypeComprehensive, found.Type)
	assert.Equal(t, "final Data Analyst", found.Sections().FinalRecommendations)
	assert.False(t, found.IsDeleted)
	assert.False(t, found.IsArchived)

	_, err = repo.FindByID(uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestHistoryRepository_FindByUser(t *testing.T) {
	repo := NewHistoryRepository(newTestDB(t))
	now := time.Now().UTC()

	older := seedHistory(t, repo, "user-1", "Data Analyst", now.Add(-2*time.Hour))
	newer := seedHistory(t, repo, "user-1", "ML Engineer", now.Add(-1*time.Hour))
	archived := seedHistory(t, repo, "user-1", "SDE", now)
	deleted := seedHistory(t, repo, "user-1", "DevOps Engineer", now)
	seedHistory(t, repo, "user-2", "Product Manager", now)

	_, err := repo.BulkArchive([]string{archived.ID.String()}, "user-1", true)
	require.NoError(t, err)
	_, err = repo.BulkDelete([]string{deleted.ID.String()}, "user-1")
	require.NoError(t, err)

	active, err := repo.FindByUser("user-1", false)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, newer.ID, active[0].ID)
	assert.Equal(t, older.ID, active[1].ID)

	all, err := repo.FindByUser("user-1", true)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, archived.ID, all[0].ID)
	for _, h := range all {
		assert.NotEqual(t, deleted.ID, h.ID)
	}
}

func TestHistoryRepository_BulkDelete_OwnershipRejected(t *testing.T) {
	repo := NewHistoryRepository(newTestDB(t))
	now := time.Now()

	a := seedHistory(t, repo, "user-1", "Data Analyst", now)
	b := seedHistory(t, repo, "user-1", "SDE", now)
	foreign := seedHistory(t, repo, "user-2", "SDE", now)

	result, err := repo.BulkDelete([]string{a.ID.String(), b.ID.String(), foreign.ID.String()}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{foreign.ID.String()}, result.FailedIDs)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, FailureOwnership, result.Failures[0].Reason)

	untouched, err := repo.FindByID(foreign.ID)
	require.NoError(t, err)
	assert.False(t, untouched.IsDeleted)

	gone, err := repo.FindByID(a.ID)
	require.NoError(t, err)
	assert.True(t, gone.IsDeleted)
	assert.NotNil(t, gone.DeletedAt)
}

func TestHistoryRepository_BulkArchive_OwnershipRejected(t *testing.T) {
	repo := NewHistoryRepository(newTestDB(t))
	now := time.Now()

	a := seedHistory(t, repo, "user-1", "Data Analyst", now)
	b := seedHistory(t, repo, "user-1", "SDE", now)
	foreign := seedHistory(t, repo, "user-2", "SDE", now)

	result, err := repo.BulkArchive([]string{a.ID.String(), b.ID.String(), foreign.ID.String()}, "user-1", true)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, FailureOwnership, result.Failures[0].Reason)
}

func TestHistoryRepository_BulkArchive_Idempotent(t *testing.T) {
	repo := NewHistoryRepository(newTestDB(t))
	now := time.Now()

	ids := []string{
		seedHistory(t, repo, "user-1", "Data Analyst", now).ID.String(),
		seedHistory(t, repo, "user-1", "SDE", now).ID.String(),
		seedHistory(t, repo, "user-1", "PM", now).ID.String(),
	}

	for i := 0; i < 2; i++ {
		result, err := repo.BulkArchive(ids, "user-1", true)
		require.NoError(t, err)
		assert.Equal(t, len(ids), result.Updated)
		assert.Zero(t, result.Failed)
	}

	result, err := repo.BulkArchive(ids, "user-1", false)
	require.NoError(t, err)
	assert.Equal(t, len(ids), result.Updated)

	id, _ := uuid.Parse(ids[0])
	h, err := repo.FindByID(id)
	require.NoError(t, err)
	assert.False(t, h.IsArchived)
	assert.Nil(t, h.ArchivedAt)
}

func TestHistoryRepository_BulkFailureReasons(t *testing.T) {
	repo := NewHistoryRepository(newTestDB(t))
	missing := uuid.NewString()

	result, err := repo.BulkDelete([]string{"not-a-uuid", missing}, "user-1")
	require.NoError(t, err)

	assert.Zero(t, result.Updated)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, []models.BulkFailure{
		{ID: "not-a-uuid", Reason: FailureInvalidID},
		{ID: missing, Reason: FailureNotFound},
	}, result.Failures)
}

func TestHistoryRepository_BulkBatchLimits(t *testing.T) {
	repo := NewHistoryRepository(newTestDB(t))

	_, err := repo.BulkDelete(nil, "user-1")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidationFailed))

	ids := make([]string, MaxBulkItems+1)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	_, err = repo.BulkArchive(ids, "user-1", true)
	assert.True(t, apperrors.Is(err, apperrors.CodeBatchTooLarge))

	result, err := repo.BulkArchive(ids[:MaxBulkItems], "user-1", true)
	require.NoError(t, err)
	assert.Equal(t, MaxBulkItems, result.Failed)
}
