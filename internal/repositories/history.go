package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"careerpath/career-advisor/internal/apperrors"
	"careerpath/career-advisor/internal/models"
)

// MaxBulkItems caps the ids accepted by one bulk delete or archive call.
const MaxBulkItems = 100

// Reasons reported for ids a bulk operation did not update.
const (
	FailureInvalidID    = "invalid_id"
	FailureNotFound     = "not_found"
	FailureOwnership    = "ownership_mismatch"
	FailureUpdateFailed = "update_failed"
)

type HistoryRepository interface {
	Create(history *models.AnalysisHistory) error
	FindByID(id uuid.UUID) (*models.AnalysisHistory, error)
	FindByUser(userID string, includeArchived bool) ([]models.AnalysisHistory, error)
	BulkDelete(ids []string, userID string) (*BulkResult, error)
	BulkArchive(ids []string, userID string, archived bool) (*BulkResult, error)
}

type BulkResult struct {
	Updated   int
	Failed    int
	FailedIDs []string
	Failures  []models.BulkFailure
}

func (b *BulkResult) fail(id, reason string) {
	b.Failed++
	b.FailedIDs = append(b.FailedIDs, id)
	b.Failures = append(b.Failures, models.BulkFailure{ID: id, Reason: reason})
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Create(history *models.AnalysisHistory) error {
	if err := r.db.Create(history).Error; err != nil {
		return fmt.Errorf("failed to create analysis history: %w", err)
	}
	return nil
}

func (r *historyRepository) FindByID(id uuid.UUID) (*models.AnalysisHistory, error) {
	var history models.AnalysisHistory
	if err := r.db.Where("id = ?", id).First(&history).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "analysis not found")
		}
		return nil, fmt.Errorf("failed to find analysis history: %w", err)
	}
	return &history, nil
}

// FindByUser lists a user's reports newest first. Deleted reports are never returned and
// archived ones only when includeArchived is set.
func (r *historyRepository) FindByUser(userID string, includeArchived bool) ([]models.AnalysisHistory, error) {
	query := r.db.Where("user_id = ? AND is_deleted = ?", userID, false)
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}

	var histories []models.AnalysisHistory
	if err := query.Order("created_at DESC").Find(&histories).Error; err != nil {
		return nil, fmt.Errorf("failed to list analysis history: %w", err)
	}
	return histories, nil
}

func (r *historyRepository) BulkDelete(ids []string, userID string) (*BulkResult, error) {
	return r.bulkUpdate(ids, userID, func(now time.Time) map[string]interface{} {
		return map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
		}
	})
}

// BulkArchive sets or clears the archived flag. Repeating the call succeeds for every id.
func (r *historyRepository) BulkArchive(ids []string, userID string, archived bool) (*BulkResult, error) {
	return r.bulkUpdate(ids, userID, func(now time.Time) map[string]interface{} {
		updates := map[string]interface{}{
			"is_archived": archived,
			"archived_at": nil,
		}
		if archived {
			updates["archived_at"] = now
		}
		return updates
	})
}

// bulkUpdate applies updates to each id owned by userID, recording a failure reason for every
// id it skips.
func (r *historyRepository) bulkUpdate(ids []string, userID string, updates func(time.Time) map[string]interface{}) (*BulkResult, error) {
	if len(ids) == 0 {
		return nil, apperrors.New(apperrors.CodeValidationFailed, "No IDs provided")
	}
	if len(ids) > MaxBulkItems {
		return nil, apperrors.New(apperrors.CodeBatchTooLarge, fmt.Sprintf("Cannot process more than %d items at once", MaxBulkItems))
	}

	result := &BulkResult{
		FailedIDs: []string{},
		Failures:  []models.BulkFailure{},
	}

	for _, raw := range ids {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			result.fail(raw, FailureInvalidID)
			continue
		}

		var existing models.AnalysisHistory
		err = r.db.Select("id", "user_id").Where("id = ?", id).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result.fail(raw, FailureNotFound)
			continue
		}
		if err != nil {
			result.fail(raw, FailureUpdateFailed)
			continue
		}

		if existing.UserID != userID {
			result.fail(raw, FailureOwnership)
			continue
		}

		err = r.db.Model(&models.AnalysisHistory{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(updates(time.Now().UTC())).Error
		if err != nil {
			result.fail(raw, FailureUpdateFailed)
			continue
		}

		result.Updated++
	}

	return result, nil
}
