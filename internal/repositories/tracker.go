package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"careerpath/career-advisor/internal/models"
)

const (
	DefaultSearchLimit      = 100
	DefaultUserSearchLimit  = 50
	DefaultPopularRoleLimit = 10
	summaryPopularRoles     = 5
)

// TrackerRepository records analysis searches and user activity for analytics.
type TrackerRepository interface {
	LogSearch(search *models.SearchLog) error
	LogActivity(activity *models.ActivityLog) error
	FindSearchesByUser(userID string, limit int) ([]models.SearchLog, error)
	FindAllSearches(limit int) ([]models.SearchLog, error)
	PopularRoles(limit int) ([]models.RoleCount, error)
	Summary() (*models.AnalyticsSummary, error)
}

type trackerRepository struct {
	db *gorm.DB
}

func NewTrackerRepository(db *gorm.DB) TrackerRepository {
	return &trackerRepository{db: db}
}

func (r *trackerRepository) LogSearch(search *models.SearchLog) error {
	if err := r.db.Create(search).Error; err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

func (r *trackerRepository) LogActivity(activity *models.ActivityLog) error {
	if err := r.db.Create(activity).Error; err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	return nil
}

func (r *trackerRepository) FindSearchesByUser(userID string, limit int) ([]models.SearchLog, error) {
	if limit <= 0 {
		limit = DefaultUserSearchLimit
	}

	var searches []models.SearchLog
	err := r.db.Where("user_id = ?", userID).
		Order("searched_at DESC").
		Limit(limit).
		Find(&searches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find user searches: %w", err)
	}
	return searches, nil
}

func (r *trackerRepository) FindAllSearches(limit int) ([]models.SearchLog, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	var searches []models.SearchLog
	if err := r.db.Order("searched_at DESC").Limit(limit).Find(&searches).Error; err != nil {
		return nil, fmt.Errorf("failed to find searches: %w", err)
	}
	return searches, nil
}

// PopularRoles counts searches per exact target role, most searched first.
func (r *trackerRepository) PopularRoles(limit int) ([]models.RoleCount, error) {
	if limit <= 0 {
		limit = DefaultPopularRoleLimit
	}

	roles := []models.RoleCount{}
	err := r.db.Model(&models.SearchLog{}).
		Select("target_role AS role, COUNT(*) AS count").
		Group("target_role").
		Order("COUNT(*) DESC").
		Order("target_role ASC").
		Limit(limit).
		Scan(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count popular roles: %w", err)
	}
	return roles, nil
}

func (r *trackerRepository) Summary() (*models.AnalyticsSummary, error) {
	var total, unique int64

	if err := r.db.Model(&models.SearchLog{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count searches: %w", err)
	}
	if err := r.db.Model(&models.SearchLog{}).Distinct("user_id").Count(&unique).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	popular, err := r.PopularRoles(summaryPopularRoles)
	if err != nil {
		return nil, err
	}

	return &models.AnalyticsSummary{
		TotalSearches: total,
		UniqueUsers:   unique,
		PopularRoles:  popular,
	}, nil
}
