package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SearchLog struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string         `gorm:"type:varchar(255);not null;index" json:"user_id"`
	UserEmail      *string        `gorm:"type:varchar(255)" json:"user_email,omitempty"`
	TargetRole     string         `gorm:"type:text;not null;index" json:"target_role"`
	CurrentSkills  datatypes.JSON `json:"current_skills"`
	Timeframe      string         `gorm:"type:varchar(64)" json:"timeframe"`
	ResumeUploaded bool           `gorm:"not null;default:false" json:"resume_uploaded"`
	SearchedAt     time.Time      `gorm:"index" json:"searched_at"`
}

func (SearchLog) TableName() string {
	return "user_searches"
}

func (s *SearchLog) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.SearchedAt.IsZero() {
		s.SearchedAt = time.Now().UTC()
	}
	return nil
}

type ActivityLog struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string            `gorm:"type:varchar(255);not null;index" json:"user_id"`
	UserEmail    *string           `gorm:"type:varchar(255)" json:"user_email,omitempty"`
	ActivityType string            `gorm:"type:varchar(64);not null" json:"activity_type"`
	Details      datatypes.JSONMap `json:"details"`
	ActivityAt   time.Time         `json:"activity_at"`
}

func (ActivityLog) TableName() string {
	return "user_activity"
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.ActivityAt.IsZero() {
		a.ActivityAt = time.Now().UTC()
	}
	return nil
}

type RoleCount struct {
	Role  string `json:"role"`
	Count int64  `json:"count"`
}

type AnalyticsSummary struct {
	TotalSearches int64       `json:"total_searches"`
	UniqueUsers   int64       `json:"unique_users"`
	PopularRoles  []RoleCount `json:"popular_roles"`
}
