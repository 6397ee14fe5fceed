package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const AnalysisTypeComprehensive = "comprehensive_analysis"

// AnalysisSections are the four independent text blobs of a career report.
type AnalysisSections struct {
	FinalRecommendations string `json:"final_recommendations"`
	MarketResearch       string `json:"market_research"`
	LearningPlan         string `json:"learning_plan"`
	ApplicationStrategy  string `json:"application_strategy"`
}

// AnalysisHistory is one persisted report. Rows are never hard-deleted; bulk operations only
// flip the deleted and archived flags.
type AnalysisHistory struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               string     `gorm:"type:varchar(255);not null;index" json:"user_id"`
	TargetRole           string     `gorm:"type:text;not null" json:"target_role"`
	Type                 string     `gorm:"type:varchar(64);not null" json:"type"`
	FinalRecommendations string     `gorm:"type:text" json:"-"`
	MarketResearch       string     `gorm:"type:text" json:"-"`
	LearningPlan         string     `gorm:"type:text" json:"-"`
	ApplicationStrategy  string     `gorm:"type:text" json:"-"`
	IsDeleted            bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt            *time.Time `json:"deleted_at,omitempty"`
	IsArchived           bool       `gorm:"not null;default:false" json:"is_archived"`
	ArchivedAt           *time.Time `json:"archived_at,omitempty"`
	CreatedAt            time.Time  `gorm:"index" json:"timestamp"`
}

func (AnalysisHistory) TableName() string {
	return "analysis_histories"
}

func (h *AnalysisHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.Type == "" {
		h.Type = AnalysisTypeComprehensive
	}
	return nil
}

func NewAnalysisHistory(userID, targetRole string, sections AnalysisSections) *AnalysisHistory {
	return &AnalysisHistory{
		ID:                   uuid.New(),
		UserID:               userID,
		TargetRole:           targetRole,
		Type:                 AnalysisTypeComprehensive,
		FinalRecommendations: sections.FinalRecommendations,
		MarketResearch:       sections.MarketResearch,
		LearningPlan:         sections.LearningPlan,
		ApplicationStrategy:  sections.ApplicationStrategy,
		CreatedAt:            time.Now().UTC(),
	}
}

func (h *AnalysisHistory) Sections() AnalysisSections {
	return AnalysisSections{
		FinalRecommendations: h.FinalRecommendations,
		MarketResearch:       h.MarketResearch,
		LearningPlan:         h.LearningPlan,
		ApplicationStrategy:  h.ApplicationStrategy,
	}
}

// HistoryItem is the API shape of a stored report.
type HistoryItem struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	TargetRole string           `json:"target_role"`
	Timestamp  string           `json:"timestamp"`
	Type       string           `json:"type"`
	Data       AnalysisSections `json:"data"`
	IsDeleted  bool             `json:"is_deleted"`
	IsArchived bool             `json:"is_archived"`
}

func (h *AnalysisHistory) ToItem() HistoryItem {
	return HistoryItem{
		ID:         h.ID.String(),
		UserID:     h.UserID,
		TargetRole: h.TargetRole,
		Timestamp:  h.CreatedAt.UTC().Format(time.RFC3339),
		Type:       h.Type,
		Data:       h.Sections(),
		IsDeleted:  h.IsDeleted,
		IsArchived: h.IsArchived,
	}
}
