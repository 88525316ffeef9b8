// Package gorm provides GORM-based database operations for collate.
package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thebtf/collate/pkg/models"
)

// GORM Models
//
// Note: JSON types (JSONStringArray, JSONGroupArray) are imported from
// pkg/models and already implement sql.Scanner and driver.Valuer.

// Survey represents a survey row.
type Survey struct {
	ID               string                 `gorm:"primaryKey;type:text"`
	QuestionText     string                 `gorm:"type:text;not null"`
	IsActive         bool                   `gorm:"default:false;index:idx_surveys_active"`
	ParticipantLimit int                    `gorm:"default:500;not null"`
	Tags             models.JSONStringArray `gorm:"type:text"`
	CreatedAt        string                 `gorm:"not null"`
	CreatedAtEpoch   int64                  `gorm:"index:idx_surveys_created,sort:desc;not null"`
	UpdatedAt        string                 `gorm:"not null"`
	UpdatedAtEpoch   int64                  `gorm:"not null"`
}

func (Survey) TableName() string { return "surveys" }

// BeforeCreate hook to ensure ID and timestamps are set.
func (s *Survey) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAtEpoch == 0 {
		s.CreatedAtEpoch = now.UnixMilli()
	}
	if s.CreatedAt == "" {
		s.CreatedAt = now.UTC().Format(time.RFC3339)
	}
	if s.UpdatedAtEpoch == 0 {
		s.UpdatedAtEpoch = s.CreatedAtEpoch
	}
	if s.UpdatedAt == "" {
		s.UpdatedAt = s.CreatedAt
	}
	if s.ParticipantLimit <= 0 {
		s.ParticipantLimit = models.DefaultParticipantLimit
	}
	return nil
}

// Response represents a single submitted answer row.
type Response struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	SurveyID       string `gorm:"index:idx_responses_survey_created,priority:1;not null"`
	AnswerText     string `gorm:"type:text;not null"`
	CreatedAt      string `gorm:"not null"`
	CreatedAtEpoch int64  `gorm:"index:idx_responses_survey_created,priority:2;not null"`
}

func (Response) TableName() string { return "responses" }

// BeforeCreate hook to ensure timestamps are set.
func (r *Response) BeforeCreate(tx *gorm.DB) error {
	if r.CreatedAtEpoch == 0 {
		r.CreatedAtEpoch = time.Now().UnixMilli()
	}
	if r.CreatedAt == "" {
		r.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return nil
}

// GroupedResult represents the stored grouping document for one survey.
// Exactly one row exists per survey; reprocessing replaces it in place.
type GroupedResult struct {
	ID                int64                  `gorm:"primaryKey;autoIncrement"`
	SurveyID          string                 `gorm:"uniqueIndex:idx_results_survey_unique;not null"`
	Status            string                 `gorm:"type:text;check:status IN ('completed', 'completed_no_data', 'failed');not null"`
	GroupedAnswers    models.JSONGroupArray  `gorm:"type:text"`
	Errors            models.JSONStringArray `gorm:"type:text"`
	Version           int64                  `gorm:"default:1;not null"`
	ProcessingTimeUTC string                 `gorm:"column:processing_time_utc;not null"`
	ProcessedAtEpoch  int64                  `gorm:"index:idx_results_processed,sort:desc;not null"`
}

func (GroupedResult) TableName() string { return "grouped_results" }

// BeforeCreate hook to ensure timestamps and version are set.
func (g *GroupedResult) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if g.ProcessedAtEpoch == 0 {
		g.ProcessedAtEpoch = now.UnixMilli()
	}
	if g.ProcessingTimeUTC == "" {
		g.ProcessingTimeUTC = now.UTC().Format(time.RFC3339)
	}
	if g.Version == 0 {
		g.Version = 1
	}
	return nil
}
