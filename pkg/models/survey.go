// Package models contains domain models for collate.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultParticipantLimit is the participant cap applied when a survey
// is created without an explicit limit.
const DefaultParticipantLimit = 500

// Survey represents a single free-text survey question.
type Survey struct {
	ID               string   `db:"id" json:"id"`
	QuestionText     string   `db:"question_text" json:"question_text"`
	IsActive         bool     `db:"is_active" json:"is_active"`
	ParticipantLimit int      `db:"participant_limit" json:"participant_limit"`
	Tags             []string `db:"tags" json:"tags,omitempty"`
	CreatedAt        string   `db:"created_at" json:"created_at"`
	CreatedAtEpoch   int64    `db:"created_at_epoch" json:"created_at_epoch"`
	UpdatedAt        string   `db:"updated_at" json:"updated_at"`
	UpdatedAtEpoch   int64    `db:"updated_at_epoch" json:"updated_at_epoch"`
}

// NewSurvey creates a survey with a generated ID and creation timestamps.
// A non-positive participantLimit falls back to DefaultParticipantLimit.
func NewSurvey(questionText string, isActive bool, participantLimit int, tags []string) *Survey {
	if participantLimit <= 0 {
		participantLimit = DefaultParticipantLimit
	}
	now := time.Now().UTC()
	return &Survey{
		ID:               uuid.NewString(),
		QuestionText:     questionText,
		IsActive:         isActive,
		ParticipantLimit: participantLimit,
		Tags:             tags,
		CreatedAt:        now.Format(time.RFC3339),
		CreatedAtEpoch:   now.UnixMilli(),
		UpdatedAt:        now.Format(time.RFC3339),
		UpdatedAtEpoch:   now.UnixMilli(),
	}
}

// SurveyUpdate carries a partial survey update. Nil fields are left
// untouched by the store.
type SurveyUpdate struct {
	QuestionText     *string   `json:"question_text,omitempty"`
	IsActive         *bool     `json:"is_active,omitempty"`
	ParticipantLimit *int      `json:"participant_limit,omitempty"`
	Tags             *[]string `json:"tags,omitempty"`
}

// Empty reports whether the update carries no fields at all.
func (u *SurveyUpdate) Empty() bool {
	return u.QuestionText == nil && u.IsActive == nil && u.ParticipantLimit == nil && u.Tags == nil
}
