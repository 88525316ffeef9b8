// Package gorm provides GORM-based database operations for collate.
package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/thebtf/collate/pkg/models"
)

// DefaultSurveyListLimit bounds survey listings when the caller does not
// supply a limit.
const DefaultSurveyListLimit = 100

// SurveyStore provides survey-related database operations using GORM.
type SurveyStore struct {
	db *gorm.DB
}

// NewSurveyStore creates a new survey store.
func NewSurveyStore(store *Store) *SurveyStore {
	return &SurveyStore{db: store.DB}
}

// Create persists a new survey.
func (s *SurveyStore) Create(ctx context.Context, survey *models.Survey) error {
	rec := toSurveyRecord(survey)
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return err
	}
	// BeforeCreate may have filled generated fields
	*survey = *toModelSurvey(rec)
	return nil
}

// Get retrieves a survey by ID. Returns (nil, nil) when no survey exists.
func (s *SurveyStore) Get(ctx context.Context, id string) (*models.Survey, error) {
	var rec Survey
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toModelSurvey(&rec), nil
}

// List returns surveys ordered by creation time descending.
// When activeOnly is set, inactive surveys are filtered out. A
// negative offset is treated as zero.
func (s *SurveyStore) List(ctx context.Context, activeOnly bool, offset, limit int) ([]*models.Survey, error) {
	if offset < 0 {
		offset = 0
	}
	query := s.db.WithContext(ctx).
		Order("created_at_epoch DESC").
		Offset(offset).
		Limit(normalizeLimit(limit, DefaultSurveyListLimit))

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var recs []Survey
	if err := query.Find(&recs).Error; err != nil {
		return nil, err
	}

	surveys := make([]*models.Survey, 0, len(recs))
	for i := range recs {
		surveys = append(surveys, toModelSurvey(&recs[i]))
	}
	return surveys, nil
}

// Update applies a partial update and returns the refreshed survey.
// Returns ErrNotFound when the survey does not exist.
func (s *SurveyStore) Update(ctx context.Context, id string, upd *models.SurveyUpdate) (*models.Survey, error) {
	if upd == nil || upd.Empty() {
		survey, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if survey == nil {
			return nil, ErrNotFound
		}
		return survey, nil
	}

	now := time.Now()
	fields := map[string]interface{}{
		"updated_at":       now.UTC().Format(time.RFC3339),
		"updated_at_epoch": now.UnixMilli(),
	}
	if upd.QuestionText != nil {
		fields["question_text"] = *upd.QuestionText
	}
	if upd.IsActive != nil {
		fields["is_active"] = *upd.IsActive
	}
	if upd.ParticipantLimit != nil {
		fields["participant_limit"] = *upd.ParticipantLimit
	}
	if upd.Tags != nil {
		fields["tags"] = models.JSONStringArray(*upd.Tags)
	}

	res := s.db.WithContext(ctx).
		Model(&Survey{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.Get(ctx, id)
}

// Delete removes a survey together with its responses and grouped result.
// Returns ErrNotFound when the survey does not exist.
func (s *SurveyStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&Survey{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("survey_id = ?", id).Delete(&Response{}).Error; err != nil {
			return err
		}
		return tx.Where("survey_id = ?", id).Delete(&GroupedResult{}).Error
	})
}

// toSurveyRecord converts a domain survey to its database record.
func toSurveyRecord(m *models.Survey) *Survey {
	return &Survey{
		ID:               m.ID,
		QuestionText:     m.QuestionText,
		IsActive:         m.IsActive,
		ParticipantLimit: m.ParticipantLimit,
		Tags:             models.JSONStringArray(m.Tags),
		CreatedAt:        m.CreatedAt,
		CreatedAtEpoch:   m.CreatedAtEpoch,
		UpdatedAt:        m.UpdatedAt,
		UpdatedAtEpoch:   m.UpdatedAtEpoch,
	}
}

// toModelSurvey converts a database record to its domain survey.
func toModelSurvey(r *Survey) *models.Survey {
	return &models.Survey{
		ID:               r.ID,
		QuestionText:     r.QuestionText,
		IsActive:         r.IsActive,
		ParticipantLimit: r.ParticipantLimit,
		Tags:             []string(r.Tags),
		CreatedAt:        r.CreatedAt,
		CreatedAtEpoch:   r.CreatedAtEpoch,
		UpdatedAt:        r.UpdatedAt,
		UpdatedAtEpoch:   r.UpdatedAtEpoch,
	}
}
