// Package gorm provides GORM-based database operations for collate.
package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/thebtf/collate/pkg/models"
)

// DefaultResponseFetchLimit bounds how many responses a single grouping
// run will pull when the caller does not supply a limit.
const DefaultResponseFetchLimit = 1000

// ResponseStore provides response-related database operations using GORM.
type ResponseStore struct {
	db *gorm.DB
}

// NewResponseStore creates a new response store.
func NewResponseStore(store *Store) *ResponseStore {
	return &ResponseStore{db: store.DB}
}

// Create persists a new response and fills in its generated ID.
func (s *ResponseStore) Create(ctx context.Context, response *models.Response) error {
	rec := &Response{
		SurveyID:       response.SurveyID,
		AnswerText:     response.AnswerText,
		CreatedAt:      response.CreatedAt,
		CreatedAtEpoch: response.CreatedAtEpoch,
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return err
	}
	response.ID = rec.ID
	response.CreatedAt = rec.CreatedAt
	response.CreatedAtEpoch = rec.CreatedAtEpoch
	return nil
}

// CountForSurvey returns the number of responses recorded for a survey.
func (s *ResponseStore) CountForSurvey(ctx context.Context, surveyID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&Response{}).
		Where("survey_id = ?", surveyID).
		Count(&count).Error
	return count, err
}

// ListForSurvey returns responses in submission order, oldest first.
// The insert ID breaks ties between responses sharing a millisecond so
// repeated runs over the same data always see the same order.
func (s *ResponseStore) ListForSurvey(ctx context.Context, surveyID string, limit int) ([]*models.Response, error) {
	var recs []Response
	err := s.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("created_at_epoch ASC, id ASC").
		Limit(normalizeLimit(limit, DefaultResponseFetchLimit)).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	responses := make([]*models.Response, 0, len(recs))
	for i := range recs {
		responses = append(responses, &models.Response{
			ID:             recs[i].ID,
			SurveyID:       recs[i].SurveyID,
			AnswerText:     recs[i].AnswerText,
			CreatedAt:      recs[i].CreatedAt,
			CreatedAtEpoch: recs[i].CreatedAtEpoch,
		})
	}
	return responses, nil
}
