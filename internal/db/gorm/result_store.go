// Package gorm provides GORM-based database operations for collate.
package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thebtf/collate/pkg/models"
)

// ResultStore provides grouped-result database operations using GORM.
//
// Each survey owns at most one grouped_results row. Pipeline runs go
// through Upsert, which replaces the document wholesale and bumps the
// version so in-flight edits against the old document fail their CAS.
// Manual edits go through UpdateWithVersion.
type ResultStore struct {
	db *gorm.DB
}

// NewResultStore creates a new result store.
func NewResultStore(store *Store) *ResultStore {
	return &ResultStore{db: store.DB}
}

// Upsert inserts the grouping document for a survey, or replaces the
// existing one in place. Replacing increments the stored version.
func (s *ResultStore) Upsert(ctx context.Context, result *models.GroupedResult) error {
	rec := &GroupedResult{
		SurveyID:          result.SurveyID,
		Status:            string(result.Status),
		GroupedAnswers:    models.JSONGroupArray(result.GroupedAnswers),
		Errors:            models.JSONStringArray(result.Errors),
		ProcessingTimeUTC: result.ProcessingTimeUTC,
		ProcessedAtEpoch:  epochFromRFC3339(result.ProcessingTimeUTC),
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "survey_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":              rec.Status,
			"grouped_answers":     rec.GroupedAnswers,
			"errors":              rec.Errors,
			"processing_time_utc": rec.ProcessingTimeUTC,
			"processed_at_epoch":  rec.ProcessedAtEpoch,
			"version":             gorm.Expr("grouped_results.version + 1"),
		}),
	}).Create(rec).Error
}

// Get retrieves the grouping document for a survey, including its
// current version. Returns (nil, nil) when no result exists yet.
func (s *ResultStore) Get(ctx context.Context, surveyID string) (*models.GroupedResult, error) {
	var rec GroupedResult
	err := s.db.WithContext(ctx).Where("survey_id = ?", surveyID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toModelResult(&rec), nil
}

// UpdateWithVersion writes an edited document back, guarded by the
// version it was read at. Returns ErrVersionConflict when another
// writer got there first; on success the document's version is bumped
// to match the stored row.
func (s *ResultStore) UpdateWithVersion(ctx context.Context, result *models.GroupedResult) error {
	res := s.db.WithContext(ctx).
		Model(&GroupedResult{}).
		Where("survey_id = ? AND version = ?", result.SurveyID, result.Version).
		Updates(map[string]interface{}{
			"status":              string(result.Status),
			"grouped_answers":     models.JSONGroupArray(result.GroupedAnswers),
			"errors":              models.JSONStringArray(result.Errors),
			"processing_time_utc": result.ProcessingTimeUTC,
			"processed_at_epoch":  epochFromRFC3339(result.ProcessingTimeUTC),
			"version":             result.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	result.Version++
	return nil
}

// toModelResult converts a database record to its domain document.
// Slices come back non-nil so API responses serialize as [] not null.
func toModelResult(r *GroupedResult) *models.GroupedResult {
	groups := []models.Group(r.GroupedAnswers)
	if groups == nil {
		groups = []models.Group{}
	}
	errs := []string(r.Errors)
	if errs == nil {
		errs = []string{}
	}
	return &models.GroupedResult{
		SurveyID:          r.SurveyID,
		ProcessingTimeUTC: r.ProcessingTimeUTC,
		Status:            models.ResultStatus(r.Status),
		GroupedAnswers:    groups,
		Errors:            errs,
		Version:           r.Version,
	}
}

// epochFromRFC3339 derives the epoch pair for a stored timestamp,
// falling back to the current time when the string does not parse.
func epochFromRFC3339(ts string) int64 {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Now().UnixMilli()
	}
	return t.UnixMilli()
}
