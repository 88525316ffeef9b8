package gorm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/thebtf/collate/pkg/models"
)

// SurveyStoreSuite is a test suite for SurveyStore operations.
type SurveyStoreSuite struct {
	suite.Suite
	store       *Store
	surveyStore *SurveyStore
	cleanup     func()
}

func (s *SurveyStoreSuite) SetupTest() {
	s.store, s.cleanup = testStore(s.T())
	s.surveyStore = NewSurveyStore(s.store)
}

func (s *SurveyStoreSuite) TearDownTest() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

func TestSurveyStoreSuite(t *testing.T) {
	suite.Run(t, new(SurveyStoreSuite))
}

// TestCreateAndGet tests survey creation and retrieval round trip.
func (s *SurveyStoreSuite) TestCreateAndGet() {
	ctx := context.Background()

	survey := models.NewSurvey("What is your favorite animal?", true, 200, []string{"animals", "fun"})
	err := s.surveyStore.Create(ctx, survey)
	s.Require().NoError(err)
	s.NotEmpty(survey.ID)

	got, err := s.surveyStore.Get(ctx, survey.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(survey.ID, got.ID)
	s.Equal("What is your favorite animal?", got.QuestionText)
	s.True(got.IsActive)
	s.Equal(200, got.ParticipantLimit)
	s.Equal([]string{"animals", "fun"}, got.Tags)
	s.NotEmpty(got.CreatedAt)
	s.Greater(got.CreatedAtEpoch, int64(0))
}

// TestGet_Missing returns nil without error for unknown surveys.
func (s *SurveyStoreSuite) TestGet_Missing() {
	got, err := s.surveyStore.Get(context.Background(), "no-such-survey")
	s.NoError(err)
	s.Nil(got)
}

// TestList_TableDriven tests listing with filters.
func (s *SurveyStoreSuite) TestList_TableDriven() {
	ctx := context.Background()

	active := models.NewSurvey("Active question here", true, 0, nil)
	inactive := models.NewSurvey("Inactive question here", false, 0, nil)
	// Force distinct ordering regardless of wall clock
	active.CreatedAtEpoch = 2000
	inactive.CreatedAtEpoch = 1000
	s.Require().NoError(s.surveyStore.Create(ctx, active))
	s.Require().NoError(s.surveyStore.Create(ctx, inactive))

	tests := []struct {
		name       string
		activeOnly bool
		offset     int
		limit      int
		wantCount  int
		wantFirst  string
	}{
		{
			name:       "all surveys newest first",
			activeOnly: false,
			wantCount:  2,
			wantFirst:  active.ID,
		},
		{
			name:       "active only",
			activeOnly: true,
			wantCount:  1,
			wantFirst:  active.ID,
		},
		{
			name:      "limit applies",
			limit:     1,
			wantCount: 1,
			wantFirst: active.ID,
		},
		{
			name:      "offset skips newest",
			offset:    1,
			wantCount: 1,
			wantFirst: inactive.ID,
		},
		{
			name:      "negative offset treated as zero",
			offset:    -3,
			wantCount: 2,
			wantFirst: active.ID,
		},
		{
			name:      "offset past the end",
			offset:    10,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			surveys, err := s.surveyStore.List(ctx, tt.activeOnly, tt.offset, tt.limit)
			s.Require().NoError(err)
			s.Len(surveys, tt.wantCount)
			if tt.wantCount > 0 {
				s.Equal(tt.wantFirst, surveys[0].ID)
			}
		})
	}
}

// TestUpdate_Partial tests that only supplied fields change.
func (s *SurveyStoreSuite) TestUpdate_Partial() {
	ctx := context.Background()

	survey := models.NewSurvey("Original question text", false, 100, []string{"one"})
	s.Require().NoError(s.surveyStore.Create(ctx, survey))

	newText := "Updated question text"
	updated, err := s.surveyStore.Update(ctx, survey.ID, &models.SurveyUpdate{
		QuestionText: &newText,
	})
	s.Require().NoError(err)
	s.Equal(newText, updated.QuestionText)
	// Untouched fields survive
	s.False(updated.IsActive)
	s.Equal(100, updated.ParticipantLimit)
	s.Equal([]string{"one"}, updated.Tags)

	// Activation flip
	activate := true
	updated, err = s.surveyStore.Update(ctx, survey.ID, &models.SurveyUpdate{
		IsActive: &activate,
	})
	s.Require().NoError(err)
	s.True(updated.IsActive)
	s.Equal(newText, updated.QuestionText)

	// Tags replacement
	tags := []string{"a", "b"}
	updated, err = s.surveyStore.Update(ctx, survey.ID, &models.SurveyUpdate{
		Tags: &tags,
	})
	s.Require().NoError(err)
	s.Equal(tags, updated.Tags)
}

// TestUpdate_Missing returns ErrNotFound for unknown surveys.
func (s *SurveyStoreSuite) TestUpdate_Missing() {
	text := "anything"
	_, err := s.surveyStore.Update(context.Background(), "no-such-survey", &models.SurveyUpdate{
		QuestionText: &text,
	})
	s.ErrorIs(err, ErrNotFound)
}

// TestUpdate_Empty returns the current survey unchanged.
func (s *SurveyStoreSuite) TestUpdate_Empty() {
	ctx := context.Background()

	survey := models.NewSurvey("Question for empty update", true, 0, nil)
	s.Require().NoError(s.surveyStore.Create(ctx, survey))

	got, err := s.surveyStore.Update(ctx, survey.ID, &models.SurveyUpdate{})
	s.Require().NoError(err)
	s.Equal(survey.ID, got.ID)
	s.Equal(survey.QuestionText, got.QuestionText)
}

// TestDelete_Cascade removes the survey with its responses and result.
func (s *SurveyStoreSuite) TestDelete_Cascade() {
	ctx := context.Background()

	survey := models.NewSurvey("Question to be deleted", true, 0, nil)
	s.Require().NoError(s.surveyStore.Create(ctx, survey))

	responseStore := NewResponseStore(s.store)
	s.Require().NoError(responseStore.Create(ctx, models.NewResponse(survey.ID, "dog")))
	s.Require().NoError(responseStore.Create(ctx, models.NewResponse(survey.ID, "cat")))

	resultStore := NewResultStore(s.store)
	result := models.NewGroupedResult(survey.ID, models.ResultStatusCompleted)
	s.Require().NoError(resultStore.Upsert(ctx, result))

	err := s.surveyStore.Delete(ctx, survey.ID)
	s.Require().NoError(err)

	got, err := s.surveyStore.Get(ctx, survey.ID)
	s.NoError(err)
	s.Nil(got)

	count, err := responseStore.CountForSurvey(ctx, survey.ID)
	s.NoError(err)
	s.Equal(int64(0), count)

	res, err := resultStore.Get(ctx, survey.ID)
	s.NoError(err)
	s.Nil(res)
}

// TestDelete_Missing returns ErrNotFound for unknown surveys.
func (s *SurveyStoreSuite) TestDelete_Missing() {
	err := s.surveyStore.Delete(context.Background(), "no-such-survey")
	s.ErrorIs(err, ErrNotFound)
}
