package models

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// ResultSuite is a test suite for GroupedResult operations.
type ResultSuite struct {
	suite.Suite
}

func TestResultSuite(t *testing.T) {
	suite.Run(t, new(ResultSuite))
}

// TestStatusConstants tests result status constants.
func (s *ResultSuite) TestStatusConstants() {
	s.Equal(ResultStatus("completed"), ResultStatusCompleted)
	s.Equal(ResultStatus("completed_no_data"), ResultStatusCompletedNoData)
	s.Equal(ResultStatus("failed"), ResultStatusFailed)
}

// TestNewGroupedResult tests that new results carry empty slices, not nils.
func (s *ResultSuite) TestNewGroupedResult() {
	r := NewGroupedResult("survey-1", ResultStatusCompleted)

	s.Equal("survey-1", r.SurveyID)
	s.Equal(ResultStatusCompleted, r.Status)
	s.NotEmpty(r.ProcessingTimeUTC)
	s.NotNil(r.GroupedAnswers)
	s.Empty(r.GroupedAnswers)
	s.NotNil(r.Errors)
	s.Empty(r.Errors)
	s.Zero(r.Version)
}

// TestFindGroup tests group lookup by canonical name.
func (s *ResultSuite) TestFindGroup() {
	r := NewGroupedResult("survey-1", ResultStatusCompleted)
	r.GroupedAnswers = []Group{
		{CanonicalName: "dog", Count: 3, RawAnswers: []string{"dog", "Dog!", "my dog"}},
		{CanonicalName: "cat", Count: 1, RawAnswers: []string{"cat"}},
	}

	s.Equal(0, r.FindGroup("dog"))
	s.Equal(1, r.FindGroup("cat"))
	s.Equal(-1, r.FindGroup("bird"))
	s.Equal(-1, r.FindGroup(""))
}

// TestTotalAnswers tests the raw answer count across groups.
func (s *ResultSuite) TestTotalAnswers() {
	r := NewGroupedResult("survey-1", ResultStatusCompleted)
	s.Equal(0, r.TotalAnswers())

	r.GroupedAnswers = []Group{
		{CanonicalName: "dog", Count: 3, RawAnswers: []string{"dog", "Dog!", "my dog"}},
		{CanonicalName: "cat", Count: 1, RawAnswers: []string{"cat"}},
	}
	s.Equal(4, r.TotalAnswers())
}
