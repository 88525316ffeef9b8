package grouping

import (
	"fmt"
	"sort"

	"github.com/thebtf/collate/pkg/models"
)

// AssembleResult turns clustered groups into the persisted result
// document for a survey. Groups are sorted by count descending; equal
// counts keep the discovery order the Clusterer produced. When nothing
// survived filtering the status is completed_no_data with an
// explanatory entry in errors rather than a failure.
func AssembleResult(surveyID string, groups []models.Group, skipped int) *models.GroupedResult {
	if len(groups) == 0 {
		result := models.NewGroupedResult(surveyID, models.ResultStatusCompletedNoData)
		msg := "no valid responses to group"
		if skipped > 0 {
			msg = fmt.Sprintf("no valid responses to group (%d blank or empty entries skipped)", skipped)
		}
		result.Errors = append(result.Errors, msg)
		return result
	}

	sorted := make([]models.Group, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})

	result := models.NewGroupedResult(surveyID, models.ResultStatusCompleted)
	result.GroupedAnswers = sorted
	return result
}

// FailedResult builds the well-formed failure document a pipeline run
// must still produce when clustering or persistence blows up. The
// caller always receives a GroupedResult, never a bare fault.
func FailedResult(surveyID string, cause error) *models.GroupedResult {
	result := models.NewGroupedResult(surveyID, models.ResultStatusFailed)
	if cause != nil {
		result.Errors = append(result.Errors, cause.Error())
	}
	return result
}
