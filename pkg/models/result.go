package models

import "time"

// ResultStatus represents the outcome of one grouping run.
type ResultStatus string

const (
	ResultStatusCompleted       ResultStatus = "completed"
	ResultStatusCompletedNoData ResultStatus = "completed_no_data"
	ResultStatusFailed          ResultStatus = "failed"
)

// Group is one canonical group of similar raw answers.
// Invariant: Count == len(RawAnswers) after every completed operation.
type Group struct {
	CanonicalName string   `json:"canonical_name"`
	Count         int      `json:"count"`
	RawAnswers    []string `json:"raw_answers"`
}

// GroupedResult is the persisted per-survey grouping document. Exactly
// one exists per survey; a pipeline run replaces it wholesale, edits
// update it in place under a version check.
type GroupedResult struct {
	SurveyID          string       `json:"survey_id"`
	ProcessingTimeUTC string       `json:"processing_time_utc"`
	Status            ResultStatus `json:"status"`
	GroupedAnswers    []Group      `json:"grouped_answers"`
	Errors            []string     `json:"errors"`

	// Version is maintained by the store and incremented on every
	// write. It never appears on the wire.
	Version int64 `json:"-"`
}

// NewGroupedResult creates a result document stamped with the current
// UTC time.
func NewGroupedResult(surveyID string, status ResultStatus) *GroupedResult {
	return &GroupedResult{
		SurveyID:          surveyID,
		ProcessingTimeUTC: time.Now().UTC().Format(time.RFC3339),
		Status:            status,
		GroupedAnswers:    []Group{},
		Errors:            []string{},
	}
}

// FindGroup returns the index of the group with the given canonical
// name, or -1 if no such group exists.
func (r *GroupedResult) FindGroup(canonicalName string) int {
	for i := range r.GroupedAnswers {
		if r.GroupedAnswers[i].CanonicalName == canonicalName {
			return i
		}
	}
	return -1
}

// TotalAnswers returns the number of raw answers held across all groups.
func (r *GroupedResult) TotalAnswers() int {
	total := 0
	for i := range r.GroupedAnswers {
		total += len(r.GroupedAnswers[i].RawAnswers)
	}
	return total
}

// Touch refreshes the processing timestamp to the current UTC time.
func (r *GroupedResult) Touch() {
	r.ProcessingTimeUTC = time.Now().UTC().Format(time.RFC3339)
}
