package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/collate/internal/db/gorm"
	"github.com/thebtf/collate/internal/editing"
	"github.com/thebtf/collate/internal/queue"
	"github.com/thebtf/collate/pkg/grouping"
	"github.com/thebtf/collate/pkg/models"
)

// Bounds on the answer-lookup limit parameter.
const (
	defaultAnswerLookupLimit = 20
	maxAnswerLookupLimit     = 100
)

type processRequest struct {
	Profile         string `json:"profile,omitempty"`
	Threshold       *int   `json:"threshold,omitempty"`
	RemoveStopwords *bool  `json:"remove_stopwords,omitempty"`
}

type processResponse struct {
	JobID    string `json:"job_id"`
	SurveyID string `json:"survey_id"`
	Profile  string `json:"profile"`
}

// handleProcessSurvey enqueues a grouping run for a survey.
//
//	@Summary	Trigger grouping
//	@Tags		results
//	@Accept		json
//	@Produce	json
//	@Param		surveyID	path		string			true	"Survey ID"
//	@Param		options		body		processRequest	false	"Run options"
//	@Success	202			{object}	processResponse
//	@Failure	400			{object}	errorResponse
//	@Failure	404			{object}	errorResponse
//	@Failure	503			{object}	errorResponse
//	@Router		/api/surveys/{surveyID}/process [post]
func (s *Service) handleProcessSurvey(w http.ResponseWriter, r *http.Request) {
	id, ok := surveyID(w, r)
	if !ok {
		return
	}

	var req processRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	if _, err := s.profiles.Resolve(req.Profile); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Threshold != nil && (*req.Threshold < 0 || *req.Threshold > 100) {
		writeError(w, http.StatusBadRequest, "threshold must be between 0 and 100")
		return
	}

	survey, err := s.surveys.Get(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("surveyId", id).Msg("Failed to load survey")
		writeError(w, http.StatusInternalServerError, "failed to load survey")
		return
	}
	if survey == nil {
		writeError(w, http.StatusNotFound, "survey not found")
		return
	}

	job := queue.NewJob(id)
	job.Profile = req.Profile
	job.Threshold = req.Threshold
	job.RemoveStopwords = req.RemoveStopwords

	if err := s.queue.Enqueue(r.Context(), job); err != nil {
		if errors.Is(err, queue.ErrQueueFull) {
			writeError(w, http.StatusServiceUnavailable, "processing queue is full, retry later")
			return
		}
		log.Error().Err(err).Str("surveyId", id).Msg("Failed to enqueue job")
		writeError(w, http.StatusInternalServerError, "failed to enqueue processing job")
		return
	}

	profileName := req.Profile
	if profileName == "" {
		profileName = "default"
	}
	log.Info().Str("surveyId", id).Str("jobId", job.ID).Str("profile", profileName).Msg("Processing job enqueued")
	writeJSON(w, http.StatusAccepted, processResponse{JobID: job.ID, SurveyID: id, Profile: profileName})
}

// handleGetResult fetches the stored grouping document.
//
//	@Summary	Get grouped result
//	@Tags		results
//	@Produce	json
//	@Param		surveyID	path		string	true	"Survey ID"
//	@Success	200			{object}	models.GroupedResult
//	@Failure	404			{object}	errorResponse
//	@Router		/api/surveys/{surveyID}/results [get]
func (s *Service) handleGetResult(w http.ResponseWriter, r *http.Request) {
	id, ok := surveyID(w, r)
	if !ok {
		return
	}

	result, err := s.results.Get(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("surveyId", id).Msg("Failed to load grouped result")
		writeError(w, http.StatusInternalServerError, "failed to load grouped result")
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "survey has not been processed yet")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type renameGroupRequest struct {
	CurrentName string `json:"current_name"`
	NewName     string `json:"new_name"`
}

// handleRenameGroup renames a canonical group.
//
//	@Summary	Rename a group
//	@Tags		results
//	@Accept		json
//	@Produce	json
//	@Param		surveyID	path		string				true	"Survey ID"
//	@Param		rename		body		renameGroupRequest	true	"Current and new canonical name"
//	@Success	200			{object}	models.GroupedResult
//	@Failure	400			{object}	errorResponse
//	@Failure	404			{object}	errorResponse
//	@Failure	409			{object}	errorResponse
//	@Router		/api/surveys/{surveyID}/results/groups/rename [put]
func (s *Service) handleRenameGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := surveyID(w, r)
	if !ok {
		return
	}

	var req renameGroupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CurrentName == "" || strings.TrimSpace(req.NewName) == "" {
		writeError(w, http.StatusBadRequest, "current_name and new_name are required")
		return
	}

	result, err := s.editor.Rename(r.Context(), id, req.CurrentName, req.NewName)
	if err != nil {
		s.writeEditError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type moveAnswerRequest struct {
	AnswerText      string `json:"answer_text"`
	SourceName      string `json:"source_name"`
	DestinationName string `json:"destination_name"`
}

// handleMoveAnswer moves one answer between groups.
//
//	@Summary	Move an answer
//	@Tags		results
//	@Accept		json
//	@Produce	json
//	@Param		surveyID	path		string				true	"Survey ID"
//	@Param		move		body		moveAnswerRequest	true	"Answer and group names"
//	@Success	200			{object}	models.GroupedResult
//	@Failure	400			{object}	errorResponse
//	@Failure	404			{object}	errorResponse
//	@Failure	409			{object}	errorResponse
//	@Router		/api/surveys/{surveyID}/results/groups/move [put]
func (s *Service) handleMoveAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := surveyID(w, r)
	if !ok {
		return
	}

	var req moveAnswerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AnswerText == "" || req.SourceName == "" || strings.TrimSpace(req.DestinationName) == "" {
		writeError(w, http.StatusBadRequest, "answer_text, source_name and destination_name are required")
		return
	}

	result, err := s.editor.MoveAnswer(r.Context(), id, req.AnswerText, req.SourceName, req.DestinationName)
	if err != nil {
		s.writeEditError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeEditError maps editor failures onto HTTP statuses.
func (s *Service) writeEditError(w http.ResponseWriter, surveyID string, err error) {
	switch {
	case errors.Is(err, editing.ErrResultNotFound):
		writeError(w, http.StatusNotFound, "survey has not been processed yet")
	case errors.Is(err, grouping.ErrGroupNotFound):
		writeError(w, http.StatusNotFound, "group not found")
	case errors.Is(err, grouping.ErrAnswerNotFound):
		writeError(w, http.StatusNotFound, "answer not found in group")
	case errors.Is(err, grouping.ErrNameConflict):
		writeError(w, http.StatusConflict, "canonical name already in use")
	case errors.Is(err, gorm.ErrVersionConflict):
		writeError(w, http.StatusConflict, "result changed concurrently, retry the edit")
	default:
		log.Error().Err(err).Str("surveyId", surveyID).Msg("Edit failed")
		writeError(w, http.StatusInternalServerError, "failed to apply edit")
	}
}

// answerMatch pairs a raw answer with the group currently holding it.
type answerMatch struct {
	Answer        string `json:"answer"`
	CanonicalName string `json:"canonical_name"`
}

type findAnswersResponse struct {
	Matches []answerMatch `json:"matches"`
	Count   int           `json:"count"`
}

// handleFindAnswers locates raw answers in the stored result by
// case-insensitive substring, the lookup an operator runs before moving
// an answer.
//
//	@Summary	Find answers in the result
//	@Tags		results
//	@Produce	json
//	@Param		surveyID	path		string	true	"Survey ID"
//	@Param		q			query		string	true	"Substring to search for"
//	@Param		limit		query		int		false	"Maximum matches (max 100)"
//	@Success	200			{object}	findAnswersResponse
//	@Failure	400			{object}	errorResponse
//	@Failure	404			{object}	errorResponse
//	@Router		/api/surveys/{surveyID}/results/answers [get]
func (s *Service) handleFindAnswers(w http.ResponseWriter, r *http.Request) {
	id, ok := surveyID(w, r)
	if !ok {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	limit := defaultAnswerLookupLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxAnswerLookupLimit {
		limit = maxAnswerLookupLimit
	}

	result, err := s.results.Get(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("surveyId", id).Msg("Failed to load grouped result")
		writeError(w, http.StatusInternalServerError, "failed to load grouped result")
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "survey has not been processed yet")
		return
	}

	writeJSON(w, http.StatusOK, findAnswers(result, query, limit))
}

// findAnswers scans the document for raw answers containing the query.
func findAnswers(result *models.GroupedResult, query string, limit int) findAnswersResponse {
	needle := strings.ToLower(query)
	matches := []answerMatch{}
	for _, group := range result.GroupedAnswers {
		for _, raw := range group.RawAnswers {
			if strings.Contains(strings.ToLower(raw), needle) {
				matches = append(matches, answerMatch{Answer: raw, CanonicalName: group.CanonicalName})
				if len(matches) >= limit {
					return findAnswersResponse{Matches: matches, Count: len(matches)}
				}
			}
		}
	}
	return findAnswersResponse{Matches: matches, Count: len(matches)}
}
