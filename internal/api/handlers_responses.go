package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/collate/internal/db/gorm"
	"github.com/thebtf/collate/internal/scrub"
	"github.com/thebtf/collate/pkg/models"
)

// maxResponseListLimit caps the limit query parameter on response
// listings, matching the hard bound the pipeline uses when fetching.
const maxResponseListLimit = gorm.DefaultResponseFetchLimit

type submitResponseRequest struct {
	AnswerText string `json:"answer_text"`
}

// handleSubmitResponse records one participant answer. Checks run in a
// fixed order: survey id well-formed, survey exists, survey active,
// participant limit not reached. Only then is the answer stored, after
// optional PII scrubbing.
//
//	@Summary	Submit an answer
//	@Tags		responses
//	@Accept		json
//	@Produce	json
//	@Param		surveyID	path		string					true	"Survey ID"
//	@Param		response	body		submitResponseRequest	true	"Answer text"
//	@Success	201			{object}	models.Response
//	@Failure	400			{object}	errorResponse
//	@Failure	404			{object}	errorResponse
//	@Router		/api/surveys/{surveyID}/responses [post]
func (s *Service) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	id, ok := surveyID(w, r)
	if !ok {
		return
	}

	var req submitResponseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	answer := strings.TrimSpace(req.AnswerText)
	if answer == "" {
		writeError(w, http.StatusBadRequest, "answer_text is required")
		return
	}
	if len(answer) > models.MaxAnswerLength {
		writeError(w, http.StatusBadRequest, "answer_text must be at most 500 characters")
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
	if !survey.IsActive {
		writeError(w, http.StatusBadRequest, "survey is not active")
		return
	}

	count, err := s.responses.CountForSurvey(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("surveyId", id).Msg("Failed to count responses")
		writeError(w, http.StatusInternalServerError, "failed to count responses")
		return
	}
	if count >= int64(survey.ParticipantLimit) {
		writeError(w, http.StatusBadRequest, "survey participant limit reached")
		return
	}

	if s.config.ScrubResponses {
		answer = scrub.Clean(answer)
	}

	response := models.NewResponse(id, answer)
	if err := s.responses.Create(r.Context(), response); err != nil {
		log.Error().Err(err).Str("surveyId", id).Msg("Failed to store response")
		writeError(w, http.StatusInternalServerError, "failed to store response")
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// handleListResponses lists stored responses for a survey in submission
// order.
//
//	@Summary	List responses
//	@Tags		responses
//	@Produce	json
//	@Param		surveyID	path		string	true	"Survey ID"
//	@Param		limit		query		int		false	"Maximum responses returned"
//	@Success	200			{array}		models.Response
//	@Failure	404			{object}	errorResponse
//	@Router		/api/surveys/{surveyID}/responses [get]
func (s *Service) handleListResponses(w http.ResponseWriter, r *http.Request) {
	id, ok := surveyID(w, r)
	if !ok {
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

	limit := gorm.DefaultResponseFetchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if n > maxResponseListLimit {
				n = maxResponseListLimit
			}
			limit = n
		}
	}

	responses, err := s.responses.ListForSurvey(r.Context(), id, limit)
	if err != nil {
		log.Error().Err(err).Str("surveyId", id).Msg("Failed to list responses")
		writeError(w, http.StatusInternalServerError, "failed to list responses")
		return
	}
	writeJSON(w, http.StatusOK, responses)
}
