package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/collate/internal/db/gorm"
	"github.com/thebtf/collate/pkg/models"
)

// Bounds on survey question text.
const (
	minQuestionLength = 5
	maxQuestionLength = 500
)

// maxListLimit caps the limit query parameter on survey listings.
const maxListLimit = 500

// surveyID extracts and validates the surveyID route parameter,
// replying 400 when it is not a UUID.
func surveyID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "surveyID")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid survey id")
		return "", false
	}
	return id, true
}

type createSurveyRequest struct {
	QuestionText     string   `json:"question_text"`
	IsActive         bool     `json:"is_active"`
	ParticipantLimit int      `json:"participant_limit"`
	Tags             []string `json:"tags"`
}

// validQuestion reports whether trimmed question text is within bounds.
func validQuestion(text string) bool {
	n := len(strings.TrimSpace(text))
	return n >= minQuestionLength && n <= maxQuestionLength
}

// handleCreateSurvey creates a survey question.
//
//	@Summary	Create a survey
//	@Tags		surveys
//	@Accept		json
//	@Produce	json
//	@Param		survey	body		createSurveyRequest	true	"Survey definition"
//	@Success	201		{object}	models.Survey
//	@Failure	400		{object}	errorResponse
//	@Router		/api/surveys [post]
func (s *Service) handleCreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req createSurveyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.QuestionText = strings.TrimSpace(req.QuestionText)
	if !validQuestion(req.QuestionText) {
		writeError(w, http.StatusBadRequest, "question_text must be 5 to 500 characters")
		return
	}
	if req.ParticipantLimit < 0 {
		writeError(w, http.StatusBadRequest, "participant_limit must be positive")
		return
	}
	if req.ParticipantLimit == 0 {
		req.ParticipantLimit = s.config.DefaultParticipantLimit
	}

	survey := models.NewSurvey(req.QuestionText, req.IsActive, req.ParticipantLimit, req.Tags)
	if err := s.surveys.Create(r.Context(), survey); err != nil {
		log.Error().Err(err).Msg("Failed to create survey")
		writeError(w, http.StatusInternalServerError, "failed to create survey")
		return
	}

	log.Info().Str("surveyId", survey.ID).Msg("Survey created")
	writeJSON(w, http.StatusCreated, survey)
}

// handleListSurveys lists surveys, newest first.
//
//	@Summary	List surveys
//	@Tags		surveys
//	@Produce	json
//	@Param		offset	query		int		false	"Pagination offset"
//	@Param		limit	query		int		false	"Page size (max 500)"
//	@Param		active	query		bool	false	"Only active surveys"
//	@Success	200		{array}		models.Survey
//	@Failure	400		{object}	errorResponse
//	@Router		/api/surveys [get]
func (s *Service) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
			return
		}
		offset = n
	}

	limit := gorm.DefaultSurveyListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n > maxListLimit {
			n = maxListLimit
		}
		limit = n
	}

	activeOnly := r.URL.Query().Get("active") == "true"

	surveys, err := s.surveys.List(r.Context(), activeOnly, offset, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list surveys")
		writeError(w, http.StatusInternalServerError, "failed to list surveys")
		return
	}
	writeJSON(w, http.StatusOK, surveys)
}

// handleGetSurvey fetches one survey.
//
//	@Summary	Get a survey
//	@Tags		surveys
//	@Produce	json
//	@Param		surveyID	path		string	true	"Survey ID"
//	@Success	200			{object}	models.Survey
//	@Failure	404			{object}	errorResponse
//	@Router		/api/surveys/{surveyID} [get]
func (s *Service) handleGetSurvey(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, survey)
}

// handleUpdateSurvey applies a partial update. An empty body returns
// the current state unchanged.
//
//	@Summary	Update a survey
//	@Tags		surveys
//	@Accept		json
//	@Produce	json
//	@Param		surveyID	path		string				true	"Survey ID"
//	@Param		update		body		models.SurveyUpdate	true	"Fields to change"
//	@Success	200			{object}	models.Survey
//	@Failure	400			{object}	errorResponse
//	@Failure	404			{object}	errorResponse
//	@Router		/api/surveys/{surveyID} [patch]
func (s *Service) handleUpdateSurvey(w http.ResponseWriter, r *http.Request) {
	id, ok := surveyID(w, r)
	if !ok {
		return
	}

	var upd models.SurveyUpdate
	if !decodeBody(w, r, &upd) {
		return
	}

	if upd.QuestionText != nil {
		trimmed := strings.TrimSpace(*upd.QuestionText)
		if !validQuestion(trimmed) {
			writeError(w, http.StatusBadRequest, "question_text must be 5 to 500 characters")
			return
		}
		upd.QuestionText = &trimmed
	}
	if upd.ParticipantLimit != nil && *upd.ParticipantLimit <= 0 {
		writeError(w, http.StatusBadRequest, "participant_limit must be positive")
		return
	}

	survey, err := s.surveys.Update(r.Context(), id, &upd)
	if errors.Is(err, gorm.ErrNotFound) {
		writeError(w, http.StatusNotFound, "survey not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("surveyId", id).Msg("Failed to update survey")
		writeError(w, http.StatusInternalServerError, "failed to update survey")
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

// handleDeleteSurvey deletes a survey together with its responses and
// grouped result.
//
//	@Summary	Delete a survey
//	@Tags		surveys
//	@Param		surveyID	path	string	true	"Survey ID"
//	@Success	204
//	@Failure	404	{object}	errorResponse
//	@Router		/api/surveys/{surveyID} [delete]
func (s *Service) handleDeleteSurvey(w http.ResponseWriter, r *http.Request) {
	id, ok := surveyID(w, r)
	if !ok {
		return
	}

	err := s.surveys.Delete(r.Context(), id)
	if errors.Is(err, gorm.ErrNotFound) {
		writeError(w, http.StatusNotFound, "survey not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("surveyId", id).Msg("Failed to delete survey")
		writeError(w, http.StatusInternalServerError, "failed to delete survey")
		return
	}

	log.Info().Str("surveyId", id).Msg("Survey deleted")
	w.WriteHeader(http.StatusNoContent)
}
