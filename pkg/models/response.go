package models

import "time"

// MaxAnswerLength is the longest answer text accepted at intake.
const MaxAnswerLength = 500

// Response represents one participant answer to a survey.
type Response struct {
	ID             int64  `db:"id" json:"id"`
	SurveyID       string `db:"survey_id" json:"survey_id"`
	AnswerText     string `db:"answer_text" json:"answer_text"`
	CreatedAt      string `db:"created_at" json:"created_at"`
	CreatedAtEpoch int64  `db:"created_at_epoch" json:"created_at_epoch"`
}

// NewResponse creates a response with server-side timestamps.
func NewResponse(surveyID, answerText string) *Response {
	now := time.Now().UTC()
	return &Response{
		SurveyID:       surveyID,
		AnswerText:     answerText,
		CreatedAt:      now.Format(time.RFC3339),
		CreatedAtEpoch: now.UnixMilli(),
	}
}
