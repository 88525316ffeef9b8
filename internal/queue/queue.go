// Package queue carries grouping jobs from the API to the workers.
//
// Two implementations exist: LocalQueue for single-process deployments
// and RedisQueue for deployments where workers run separately from the
// API. Both move the same Job payload.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrQueueFull is returned by Enqueue when a bounded queue cannot
// accept more work.
var ErrQueueFull = errors.New("queue full")

// Job describes one grouping run for one survey.
type Job struct {
	ID       string `json:"id"`
	SurveyID string `json:"survey_id"`

	// Profile names a grouping profile. Empty means the default.
	Profile string `json:"profile,omitempty"`

	// Threshold and RemoveStopwords override the profile per job when
	// set. Nil leaves the profile's values in charge.
	Threshold       *int  `json:"threshold,omitempty"`
	RemoveStopwords *bool `json:"remove_stopwords,omitempty"`

	EnqueuedAt string `json:"enqueued_at"`

	// raw holds the serialized payload a Redis consumer dequeued, so
	// Ack can remove exactly that entry from the processing list.
	raw []byte
}

// NewJob creates a job for the given survey with a fresh ID.
func NewJob(surveyID string) *Job {
	return &Job{
		ID:         uuid.NewString(),
		SurveyID:   surveyID,
		EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Queue hands jobs from producers to consumers.
type Queue interface {
	// Enqueue submits a job. Bounded implementations return
	// ErrQueueFull instead of blocking the producer.
	Enqueue(ctx context.Context, job *Job) error

	// Dequeue blocks until a job is available or ctx is done.
	Dequeue(ctx context.Context) (*Job, error)

	// Ack marks a dequeued job as fully processed.
	Ack(ctx context.Context, job *Job) error

	// Depth reports how many jobs are waiting.
	Depth(ctx context.Context) (int64, error)
}
