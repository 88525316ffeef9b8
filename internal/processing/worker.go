package processing

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/thebtf/collate/internal/queue"
)

// DefaultWorkers is the pool size when the configuration does not set
// one.
const DefaultWorkers = 2

// dequeueRetryDelay spaces out retries after a transient queue
// failure, such as Redis being briefly unreachable.
const dequeueRetryDelay = time.Second

// Worker consumes grouping jobs from a queue and feeds them to a
// Processor. A pool of goroutines shares one queue; each job is
// handled by exactly one of them.
type Worker struct {
	queue       queue.Queue
	processor   *Processor
	concurrency int
}

// NewWorker creates a worker pool of the given size over the queue.
func NewWorker(q queue.Queue, p *Processor, concurrency int) *Worker {
	if concurrency <= 0 {
		concurrency = DefaultWorkers
	}
	return &Worker{queue: q, processor: p, concurrency: concurrency}
}

// Run consumes jobs until ctx is cancelled. It always returns nil
// after a clean shutdown; job failures are persisted as failed
// documents or left for recovery, never surfaced here.
func (w *Worker) Run(ctx context.Context) error {
	log.Info().Int("workers", w.concurrency).Msg("Worker pool starting")

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < w.concurrency; i++ {
		id := i
		g.Go(func() error {
			w.consume(ctx, id)
			return nil
		})
	}
	err := g.Wait()
	log.Info().Msg("Worker pool stopped")
	return err
}

func (w *Worker) consume(ctx context.Context, id int) {
	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Int("worker", id).Msg("Dequeue failed, retrying")
			select {
			case <-time.After(dequeueRetryDelay):
			case <-ctx.Done():
				return
			}
			continue
		}
		w.handle(ctx, id, job)
	}
}

// handle runs one job. Jobs for deleted surveys are acked and dropped;
// persistence failures leave the job unacked so Recover can requeue it
// after a restart.
func (w *Worker) handle(ctx context.Context, id int, job *queue.Job) {
	log.Debug().
		Str("jobId", job.ID).
		Str("surveyId", job.SurveyID).
		Int("worker", id).
		Msg("Processing job")

	_, err := w.processor.Process(ctx, job.SurveyID, Options{
		Profile:         job.Profile,
		Threshold:       job.Threshold,
		RemoveStopwords: job.RemoveStopwords,
	})
	if err != nil {
		if errors.Is(err, ErrSurveyNotFound) {
			log.Warn().
				Str("jobId", job.ID).
				Str("surveyId", job.SurveyID).
				Msg("Survey vanished before processing, dropping job")
		} else {
			log.Error().
				Err(err).
				Str("jobId", job.ID).
				Str("surveyId", job.SurveyID).
				Msg("Job failed without a persisted result, leaving unacked")
			return
		}
	}

	if err := w.queue.Ack(ctx, job); err != nil {
		log.Warn().Err(err).Str("jobId", job.ID).Msg("Failed to ack job")
	}
}
