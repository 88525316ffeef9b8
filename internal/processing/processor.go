// Package processing runs the grouping pipeline: load a survey's
// responses, cluster them under a profile, and persist the resulting
// document. Runs are independent per survey and safe to execute in
// parallel across workers.
package processing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/collate/internal/db/gorm"
	"github.com/thebtf/collate/internal/profiles"
	"github.com/thebtf/collate/pkg/grouping"
	"github.com/thebtf/collate/pkg/models"
)

// ErrSurveyNotFound is returned by Process when the survey no longer
// exists. Nothing is persisted in that case.
var ErrSurveyNotFound = errors.New("survey not found")

// Notifier receives a callback after a grouped result is persisted.
// The SSE broadcaster implements it on the API side.
type Notifier interface {
	ResultsChanged(surveyID string)
}

// Options tunes a single pipeline run. Zero values defer entirely to
// the named profile (or the default profile when Profile is empty).
type Options struct {
	Profile         string
	Threshold       *int
	RemoveStopwords *bool
}

// Config wires a Processor. Surveys, Responses, Results and Profiles
// are required; Notifier is optional.
type Config struct {
	Surveys    *gorm.SurveyStore
	Responses  *gorm.ResponseStore
	Results    *gorm.ResultStore
	Profiles   *profiles.Registry
	FetchLimit int
	Notifier   Notifier
}

// Processor executes grouping runs.
type Processor struct {
	surveys    *gorm.SurveyStore
	responses  *gorm.ResponseStore
	results    *gorm.ResultStore
	profiles   *profiles.Registry
	fetchLimit int
	notifier   Notifier
	metrics    *pipelineMetrics
}

// NewProcessor creates a Processor from the given wiring.
func NewProcessor(cfg Config) *Processor {
	fetchLimit := cfg.FetchLimit
	if fetchLimit <= 0 {
		fetchLimit = gorm.DefaultResponseFetchLimit
	}
	return &Processor{
		surveys:    cfg.Surveys,
		responses:  cfg.Responses,
		results:    cfg.Results,
		profiles:   cfg.Profiles,
		fetchLimit: fetchLimit,
		notifier:   cfg.Notifier,
		metrics:    newPipelineMetrics(),
	}
}

// Process runs the pipeline for one survey and returns the persisted
// document. Failures while reading responses or clustering degrade to
// a failed document, which is still persisted; only a missing survey
// or a failed upsert return an error with nothing written.
//
// Identical stored responses and options produce an identical document
// apart from processing_time_utc and version.
func (p *Processor) Process(ctx context.Context, surveyID string, opts Options) (*models.GroupedResult, error) {
	start := time.Now()

	survey, err := p.surveys.Get(ctx, surveyID)
	if err != nil {
		return p.persist(ctx, grouping.FailedResult(surveyID, fmt.Errorf("failed to load survey: %w", err)), start)
	}
	if survey == nil {
		return nil, fmt.Errorf("survey %s: %w", surveyID, ErrSurveyNotFound)
	}

	clusterer, err := p.clustererFor(opts)
	if err != nil {
		return p.persist(ctx, grouping.FailedResult(surveyID, err), start)
	}

	responses, err := p.responses.ListForSurvey(ctx, surveyID, p.fetchLimit)
	if err != nil {
		return p.persist(ctx, grouping.FailedResult(surveyID, fmt.Errorf("failed to load responses: %w", err)), start)
	}

	answers := make([]string, 0, len(responses))
	for _, r := range responses {
		answers = append(answers, r.AnswerText)
	}

	return p.persist(ctx, p.groupAnswers(surveyID, answers, clusterer), start)
}

// groupAnswers clusters and assembles, converting a panic inside the
// engine into a failed document instead of taking the worker down.
func (p *Processor) groupAnswers(surveyID string, answers []string, clusterer *grouping.Clusterer) (result *models.GroupedResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("surveyId", surveyID).
				Interface("panic", r).
				Msg("Grouping engine panicked")
			result = grouping.FailedResult(surveyID, fmt.Errorf("grouping failed: %v", r))
		}
	}()

	groups, skipped := clusterer.Cluster(answers)
	return grouping.AssembleResult(surveyID, groups, skipped)
}

// clustererFor resolves the profile and applies per-run overrides.
func (p *Processor) clustererFor(opts Options) (*grouping.Clusterer, error) {
	profile, err := p.profiles.Resolve(opts.Profile)
	if err != nil {
		return nil, err
	}

	if opts.Threshold != nil || opts.RemoveStopwords != nil {
		override := *profile
		if opts.Threshold != nil {
			override.Threshold = *opts.Threshold
		}
		if opts.RemoveStopwords != nil {
			override.RemoveStopwords = *opts.RemoveStopwords
		}
		profile = &override
	}

	return profile.Clusterer(), nil
}

func (p *Processor) persist(ctx context.Context, result *models.GroupedResult, start time.Time) (*models.GroupedResult, error) {
	if err := p.results.Upsert(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to persist grouped result: %w", err)
	}

	elapsed := time.Since(start)
	p.metrics.observeRun(ctx, result, elapsed)
	log.Info().
		Str("surveyId", result.SurveyID).
		Str("status", string(result.Status)).
		Int("groupCount", len(result.GroupedAnswers)).
		Int("answerCount", result.TotalAnswers()).
		Dur("durationMs", elapsed).
		Msg("Survey processed")

	if p.notifier != nil {
		p.notifier.ResultsChanged(result.SurveyID)
	}
	return result, nil
}
