// Package editing applies operator corrections to persisted grouping
// documents.
//
// Rename and MoveAnswer are read-modify-write cycles against one
// survey's GroupedResult, so the editor serializes them two ways: a
// per-survey lock keeps well-behaved editors from colliding at all, and
// the version-checked write in the store catches anything the lock
// missed, such as a pipeline run replacing the document mid-edit. On a
// version conflict the editor re-reads and re-applies the edit before
// giving up.
package editing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thebtf/collate/internal/db/gorm"
	"github.com/thebtf/collate/internal/locks"
	"github.com/thebtf/collate/pkg/grouping"
	"github.com/thebtf/collate/pkg/models"
)

// ErrResultNotFound is returned when a survey has no grouping document
// to edit, either because it was never processed or because it was
// deleted.
var ErrResultNotFound = errors.New("grouped result not found")

const (
	// maxAttempts bounds how often an edit is re-applied after losing a
	// version race before the conflict is reported to the caller.
	maxAttempts = 3

	// editLockTTL caps how long a crashed editor can hold a survey.
	editLockTTL = 10 * time.Second
)

// Notifier receives a callback after an edited document is persisted.
type Notifier interface {
	ResultsChanged(surveyID string)
}

// Editor applies rename and move edits to stored grouping documents.
type Editor struct {
	results  *gorm.ResultStore
	locker   locks.Locker
	notifier Notifier
}

// NewEditor creates an Editor. The locker is required; notifier may be
// nil.
func NewEditor(results *gorm.ResultStore, locker locks.Locker, notifier Notifier) *Editor {
	return &Editor{results: results, locker: locker, notifier: notifier}
}

// Rename changes the canonical name of a group in the survey's stored
// document and returns the updated document. Fails with
// grouping.ErrGroupNotFound when no group carries currentName and with
// grouping.ErrNameConflict when newName already names a different
// group; neither failure writes anything.
func (e *Editor) Rename(ctx context.Context, surveyID, currentName, newName string) (*models.GroupedResult, error) {
	return e.apply(ctx, surveyID, func(doc *models.GroupedResult) error {
		return grouping.Rename(doc, currentName, newName)
	})
}

// MoveAnswer moves one occurrence of answerText between two groups in
// the survey's stored document and returns the updated document. Fails
// with grouping.ErrGroupNotFound or grouping.ErrAnswerNotFound before
// anything is written.
func (e *Editor) MoveAnswer(ctx context.Context, surveyID, answerText, sourceName, destName string) (*models.GroupedResult, error) {
	return e.apply(ctx, surveyID, func(doc *models.GroupedResult) error {
		return grouping.MoveAnswer(doc, answerText, sourceName, destName)
	})
}

// apply runs one edit under the survey's lock: read the current
// document, let edit mutate it, write it back guarded by the version it
// was read at. A lost version race re-reads and re-applies; edit must
// therefore be safe to call more than once.
func (e *Editor) apply(ctx context.Context, surveyID string, edit func(*models.GroupedResult) error) (*models.GroupedResult, error) {
	release, err := e.locker.Acquire(ctx, surveyID, editLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to lock survey %s: %w", surveyID, err)
	}
	defer release()

	for attempt := 1; ; attempt++ {
		doc, err := e.results.Get(ctx, surveyID)
		if err != nil {
			return nil, fmt.Errorf("failed to load grouped result: %w", err)
		}
		if doc == nil {
			return nil, fmt.Errorf("survey %s: %w", surveyID, ErrResultNotFound)
		}

		if err := edit(doc); err != nil {
			return nil, err
		}

		err = e.results.UpdateWithVersion(ctx, doc)
		if err == nil {
			if e.notifier != nil {
				e.notifier.ResultsChanged(surveyID)
			}
			return doc, nil
		}
		if !errors.Is(err, gorm.ErrVersionConflict) {
			return nil, fmt.Errorf("failed to persist edit: %w", err)
		}
		if attempt >= maxAttempts {
			return nil, fmt.Errorf("survey %s: edit lost %d version races: %w", surveyID, attempt, gorm.ErrVersionConflict)
		}

		log.Debug().
			Str("surveyId", surveyID).
			Int("attempt", attempt).
			Msg("Edit hit a version conflict, re-applying")
	}
}
