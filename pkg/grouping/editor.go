package grouping

import (
	"errors"
	"fmt"

	"github.com/thebtf/collate/pkg/models"
)

// Sentinel errors for edit operations. Callers distinguish them with
// errors.Is.
var (
	// ErrGroupNotFound reports that no group carries the requested
	// canonical name.
	ErrGroupNotFound = errors.New("group not found")

	// ErrAnswerNotFound reports that the source group does not contain
	// the requested answer text.
	ErrAnswerNotFound = errors.New("answer not found in group")

	// ErrNameConflict reports a rename targeting a canonical name that
	// already names a different group.
	ErrNameConflict = errors.New("canonical name already in use")
)

// Rename changes the canonical name of the group currently named
// currentName. Count and raw answers are untouched and the processing
// timestamp is refreshed. Renaming a group to its own current name is a
// permitted no-op; renaming to a name held by a different group fails
// with ErrNameConflict and mutates nothing.
func Rename(result *models.GroupedResult, currentName, newName string) error {
	idx := result.FindGroup(currentName)
	if idx < 0 {
		return fmt.Errorf("group %q: %w", currentName, ErrGroupNotFound)
	}

	if newName != currentName {
		if other := result.FindGroup(newName); other >= 0 && other != idx {
			return fmt.Errorf("group %q: %w", newName, ErrNameConflict)
		}
		result.GroupedAnswers[idx].CanonicalName = newName
	}

	result.Touch()
	return nil
}

// MoveAnswer moves one occurrence of answerText from the group named
// sourceName into the group named destName, creating the destination
// when it does not exist and deleting the source when it empties. All
// validation happens before any mutation, so a failed move leaves the
// document exactly as it was: the answer can never vanish from the
// source without landing in the destination.
func MoveAnswer(result *models.GroupedResult, answerText, sourceName, destName string) error {
	srcIdx := result.FindGroup(sourceName)
	if srcIdx < 0 {
		return fmt.Errorf("source group %q: %w", sourceName, ErrGroupNotFound)
	}

	answerIdx := -1
	for i, raw := range result.GroupedAnswers[srcIdx].RawAnswers {
		if raw == answerText {
			answerIdx = i
			break
		}
	}
	if answerIdx < 0 {
		return fmt.Errorf("answer %q in group %q: %w", answerText, sourceName, ErrAnswerNotFound)
	}

	destIdx := result.FindGroup(destName)
	if destIdx < 0 {
		result.GroupedAnswers = append(result.GroupedAnswers, models.Group{
			CanonicalName: destName,
			Count:         0,
			RawAnswers:    []string{},
		})
		destIdx = len(result.GroupedAnswers) - 1
	}

	src := &result.GroupedAnswers[srcIdx]
	src.RawAnswers = append(src.RawAnswers[:answerIdx], src.RawAnswers[answerIdx+1:]...)
	src.Count--

	dest := &result.GroupedAnswers[destIdx]
	dest.RawAnswers = append(dest.RawAnswers, answerText)
	dest.Count++

	// An emptied source group disappears entirely
	if result.GroupedAnswers[srcIdx].Count == 0 {
		result.GroupedAnswers = append(result.GroupedAnswers[:srcIdx], result.GroupedAnswers[srcIdx+1:]...)
	}

	result.Touch()
	return nil
}
