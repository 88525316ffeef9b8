package grouping

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/collate/pkg/models"
)

// editableResult builds a two-group document: dog(2), cat(1).
func editableResult() *models.GroupedResult {
	r := models.NewGroupedResult("survey-1", models.ResultStatusCompleted)
	r.GroupedAnswers = []models.Group{
		{CanonicalName: "dog", Count: 2, RawAnswers: []string{"dog", "Dog!"}},
		{CanonicalName: "cat", Count: 1, RawAnswers: []string{"cat"}},
	}
	return r
}

// snapshot captures the mutable document state for no-mutation checks.
func snapshot(t *testing.T, r *models.GroupedResult) string {
	t.Helper()
	data, err := json.Marshal(r.GroupedAnswers)
	require.NoError(t, err)
	return string(data)
}

func TestRename(t *testing.T) {
	r := editableResult()

	err := Rename(r, "dog", "Dog")

	require.NoError(t, err)
	assert.Equal(t, "Dog", r.GroupedAnswers[0].CanonicalName)
	assert.Equal(t, 2, r.GroupedAnswers[0].Count, "count untouched by rename")
	assert.Equal(t, []string{"dog", "Dog!"}, r.GroupedAnswers[0].RawAnswers, "raw answers untouched by rename")
	assert.Equal(t, "cat", r.GroupedAnswers[1].CanonicalName)
}

func TestRename_GroupNotFound(t *testing.T) {
	r := editableResult()
	before := snapshot(t, r)

	err := Rename(r, "bird", "Bird")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGroupNotFound)
	assert.Equal(t, before, snapshot(t, r), "failed rename mutates nothing")
}

func TestRename_SameNameNoOp(t *testing.T) {
	r := editableResult()

	err := Rename(r, "dog", "dog")

	require.NoError(t, err)
	assert.Equal(t, "dog", r.GroupedAnswers[0].CanonicalName)
}

func TestRename_NameConflict(t *testing.T) {
	r := editableResult()
	before := snapshot(t, r)

	err := Rename(r, "dog", "cat")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNameConflict)
	assert.Equal(t, before, snapshot(t, r), "conflicting rename mutates nothing")
}

func TestMoveAnswer(t *testing.T) {
	r := editableResult()

	err := MoveAnswer(r, "Dog!", "dog", "cat")

	require.NoError(t, err)
	require.Equal(t, 0, r.FindGroup("dog"))
	require.Equal(t, 1, r.FindGroup("cat"))
	assert.Equal(t, 1, r.GroupedAnswers[0].Count)
	assert.Equal(t, []string{"dog"}, r.GroupedAnswers[0].RawAnswers)
	assert.Equal(t, 2, r.GroupedAnswers[1].Count)
	assert.Equal(t, []string{"cat", "Dog!"}, r.GroupedAnswers[1].RawAnswers, "moved answer appends to the destination")
	assert.Equal(t, 3, r.TotalAnswers(), "total answers unchanged by a move")
}

func TestMoveAnswer_EmptiedSourceRemoved(t *testing.T) {
	r := editableResult()

	err := MoveAnswer(r, "cat", "cat", "dog")

	require.NoError(t, err)
	assert.Equal(t, -1, r.FindGroup("cat"), "emptied source group disappears")
	require.Equal(t, 0, r.FindGroup("dog"))
	assert.Equal(t, 3, r.GroupedAnswers[0].Count)
	assert.Equal(t, []string{"dog", "Dog!", "cat"}, r.GroupedAnswers[0].RawAnswers)
}

func TestMoveAnswer_CreatesDestination(t *testing.T) {
	r := editableResult()

	err := MoveAnswer(r, "Dog!", "dog", "puppy")

	require.NoError(t, err)
	idx := r.FindGroup("puppy")
	require.GreaterOrEqual(t, idx, 0, "destination group created on demand")
	assert.Equal(t, 1, r.GroupedAnswers[idx].Count)
	assert.Equal(t, []string{"Dog!"}, r.GroupedAnswers[idx].RawAnswers)
	assert.Equal(t, 1, r.GroupedAnswers[r.FindGroup("dog")].Count)
	assert.Equal(t, 3, r.TotalAnswers())
}

func TestMoveAnswer_SourceNotFound(t *testing.T) {
	r := editableResult()
	before := snapshot(t, r)

	err := MoveAnswer(r, "dog", "bird", "cat")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGroupNotFound)
	assert.Equal(t, before, snapshot(t, r))
}

func TestMoveAnswer_AnswerNotFound(t *testing.T) {
	r := editableResult()
	before := snapshot(t, r)

	err := MoveAnswer(r, "hamster", "dog", "cat")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAnswerNotFound)
	assert.Equal(t, before, snapshot(t, r), "no partial mutation on a failed move")
}

func TestMoveAnswer_SameSourceAndDestination(t *testing.T) {
	r := editableResult()

	err := MoveAnswer(r, "dog", "dog", "dog")

	require.NoError(t, err)
	require.Equal(t, 0, r.FindGroup("dog"))
	assert.Equal(t, 2, r.GroupedAnswers[0].Count, "count stable when source and destination match")
	assert.Equal(t, []string{"Dog!", "dog"}, r.GroupedAnswers[0].RawAnswers, "answer re-appends at the end")
}

func TestMoveAnswer_MovesOneOccurrence(t *testing.T) {
	r := models.NewGroupedResult("survey-1", models.ResultStatusCompleted)
	r.GroupedAnswers = []models.Group{
		{CanonicalName: "dog", Count: 3, RawAnswers: []string{"dog", "dog", "Dog!"}},
		{CanonicalName: "cat", Count: 1, RawAnswers: []string{"cat"}},
	}

	err := MoveAnswer(r, "dog", "dog", "cat")

	require.NoError(t, err)
	assert.Equal(t, 2, r.GroupedAnswers[0].Count, "only the first occurrence moves")
	assert.Equal(t, []string{"dog", "Dog!"}, r.GroupedAnswers[0].RawAnswers)
	assert.Equal(t, []string{"cat", "dog"}, r.GroupedAnswers[1].RawAnswers)
	assert.Equal(t, 4, r.TotalAnswers())
}

func TestEditInvariant_CountMatchesRawAnswers(t *testing.T) {
	r := editableResult()

	require.NoError(t, MoveAnswer(r, "Dog!", "dog", "puppy"))
	require.NoError(t, Rename(r, "puppy", "pup"))
	require.NoError(t, MoveAnswer(r, "dog", "dog", "pup"))

	for _, g := range r.GroupedAnswers {
		assert.Equal(t, g.Count, len(g.RawAnswers), "group %q", g.CanonicalName)
	}
	assert.Equal(t, 3, r.TotalAnswers())
}
