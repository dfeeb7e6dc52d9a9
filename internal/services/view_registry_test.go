package services

import (
	"testing"

	"github.com/SAP-F-2025/study-quiz-client/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewRegistry_MountDetachesPrevious(t *testing.T) {
	registry := NewViewRegistry()
	first := registry.Mount("tab-1", threeQuestionQuiz())
	other := registry.Mount("tab-2", threeQuestionQuiz())

	second := registry.Mount("tab-1", &models.Quiz{ID: "quiz-2"})

	_, err := first.beginSubmit()
	assert.ErrorIs(t, err, ErrViewDetached)

	_, err = registry.Lookup("tab-1", "quiz-1")
	assert.ErrorIs(t, err, ErrQuizNotOpen)

	found, err := registry.Lookup("tab-1", "quiz-2")
	require.NoError(t, err)
	assert.Same(t, second, found)

	found, err = registry.Lookup("tab-2", "quiz-1")
	require.NoError(t, err)
	assert.Same(t, other, found)
}

func TestViewRegistry_Unmount(t *testing.T) {
	registry := NewViewRegistry()
	view := registry.Mount("tab-1", threeQuestionQuiz())

	assert.False(t, registry.Unmount("tab-1", "quiz-9"))
	assert.True(t, registry.Unmount("tab-1", "quiz-1"))
	assert.False(t, view.endSubmit(), "unmounted view is detached")
}

func TestTakingView_SubmitClaim(t *testing.T) {
	view := newTakingView(threeQuestionQuiz())
	require.NoError(t, view.Record("q2", "O"))

	snapshot, err := view.beginSubmit()
	require.NoError(t, err)
	assert.Equal(t, models.Attempt{"q2": "O"}, snapshot)

	_, err = view.beginSubmit()
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	require.NoError(t, view.Record("q2", "X"))
	assert.Equal(t, "O", snapshot["q2"], "snapshot is independent of later answers")

	assert.True(t, view.endSubmit())
	_, err = view.beginSubmit()
	assert.NoError(t, err)
}
