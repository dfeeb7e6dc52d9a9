// Package attempt holds the in-progress answers of one quiz-taking session.
package attempt

import "github.com/SAP-F-2025/study-quiz-client/internal/models"

// Tracker records answers for the active attempt. It performs no validation of
// answer shape; callers check answers against the question before recording.
// A Tracker is not safe for concurrent use; the owning view serialises access.
type Tracker struct {
	answers models.Attempt
}

func NewTracker() *Tracker {
	return &Tracker{answers: make(models.Attempt)}
}

// Record inserts or overwrites the answer for questionID.
func (t *Tracker) Record(questionID, answer string) {
	t.answers[questionID] = answer
}

// CurrentAnswer returns the stored answer; ok is false while the question is unanswered.
func (t *Tracker) CurrentAnswer(questionID string) (answer string, ok bool) {
	answer, ok = t.answers[questionID]
	return answer, ok
}

// Len is the number of answered questions.
func (t *Tracker) Len() int {
	return len(t.answers)
}

// Snapshot returns a copy of the raw answer map.
func (t *Tracker) Snapshot() models.Attempt {
	return t.answers.Clone()
}

// Project orders the answered questions of attempt by the quiz's question order.
// Unanswered questions are omitted, as are keys that do not belong to the quiz.
func Project(quiz *models.Quiz, attempt models.Attempt) []models.AnswerPair {
	pairs := make([]models.AnswerPair, 0, len(attempt))
	for _, q := range quiz.Questions {
		if answer, ok := attempt[q.ID]; ok {
			pairs = append(pairs, models.AnswerPair{QuestionID: q.ID, SelectedAnswer: answer})
		}
	}
	return pairs
}
