package models

// Attempt maps a question id to the answer currently selected or typed for it.
type Attempt map[string]string

// Clone returns an independent copy of the attempt.
func (a Attempt) Clone() Attempt {
	out := make(Attempt, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

type AnswerPair struct {
	QuestionID     string `json:"questionId"`
	SelectedAnswer string `json:"selectedAnswer"`
}

type Submission struct {
	QuizID  string       `json:"quizId" validate:"required"`
	Answers []AnswerPair `json:"answers"`
}

type QuizResult struct {
	ID                string  `json:"id" validate:"required"`
	Score             int     `json:"score" validate:"min=0,max=100"`
	CorrectQuestions  int     `json:"correctQuestions" validate:"min=0,ltefield=TotalQuestions"`
	TotalQuestions    int     `json:"totalQuestions" validate:"min=0"`
	WrongAnswerNoteID *string `json:"wrongAnswerNoteId"`
}

// NoteID returns the wrong-answer note id or "" when the result has none.
func (r *QuizResult) NoteID() string {
	if r.WrongAnswerNoteID == nil {
		return ""
	}
	return *r.WrongAnswerNoteID
}
