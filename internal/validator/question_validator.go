package validator

import (
	"fmt"
	"slices"

	"github.com/SAP-F-2025/study-quiz-client/internal/errors"
	"github.com/SAP-F-2025/study-quiz-client/internal/models"
)

// QuestionValidator handles question-specific validation
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuiz checks the structural rules a fetched quiz must satisfy before an
// attempt can be taken on it.
func (v *QuestionValidator) ValidateQuiz(quiz *models.Quiz) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]struct{}, len(quiz.Questions))

	for i, q := range quiz.Questions {
		field := fmt.Sprintf("questions[%d]", i)
		if _, dup := seen[q.ID]; dup {
			errs.Add(field+".id", "unique", "must be unique within the quiz", q.ID)
		}
		seen[q.ID] = struct{}{}

		if q.Type == models.MultipleChoice && len(q.Options) == 0 {
			errs.Add(field+".options", "required", "is required for multiple-choice questions", nil)
		}
	}

	return errs
}

// AnswerFits enforces the type-appropriate shape of an answer: a multiple-choice
// answer must be one of the offered options and a true/false answer must be O or X.
// Free-text answers are accepted as typed.
func (v *QuestionValidator) AnswerFits(question *models.Question, answer string) error {
	switch question.Type {
	case models.MultipleChoice:
		if !slices.Contains(question.Options, answer) {
			return errors.Invalid("answer", "oneof", "must be one of the offered options", answer)
		}
	case models.TrueFalse:
		if !slices.Contains(models.TrueFalseOptions, answer) {
			return errors.Invalid("answer", "oneof", "must be O or X", answer)
		}
	case models.ShortAnswer, models.FillInBlank:
	default:
		return fmt.Errorf("unsupported question type: %s", question.Type)
	}
	return nil
}
