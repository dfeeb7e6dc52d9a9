package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/study-quiz-client/internal/attempt"
	"github.com/SAP-F-2025/study-quiz-client/internal/client"
	"github.com/SAP-F-2025/study-quiz-client/internal/models"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
	"github.com/SAP-F-2025/study-quiz-client/internal/validator"
)

// Confirmer asks the learner whether a partial attempt should be submitted.
type Confirmer interface {
	ConfirmIncomplete(answered, total int) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(answered, total int) bool

func (f ConfirmFunc) ConfirmIncomplete(answered, total int) bool {
	return f(answered, total)
}

// SubmissionService submits the attempt of a tab's open quiz.
type SubmissionService interface {
	Submit(ctx context.Context, tabID, quizID string, confirmer Confirmer) (*Navigation, error)
}

type submissionService struct {
	api       client.QuizAPI
	registry  *ViewRegistry
	handoffs  HandoffStores
	events    QuizEventService
	logger    utils.Logger
	validator *validator.Validator
}

func NewSubmissionService(
	api client.QuizAPI,
	registry *ViewRegistry,
	handoffs HandoffStores,
	events QuizEventService,
	logger utils.Logger,
	validator *validator.Validator,
) SubmissionService {
	return &submissionService{
		api:       api,
		registry:  registry,
		handoffs:  handoffs,
		events:    events,
		logger:    logger,
		validator: validator,
	}
}

// Submit scores the attempt, saves the handoff record and returns the
// navigation to the review view. A partial attempt needs the confirmer's
// consent; without it nothing is sent and the attempt is left as it was.
func (s *submissionService) Submit(ctx context.Context, tabID, quizID string, confirmer Confirmer) (*Navigation, error) {
	view, err := s.registry.Lookup(tabID, quizID)
	if err != nil {
		return nil, err
	}

	snapshot, err := view.beginSubmit()
	if err != nil {
		return nil, err
	}

	quiz := view.Quiz()
	pairs := attempt.Project(quiz, snapshot)
	total := len(quiz.Questions)

	if len(pairs) < total && (confirmer == nil || !confirmer.ConfirmIncomplete(len(pairs), total)) {
		view.endSubmit()
		s.logger.Debug("Partial submission declined", "quiz_id", quizID, "answered", len(pairs), "total", total)
		return nil, &IncompleteAttemptError{Answered: len(pairs), Total: total}
	}

	s.logger.Info("Submitting quiz", "tab_session", tabID, "quiz_id", quizID, "answered", len(pairs), "total", total)

	// The scoring call outlives the request: leaving the view must not cancel it.
	detachedCtx := context.WithoutCancel(ctx)
	result, err := s.api.SubmitAnswers(detachedCtx, &models.Submission{QuizID: quizID, Answers: pairs})
	attached := view.endSubmit()

	if !attached {
		s.logger.Info("Discarding submission response for a view that was left", "quiz_id", quizID, "error", err)
		return nil, ErrViewDetached
	}
	if err != nil {
		s.logger.Warn("Quiz submission failed", "quiz_id", quizID, "error", err)
		return nil, fmt.Errorf("failed to submit quiz %s: %w", quizID, err)
	}
	if err := s.checkResult(result, total); err != nil {
		// Already scored server-side; a retry would record a duplicate result.
		s.registry.Unmount(tabID, quizID)
		s.logger.Warn("Scoring returned an inconsistent result", "quiz_id", quizID, "error", err)
		return nil, err
	}

	handoffSaved := true
	if err := s.handoffs.ForTab(tabID).Put(detachedCtx, quizID, quiz, snapshot); err != nil {
		handoffSaved = false
		s.logger.Warn("Failed to save handoff record; review will re-fetch the quiz", "quiz_id", quizID, "error", err)
	}

	if err := s.events.NotifyQuizSubmitted(detachedCtx, tabID, quiz, len(pairs), result, handoffSaved); err != nil {
		s.logger.Warn("Quiz submitted event not published", "quiz_id", quizID, "error", err)
	}

	// Navigating to the review discards the attempt.
	s.registry.Unmount(tabID, quizID)

	return &Navigation{
		Path: ResultPath(result.ID),
		Params: &ReviewParams{
			Score:   result.Score,
			Correct: result.CorrectQuestions,
			Total:   result.TotalQuestions,
			NoteID:  result.NoteID(),
			QuizID:  quizID,
		},
	}, nil
}

// checkResult rejects a scoring result that contradicts the submitted quiz.
func (s *submissionService) checkResult(result *models.QuizResult, questions int) error {
	if err := s.validator.Validate(result); err != nil {
		return NewBusinessRuleError("consistent_result", "The quiz was scored but the result could not be read", map[string]interface{}{
			"result_id": result.ID,
			"errors":    err.Error(),
		})
	}
	if result.TotalQuestions > questions {
		return NewBusinessRuleError("consistent_result", fmt.Sprintf("The result counts %d questions but the quiz has %d", result.TotalQuestions, questions), map[string]interface{}{
			"result_id":       result.ID,
			"total_questions": result.TotalQuestions,
			"quiz_questions":  questions,
		})
	}
	return nil
}
