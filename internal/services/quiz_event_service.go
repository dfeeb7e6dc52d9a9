package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/study-quiz-client/internal/events"
	"github.com/SAP-F-2025/study-quiz-client/internal/models"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
)

// QuizEventService publishes quiz lifecycle events. Callers treat failures as
// non-fatal: the learner's flow never waits on the event stream.
type QuizEventService interface {
	NotifyQuizSubmitted(ctx context.Context, tabID string, quiz *models.Quiz, answered int, result *models.QuizResult, handoffSaved bool) error
	NotifyQuizRegenerated(ctx context.Context, noteID string, quiz *models.Quiz) error
	NotifyReviewReconstructed(ctx context.Context, tabID string, view *models.ReviewView) error
}

type quizEventService struct {
	eventPublisher events.EventPublisher
	logger         utils.Logger
}

func NewQuizEventService(eventPublisher events.EventPublisher, logger utils.Logger) QuizEventService {
	return &quizEventService{
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *quizEventService) NotifyQuizSubmitted(ctx context.Context, tabID string, quiz *models.Quiz, answered int, result *models.QuizResult, handoffSaved bool) error {
	s.logger.Debug("Publishing quiz submitted event", "quiz_id", quiz.ID, "result_id", result.ID)

	event := events.NewQuizEvent(events.EventQuizSubmitted, tabID, events.QuizSubmittedEvent{
		QuizID:    quiz.ID,
		ResultID:  result.ID,
		Score:     result.Score,
		Correct:   result.CorrectQuestions,
		Total:     result.TotalQuestions,
		Answered:  answered,
		Questions: len(quiz.Questions),
		NoteID:    result.NoteID(),
		Handoff:   handoffSaved,
	})
	return s.publish(ctx, event)
}

func (s *quizEventService) NotifyQuizRegenerated(ctx context.Context, noteID string, quiz *models.Quiz) error {
	s.logger.Debug("Publishing quiz regenerated event", "note_id", noteID, "quiz_id", quiz.ID)

	event := events.NewQuizEvent(events.EventQuizRegenerated, "", events.QuizRegeneratedEvent{
		NoteID:    noteID,
		QuizID:    quiz.ID,
		Questions: len(quiz.Questions),
	})
	return s.publish(ctx, event)
}

func (s *quizEventService) NotifyReviewReconstructed(ctx context.Context, tabID string, view *models.ReviewView) error {
	event := events.NewQuizEvent(events.EventReviewReconstructed, tabID, events.ReviewReconstructedEvent{
		ResultID: view.ResultID,
		QuizID:   view.QuizID,
		Path:     view.Path,
		Rows:     len(view.Rows),
	})
	return s.publish(ctx, event)
}

func (s *quizEventService) publish(ctx context.Context, event *events.QuizEvent) error {
	if err := s.eventPublisher.PublishQuizEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish quiz event", "event_type", event.Type, "error", err)
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}
