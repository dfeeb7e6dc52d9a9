package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/study-quiz-client/internal/client"
	"github.com/SAP-F-2025/study-quiz-client/internal/models"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
	"github.com/SAP-F-2025/study-quiz-client/internal/validator"
)

// QuizService creates new quizzes, either from an uploaded file or from a
// wrong-answer note.
type QuizService interface {
	Generate(ctx context.Context, fileID string, options models.GenerationOptions) (*QuizCreated, error)
	RegenerateFromNote(ctx context.Context, noteID string) (*QuizCreated, error)
}

// QuizCreated carries the new quiz and where the browser should go to take it.
type QuizCreated struct {
	Quiz       *models.Quiz `json:"quiz"`
	Navigation *Navigation  `json:"navigation"`
}

type quizService struct {
	api       client.QuizAPI
	events    QuizEventService
	logger    utils.Logger
	validator *validator.Validator
}

func NewQuizService(api client.QuizAPI, events QuizEventService, logger utils.Logger, validator *validator.Validator) QuizService {
	return &quizService{
		api:       api,
		events:    events,
		logger:    logger,
		validator: validator,
	}
}

func (s *quizService) Generate(ctx context.Context, fileID string, options models.GenerationOptions) (*QuizCreated, error) {
	if fileID == "" {
		return nil, NewValidationError("file_id", "is required", fileID)
	}
	if err := s.validator.Validate(&options); err != nil {
		return nil, err
	}

	s.logger.Info("Generating quiz", "file_id", fileID, "question_count", options.QuestionCount, "difficulty", options.Difficulty)

	quiz, err := s.api.GenerateQuiz(ctx, fileID, options)
	if err != nil {
		return nil, fmt.Errorf("failed to generate quiz from file %s: %w", fileID, err)
	}
	if err := s.validator.Validate(quiz); err != nil {
		return nil, err
	}

	return &QuizCreated{Quiz: quiz, Navigation: &Navigation{Path: QuizPath(quiz.ID)}}, nil
}

func (s *quizService) RegenerateFromNote(ctx context.Context, noteID string) (*QuizCreated, error) {
	if noteID == "" {
		return nil, NewValidationError("note_id", "is required", noteID)
	}

	s.logger.Info("Regenerating quiz from wrong-answer note", "note_id", noteID)

	quiz, err := s.api.RegenerateFromNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoteNotFound, noteID)
		}
		return nil, fmt.Errorf("failed to regenerate quiz from note %s: %w", noteID, err)
	}
	if err := s.validator.Validate(quiz); err != nil {
		return nil, err
	}

	if err := s.events.NotifyQuizRegenerated(ctx, noteID, quiz); err != nil {
		s.logger.Warn("Quiz regenerated event not published", "note_id", noteID, "error", err)
	}

	return &QuizCreated{Quiz: quiz, Navigation: &Navigation{Path: QuizPath(quiz.ID)}}, nil
}
