package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/study-quiz-client/internal/client"
	"github.com/SAP-F-2025/study-quiz-client/internal/handoff"
	"github.com/SAP-F-2025/study-quiz-client/internal/models"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
	"github.com/SAP-F-2025/study-quiz-client/internal/validator"
)

// HandoffStores hands out tab-scoped handoff stores. *handoff.Manager
// implements it.
type HandoffStores interface {
	ForTab(tabID string) handoff.Store
	Clear(ctx context.Context, tabID string) error
}

// SessionService drives the quiz-taking view of each tab.
type SessionService interface {
	Open(ctx context.Context, tabID, quizID string) (*TakingState, error)
	Leave(tabID, quizID string) error
	RecordAnswer(tabID, quizID, questionID, answer string) (*Progress, error)
	Progress(tabID, quizID string) (*Progress, error)
	MoveTo(tabID, quizID string, index int) (*Progress, error)
	CloseTab(ctx context.Context, tabID string) error
}

// TakingState is the freshly mounted taking view.
type TakingState struct {
	Quiz     *models.Quiz `json:"quiz"`
	Progress *Progress    `json:"progress"`
}

type sessionService struct {
	api       client.QuizAPI
	registry  *ViewRegistry
	handoffs  HandoffStores
	logger    utils.Logger
	validator *validator.Validator
}

func NewSessionService(api client.QuizAPI, registry *ViewRegistry, handoffs HandoffStores, logger utils.Logger, validator *validator.Validator) SessionService {
	return &sessionService{
		api:       api,
		registry:  registry,
		handoffs:  handoffs,
		logger:    logger,
		validator: validator,
	}
}

// Open fetches the quiz and mounts a fresh attempt on it.
func (s *sessionService) Open(ctx context.Context, tabID, quizID string) (*TakingState, error) {
	s.logger.Info("Opening quiz", "tab_session", tabID, "quiz_id", quizID)

	quiz, err := s.api.FetchQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quiz %s: %w", quizID, err)
	}
	if err := s.validator.Validate(quiz); err != nil {
		s.logger.Warn("Fetched quiz failed validation", "quiz_id", quizID, "error", err)
		return nil, err
	}

	view := s.registry.Mount(tabID, quiz)
	return &TakingState{Quiz: quiz, Progress: view.Progress()}, nil
}

func (s *sessionService) Leave(tabID, quizID string) error {
	if !s.registry.Unmount(tabID, quizID) {
		return ErrQuizNotOpen
	}
	s.logger.Debug("Left quiz", "tab_session", tabID, "quiz_id", quizID)
	return nil
}

func (s *sessionService) RecordAnswer(tabID, quizID, questionID, answer string) (*Progress, error) {
	view, err := s.registry.Lookup(tabID, quizID)
	if err != nil {
		return nil, err
	}

	question, ok := view.Quiz().Question(questionID)
	if !ok {
		return nil, ErrQuestionNotFound
	}
	if err := s.validator.Question().AnswerFits(question, answer); err != nil {
		return nil, err
	}

	if err := view.Record(questionID, answer); err != nil {
		return nil, err
	}
	return view.Progress(), nil
}

func (s *sessionService) Progress(tabID, quizID string) (*Progress, error) {
	view, err := s.registry.Lookup(tabID, quizID)
	if err != nil {
		return nil, err
	}
	return view.Progress(), nil
}

func (s *sessionService) MoveTo(tabID, quizID string, index int) (*Progress, error) {
	view, err := s.registry.Lookup(tabID, quizID)
	if err != nil {
		return nil, err
	}
	view.MoveTo(index)
	return view.Progress(), nil
}

// CloseTab forgets the tab's view and its handoff records.
func (s *sessionService) CloseTab(ctx context.Context, tabID string) error {
	s.registry.DropTab(tabID)
	if err := s.handoffs.Clear(ctx, tabID); err != nil {
		s.logger.Warn("Failed to clear handoff records", "tab_session", tabID, "error", err)
		return err
	}
	s.logger.Info("Closed tab session", "tab_session", tabID)
	return nil
}
