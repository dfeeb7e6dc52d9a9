package services

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/study-quiz-client/internal/handoff"
	"github.com/SAP-F-2025/study-quiz-client/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockQuizAPI is a mock implementation of client.QuizAPI
type MockQuizAPI struct {
	mock.Mock
}

func (m *MockQuizAPI) FetchQuiz(ctx context.Context, quizID string) (*models.Quiz, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockQuizAPI) SubmitAnswers(ctx context.Context, submission *models.Submission) (*models.QuizResult, error) {
	args := m.Called(ctx, submission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizResult), args.Error(1)
}

func (m *MockQuizAPI) RegenerateFromNote(ctx context.Context, noteID string) (*models.Quiz, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockQuizAPI) FetchSourceDocument(ctx context.Context, quizID string) (*models.SourceDocument, error) {
	args := m.Called(ctx, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SourceDocument), args.Error(1)
}

func (m *MockQuizAPI) GenerateQuiz(ctx context.Context, fileID string, options models.GenerationOptions) (*models.Quiz, error) {
	args := m.Called(ctx, fileID, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

// failingHandoffs refuses every write and never finds anything
type failingHandoffs struct{}

func (failingHandoffs) ForTab(string) handoff.Store { return failingStore{} }

func (failingHandoffs) Clear(context.Context, string) error { return errors.New("storage disabled") }

type failingStore struct{}

func (failingStore) Put(context.Context, string, *models.Quiz, models.Attempt) error {
	return errors.New("quota exceeded")
}

func (failingStore) Get(context.Context, string) (*handoff.Record, bool) { return nil, false }

func strPtr(s string) *string { return &s }

func threeQuestionQuiz() *models.Quiz {
	return &models.Quiz{
		ID:    "quiz-1",
		Title: "미적분 기초",
		Questions: []models.Question{
			{ID: "q1", Page: 2, Type: models.MultipleChoice, Prompt: "d/dx sin(x)?", Options: []string{"cos(x)", "-cos(x)", "sin(x)"}, Answer: "cos(x)", Explanation: "derivative of sine"},
			{ID: "q2", Page: 0, Type: models.TrueFalse, Prompt: "e is rational", Options: []string{"O", "X"}, Answer: "X"},
			{ID: "q3", Page: 5, Type: models.ShortAnswer, Prompt: "integral of 1/x", Answer: "ln|x|"},
		},
	}
}
