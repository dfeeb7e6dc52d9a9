package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SAP-F-2025/study-quiz-client/internal/client"
	"github.com/SAP-F-2025/study-quiz-client/internal/events"
	"github.com/SAP-F-2025/study-quiz-client/internal/handoff"
	"github.com/SAP-F-2025/study-quiz-client/internal/middleware"
	"github.com/SAP-F-2025/study-quiz-client/internal/models"
	"github.com/SAP-F-2025/study-quiz-client/internal/services"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
	"github.com/SAP-F-2025/study-quiz-client/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

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

func sampleQuiz() *models.Quiz {
	return &models.Quiz{
		ID:      "quiz-1",
		Title:   "삼각함수",
		PdfInfo: &models.SourceDocument{URL: "https://files.example.com/trig.pdf", FileName: "trig.pdf"},
		Questions: []models.Question{
			{ID: "q1", Page: 3, Type: models.MultipleChoice, Prompt: "d/dx sin(x)?", Options: []string{"cos(x)", "-cos(x)"}, Answer: "cos(x)"},
			{ID: "q2", Page: 4, Type: models.TrueFalse, Prompt: "sin(0) = 1", Options: []string{"O", "X"}, Answer: "X"},
			{ID: "q3", Page: 0, Type: models.FillInBlank, Prompt: "cos(0) = ___", Answer: "1"},
		},
	}
}

type testServer struct {
	router *gin.Engine
	api    *MockQuizAPI
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithVerifier(t, nil)
}

func newTestServerWithVerifier(t *testing.T, verifier middleware.TokenVerifier) *testServer {
	t.Helper()
	logger := utils.NewDiscardLogger()
	api := new(MockQuizAPI)
	handoffs := handoff.NewManager(handoff.NewMemoryMedium(32), time.Hour, logger)
	publisher := events.NewMockEventPublisher(utils.ToSlogLogger(logger))
	v := validator.New()

	manager := services.NewServiceManager(api, handoffs, publisher, logger, v)
	router := gin.New()
	NewHandlerManager(manager, v, verifier, logger).SetupRoutes(router)
	return &testServer{router: router, api: api}
}

func (s *testServer) do(t *testing.T, method, path, tab string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return s.doAs(t, "learner-token", method, path, tab, body)
}

func (s *testServer) doAs(t *testing.T, token, method, path, tab string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if tab != "" {
		req.Header.Set("X-Tab-Session", tab)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestQuizFlow_SubmitAndReview(t *testing.T) {
	s := newTestServer(t)
	s.api.On("FetchQuiz", mock.Anything, "quiz-1").Return(sampleQuiz(), nil)

	w := s.do(t, http.MethodGet, "/api/v1/quizzes/quiz-1", "tab-1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPut, "/api/v1/quizzes/quiz-1/answers/q1", "tab-1", gin.H{"answer": "cos(x)"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(t, http.MethodPut, "/api/v1/quizzes/quiz-1/answers/q3", "tab-1", gin.H{"answer": " 2 "})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var progress services.Progress
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &progress))
	assert.Equal(t, 2, progress.Answered)
	assert.Equal(t, 3, progress.Total)

	// Partial attempt without confirmation
	w = s.do(t, http.MethodPost, "/api/v1/quizzes/quiz-1/submit", "tab-1", gin.H{"confirm_incomplete": false})
	require.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.Contains(t, w.Body.String(), `"answered":2`)
	assert.Contains(t, w.Body.String(), `"total":3`)
	s.api.AssertNotCalled(t, "SubmitAnswers", mock.Anything, mock.Anything)

	w = s.do(t, http.MethodGet, "/api/v1/quizzes/quiz-1/answers", "tab-1", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &progress))
	assert.Equal(t, 2, progress.Answered, "declined submit leaves the attempt")

	s.api.On("SubmitAnswers", mock.MatchedBy(func(ctx context.Context) bool {
		return client.BearerToken(ctx) == "learner-token"
	}), mock.MatchedBy(func(sub *models.Submission) bool {
		return len(sub.Answers) == 2 && sub.Answers[0].QuestionID == "q1" && sub.Answers[1].QuestionID == "q3"
	})).Return(&models.QuizResult{ID: "result-7", Score: 33, CorrectQuestions: 1, TotalQuestions: 3, WrongAnswerNoteID: strPtr("note-3")}, nil).Once()

	w = s.do(t, http.MethodPost, "/api/v1/quizzes/quiz-1/submit", "tab-1", gin.H{"confirm_incomplete": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var nav NavigationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nav))
	assert.Equal(t, "/result/result-7", nav.Path)
	assert.Equal(t, nav.Location, w.Header().Get("Location"))
	require.NotNil(t, nav.Params)
	assert.Equal(t, "quiz-1", nav.Params.QuizID)
	assert.Equal(t, "note-3", nav.Params.NoteID)

	// The submitted attempt is gone; a repeated submit is not scored again
	w = s.do(t, http.MethodPost, "/api/v1/quizzes/quiz-1/submit", "tab-1", gin.H{"confirm_incomplete": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "QUIZ_NOT_OPEN")
	s.api.AssertNumberOfCalls(t, "SubmitAnswers", 1)

	// Review on the same tab takes the fast path
	query := nav.Location[strings.Index(nav.Location, "?"):]
	w = s.do(t, http.MethodGet, "/api/v1/results/result-7"+query, "tab-1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view models.ReviewView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, models.ReviewPathHandoff, view.Path)
	assert.True(t, view.CanRegenerate)
	require.Len(t, view.Rows, 3)
	assert.Equal(t, "cos(x)", *view.Rows[0].UserAnswer)
	assert.True(t, *view.Rows[0].Correct)
	assert.Equal(t, "https://files.example.com/trig.pdf#page=3", view.Rows[0].SourceLink)
	assert.Nil(t, view.Rows[1].UserAnswer)
	assert.False(t, *view.Rows[2].Correct)

	// Another tab has no handoff record and re-fetches
	w = s.do(t, http.MethodGet, "/api/v1/results/result-7"+query, "tab-2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var refetched models.ReviewView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refetched))
	assert.Equal(t, models.ReviewPathRefetch, refetched.Path)
	require.Len(t, refetched.Rows, 3)
	for _, row := range refetched.Rows {
		assert.Nil(t, row.UserAnswer)
		assert.Nil(t, row.Correct)
	}

	// Export reuses the reconstruction
	w = s.do(t, http.MethodGet, "/api/v1/results/result-7/export"+query, "tab-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())

	// Closing the tab drops its handoff records
	w = s.do(t, http.MethodDelete, "/api/v1/session", "tab-1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, "/api/v1/results/result-7"+query, "tab-1", nil)
	var afterClose models.ReviewView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &afterClose))
	assert.Equal(t, models.ReviewPathRefetch, afterClose.Path)
}

func TestReview_HandoffScopedByUser(t *testing.T) {
	s := newTestServerWithVerifier(t, middleware.NewHMACVerifier("s3cret"))
	s.api.On("FetchQuiz", mock.Anything, "quiz-1").Return(sampleQuiz(), nil)
	s.api.On("SubmitAnswers", mock.Anything, mock.Anything).
		Return(&models.QuizResult{ID: "result-8", Score: 100, CorrectQuestions: 3, TotalQuestions: 3}, nil).Once()

	tokenFor := func(subject string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString([]byte("s3cret"))
		require.NoError(t, err)
		return token
	}
	alice, bob := tokenFor("alice"), tokenFor("bob")

	require.Equal(t, http.StatusOK, s.doAs(t, alice, http.MethodGet, "/api/v1/quizzes/quiz-1", "tab-1", nil).Code)
	for id, answer := range map[string]string{"q1": "cos(x)", "q2": "X", "q3": "1"} {
		w := s.doAs(t, alice, http.MethodPut, "/api/v1/quizzes/quiz-1/answers/"+id, "tab-1", gin.H{"answer": answer})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	// Bob presenting Alice's tab id sees no open quiz
	w := s.doAs(t, bob, http.MethodGet, "/api/v1/quizzes/quiz-1/answers", "tab-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.doAs(t, alice, http.MethodPost, "/api/v1/quizzes/quiz-1/submit", "tab-1", gin.H{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var nav NavigationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nav))
	query := nav.Location[strings.Index(nav.Location, "?"):]

	w = s.doAs(t, alice, http.MethodGet, "/api/v1/results/result-8"+query, "tab-1", nil)
	var own models.ReviewView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &own))
	assert.Equal(t, models.ReviewPathHandoff, own.Path)

	w = s.doAs(t, bob, http.MethodGet, "/api/v1/results/result-8"+query, "tab-1", nil)
	var other models.ReviewView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &other))
	assert.Equal(t, models.ReviewPathRefetch, other.Path, "another user never reads the handoff record")
	for _, row := range other.Rows {
		assert.Nil(t, row.UserAnswer)
	}
}

func TestReview_Unavailable(t *testing.T) {
	s := newTestServer(t)
	s.api.On("FetchQuiz", mock.Anything, "result-404").Return(nil, client.NewAPIError("fetch quiz", 404, "퀴즈를 찾을 수 없습니다")).Once()

	w := s.do(t, http.MethodGet, "/api/v1/results/result-404?score=50&correct=1&total=2", "tab-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view models.ReviewView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, models.ReviewPathUnavailable, view.Path)
	require.NotNil(t, view.Unavailable)
	assert.Equal(t, "/dashboard", view.Unavailable.ReturnTo)
	assert.Equal(t, 50, view.Summary.Score)

	s.api.On("FetchQuiz", mock.Anything, "result-404").Return(nil, client.NewAPIError("fetch quiz", 404, "퀴즈를 찾을 수 없습니다")).Once()
	w = s.do(t, http.MethodGet, "/api/v1/results/result-404/export", "tab-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReview_MalformedParams(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/v1/results/result-1?score=high", "tab-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "score")
	s.api.AssertNotCalled(t, "FetchQuiz", mock.Anything, mock.Anything)
}

func TestQuizRoutes_ErrorMapping(t *testing.T) {
	s := newTestServer(t)
	s.api.On("FetchQuiz", mock.Anything, "quiz-1").Return(sampleQuiz(), nil)
	s.api.On("FetchQuiz", mock.Anything, "down").Return(nil, client.NewAPIError("fetch quiz", 503, "HTTP error! status: 503"))

	w := s.do(t, http.MethodGet, "/api/v1/quizzes/quiz-1", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "tab session is required")

	w = s.do(t, http.MethodGet, "/api/v1/quizzes/down", "tab-1", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "HTTP error! status: 503")

	w = s.do(t, http.MethodPut, "/api/v1/quizzes/quiz-1/answers/q1", "tab-1", gin.H{"answer": "cos(x)"})
	assert.Equal(t, http.StatusNotFound, w.Code, "quiz not opened in this tab yet")

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/quizzes/quiz-1", "tab-1", nil).Code)

	w = s.do(t, http.MethodPut, "/api/v1/quizzes/quiz-1/answers/q2", "tab-1", gin.H{"answer": "maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/quizzes/quiz-1/answers/q2", "tab-1", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "answer is required")

	w = s.do(t, http.MethodPut, "/api/v1/quizzes/quiz-1/position", "tab-1", gin.H{"index": 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"current_index":1`)

	w = s.do(t, http.MethodDelete, "/api/v1/quizzes/quiz-1", "tab-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/quizzes/quiz-1/submit", "tab-1", gin.H{"confirm_incomplete": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegenerateFromNote(t *testing.T) {
	s := newTestServer(t)
	regenerated := sampleQuiz()
	regenerated.ID = "quiz-9"
	regenerated.IsRegenerated = true
	s.api.On("RegenerateFromNote", mock.Anything, "note-3").Return(regenerated, nil).Once()

	w := s.do(t, http.MethodPost, "/api/v1/notes/note-3/regenerate", "", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "/quiz/quiz-9", w.Header().Get("Location"))
	assert.Contains(t, w.Body.String(), `"isRegeneratedQuiz":true`)
}

func TestGenerateQuiz_Validation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/quizzes/generate", "", gin.H{"questionCount": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code, "fileId is required")

	w = s.do(t, http.MethodPost, "/api/v1/quizzes/generate", "", gin.H{
		"fileId": "file-1", "questionCount": 3, "types": []string{"객관식"}, "difficulty": "보통",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "questionCount below the minimum")
	s.api.AssertNotCalled(t, "GenerateQuiz", mock.Anything, mock.Anything, mock.Anything)
}

func TestOpenSourceViewer(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/results/result-1/viewer", "tab-1", gin.H{
		"document_url": "doc.pdf#page=2",
		"page":         5,
		"viewer":       gin.H{"src": "doc.pdf#page=5", "reload": 2},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp ViewerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Changed)
	assert.Equal(t, "doc.pdf#page=5", resp.Viewer.Src)
	assert.Equal(t, 3, resp.Viewer.Reload)

	w = s.do(t, http.MethodPost, "/api/v1/results/result-1/viewer", "tab-1", gin.H{"document_url": "doc.pdf", "page": 0})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Changed)
}

func strPtr(s string) *string { return &s }

func TestSubmitQuiz_InconsistentResult(t *testing.T) {
	s := newTestServer(t)
	s.api.On("FetchQuiz", mock.Anything, "quiz-1").Return(sampleQuiz(), nil)
	s.api.On("SubmitAnswers", mock.Anything, mock.Anything).
		Return(&models.QuizResult{ID: "result-9", Score: 20, CorrectQuestions: 1, TotalQuestions: 5}, nil).Once()

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/quizzes/quiz-1", "tab-1", nil).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/v1/quizzes/quiz-1/answers/q1", "tab-1", gin.H{"answer": "cos(x)"}).Code)

	w := s.do(t, http.MethodPost, "/api/v1/quizzes/quiz-1/submit", "tab-1", gin.H{"confirm_incomplete": true})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "consistent_result")

	w = s.do(t, http.MethodPost, "/api/v1/quizzes/quiz-1/submit", "tab-1", gin.H{"confirm_incomplete": true})
	assert.Equal(t, http.StatusNotFound, w.Code, "a scored attempt cannot be resubmitted")
	s.api.AssertNumberOfCalls(t, "SubmitAnswers", 1)
}
