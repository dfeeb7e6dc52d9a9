// Package client talks to the remote study-quiz API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SAP-F-2025/study-quiz-client/internal/models"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("rejected by quiz API")
	ErrNetwork    = errors.New("quiz API unreachable")
)

// APIError carries the status and message the quiz API answered with. It
// unwraps to ErrNotFound, ErrValidation or ErrNetwork.
type APIError struct {
	Op      string
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// QuizAPI is the collaborator contract consumed by the quiz session core.
type QuizAPI interface {
	FetchQuiz(ctx context.Context, quizID string) (*models.Quiz, error)
	SubmitAnswers(ctx context.Context, submission *models.Submission) (*models.QuizResult, error)
	RegenerateFromNote(ctx context.Context, noteID string) (*models.Quiz, error)
	FetchSourceDocument(ctx context.Context, quizID string) (*models.SourceDocument, error)
	GenerateQuiz(ctx context.Context, fileID string, options models.GenerationOptions) (*models.Quiz, error)
}

type HTTPQuizAPI struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPQuizAPI(baseURL string, timeout time.Duration) *HTTPQuizAPI {
	return &HTTPQuizAPI{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (a *HTTPQuizAPI) FetchQuiz(ctx context.Context, quizID string) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := a.do(ctx, "fetch quiz", http.MethodGet, "/quiz/"+url.PathEscape(quizID), nil, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (a *HTTPQuizAPI) SubmitAnswers(ctx context.Context, submission *models.Submission) (*models.QuizResult, error) {
	var result models.QuizResult
	if err := a.do(ctx, "submit answers", http.MethodPost, "/quiz/submit", submission, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *HTTPQuizAPI) RegenerateFromNote(ctx context.Context, noteID string) (*models.Quiz, error) {
	body := map[string]string{"noteId": noteID}
	var quiz models.Quiz
	if err := a.do(ctx, "regenerate from note", http.MethodPost, "/quiz/regenerate-from-note", body, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (a *HTTPQuizAPI) FetchSourceDocument(ctx context.Context, quizID string) (*models.SourceDocument, error) {
	var doc models.SourceDocument
	if err := a.do(ctx, "fetch source document", http.MethodGet, "/quiz/"+url.PathEscape(quizID)+"/source-document", nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (a *HTTPQuizAPI) GenerateQuiz(ctx context.Context, fileID string, options models.GenerationOptions) (*models.Quiz, error) {
	body := struct {
		FileID  string                   `json:"fileId"`
		Options models.GenerationOptions `json:"options"`
	}{FileID: fileID, Options: options}

	var quiz models.Quiz
	if err := a.do(ctx, "generate quiz", http.MethodPost, "/quiz/generate", body, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (a *HTTPQuizAPI) do(ctx context.Context, op, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := BearerToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return &APIError{Op: op, Message: err.Error(), kind: ErrNetwork}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(op, resp)
	}
	if resp.StatusCode == http.StatusNoContent || dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &APIError{Op: op, Status: resp.StatusCode, Message: "malformed response body", kind: ErrNetwork}
	}
	return nil
}

func newStatusError(op string, resp *http.Response) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload)

	message := payload.Message
	if message == "" {
		message = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
	}

	return NewAPIError(op, resp.StatusCode, message)
}

// NewAPIError classifies a failed call by status. A zero status means the
// request never got an answer.
func NewAPIError(op string, status int, message string) *APIError {
	kind := ErrNetwork
	switch status {
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = ErrValidation
	}
	return &APIError{Op: op, Status: status, Message: message, kind: kind}
}

type tokenKey struct{}

// WithBearerToken attaches the learner's token to ctx for forwarding upstream.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func BearerToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
