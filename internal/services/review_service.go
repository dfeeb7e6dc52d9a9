package services

import (
	"context"
	"errors"
	"strings"

	"github.com/SAP-F-2025/study-quiz-client/internal/client"
	"github.com/SAP-F-2025/study-quiz-client/internal/models"
	"github.com/SAP-F-2025/study-quiz-client/internal/source"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
	"github.com/SAP-F-2025/study-quiz-client/internal/validator"
)

const (
	msgResultUnavailable = "이 결과를 불러올 수 없습니다."
	msgResultRetry       = "결과를 불러오지 못했습니다. 잠시 후 다시 시도해 주세요."
)

// ReviewService rebuilds the review view after a submission. It prefers the
// tab's handoff record and falls back to re-fetching the quiz, in which case the
// learner's answers are unknown.
type ReviewService interface {
	Reconstruct(ctx context.Context, tabID, resultID string, params ReviewParams, mode models.ReviewMode) (*models.ReviewView, error)
	OpenSource(viewer source.ViewerState, documentURL string, page int) (source.ViewerState, bool)
}

type reviewService struct {
	api       client.QuizAPI
	handoffs  HandoffStores
	events    QuizEventService
	logger    utils.Logger
	validator *validator.Validator
}

func NewReviewService(api client.QuizAPI, handoffs HandoffStores, events QuizEventService, logger utils.Logger, validator *validator.Validator) ReviewService {
	return &reviewService{
		api:       api,
		handoffs:  handoffs,
		events:    events,
		logger:    logger,
		validator: validator,
	}
}

func (s *reviewService) Reconstruct(ctx context.Context, tabID, resultID string, params ReviewParams, mode models.ReviewMode) (*models.ReviewView, error) {
	if resultID == "" {
		return nil, NewValidationError("result_id", "is required", resultID)
	}
	if mode == "" {
		mode = models.ReviewModeResult
	}

	view := &models.ReviewView{
		ResultID: resultID,
		QuizID:   params.QuizID,
		Mode:     mode,
		Summary: models.ReviewSummary{
			Score:   params.Score,
			Correct: params.Correct,
			Total:   params.Total,
			NoteID:  params.NoteID,
		},
		CanRegenerate: params.NoteID != "",
		Rows:          []models.ReviewRow{},
	}

	quiz, answers, path, err := s.resolve(ctx, tabID, resultID, params.QuizID)
	if err != nil {
		view.Path = models.ReviewPathUnavailable
		view.Unavailable = &models.Unavailable{
			Message:   msgResultUnavailable,
			ReturnTo:  DashboardPath,
			Retryable: IsNetwork(err),
		}
		if view.Unavailable.Retryable {
			view.Unavailable.Message = msgResultRetry
		}
		s.logger.Warn("Review unavailable", "result_id", resultID, "quiz_id", params.QuizID, "error", err)
		s.notify(ctx, tabID, view)
		return view, nil
	}

	view.Path = path
	view.QuizID = quiz.ID
	view.Title = quiz.Title
	view.IsRegenerated = quiz.IsRegenerated
	view.WeaknessAnalysis = quiz.WeaknessAnalysis
	view.Document = s.sourceDocument(ctx, quiz)
	view.Rows = buildRows(quiz, answers, view.Document)

	s.logger.Info("Review reconstructed", "result_id", resultID, "quiz_id", quiz.ID, "path", path)
	s.notify(ctx, tabID, view)
	return view, nil
}

// resolve runs the two-tier lookup: handoff record first, then the quiz API.
// answers is nil on the fallback path.
func (s *reviewService) resolve(ctx context.Context, tabID, resultID, quizID string) (*models.Quiz, models.Attempt, models.ReviewPath, error) {
	if quizID != "" {
		if record, ok := s.handoffs.ForTab(tabID).Get(ctx, quizID); ok {
			return &record.Quiz, record.Attempt, models.ReviewPathHandoff, nil
		}
		s.logger.Debug("Handoff record missing, re-fetching quiz", "quiz_id", quizID)
	}

	lookupID := quizID
	if lookupID == "" {
		// Without the quiz id the result id is the only identifier left.
		lookupID = resultID
	}

	quiz, err := s.api.FetchQuiz(ctx, lookupID)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return nil, nil, "", ErrQuizNotFound
		}
		return nil, nil, "", err
	}
	if err := s.validator.Validate(quiz); err != nil {
		return nil, nil, "", err
	}
	return quiz, nil, models.ReviewPathRefetch, nil
}

// sourceDocument returns the quiz's document, asking the API when the quiz does
// not carry it. A missing document only disables page links.
func (s *reviewService) sourceDocument(ctx context.Context, quiz *models.Quiz) *models.SourceDocument {
	if quiz.PdfInfo != nil && quiz.PdfInfo.URL != "" {
		return quiz.PdfInfo
	}
	doc, err := s.api.FetchSourceDocument(ctx, quiz.ID)
	if err != nil {
		s.logger.Debug("Source document not available", "quiz_id", quiz.ID, "error", err)
		return nil
	}
	if doc == nil || doc.URL == "" {
		return nil
	}
	return doc
}

func (s *reviewService) notify(ctx context.Context, tabID string, view *models.ReviewView) {
	if err := s.events.NotifyReviewReconstructed(ctx, tabID, view); err != nil {
		s.logger.Warn("Review event not published", "result_id", view.ResultID, "error", err)
	}
}

// OpenSource points the viewer at page of the document. A page below 1 leaves
// the viewer unchanged.
func (s *reviewService) OpenSource(viewer source.ViewerState, documentURL string, page int) (source.ViewerState, bool) {
	ok := source.Jump(&viewer, documentURL, page)
	return viewer, ok
}

func buildRows(quiz *models.Quiz, answers models.Attempt, doc *models.SourceDocument) []models.ReviewRow {
	rows := make([]models.ReviewRow, 0, len(quiz.Questions))
	for i, q := range quiz.Questions {
		row := models.ReviewRow{
			Index:         i + 1,
			QuestionID:    q.ID,
			Type:          q.Type,
			Prompt:        q.Prompt,
			Options:       q.Options,
			CorrectAnswer: q.Answer,
			Explanation:   q.Explanation,
			SourcePage:    q.Page,
			SourceContext: q.SourceContext,
		}
		if doc != nil && q.HasPageReference() {
			row.SourceLink, _ = source.LinkToPage(doc.URL, q.Page)
		}
		if answers != nil {
			correct := false
			if answer, ok := answers[q.ID]; ok {
				row.UserAnswer = &answer
				correct = IsCorrect(answer, q.Answer)
			}
			row.Correct = &correct
		}
		rows = append(rows, row)
	}
	return rows
}

// IsCorrect compares an answer with the canonical one after trimming
// surrounding whitespace. The comparison is case-sensitive.
func IsCorrect(answer, canonical string) bool {
	return strings.TrimSpace(answer) == strings.TrimSpace(canonical)
}
