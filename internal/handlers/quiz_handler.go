package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/study-quiz-client/internal/models"
	"github.com/SAP-F-2025/study-quiz-client/internal/services"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
	"github.com/SAP-F-2025/study-quiz-client/internal/validator"
	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	BaseHandler
	sessionService    services.SessionService
	submissionService services.SubmissionService
	quizService       services.QuizService
	validator         *validator.Validator
}

func NewQuizHandler(
	sessionService services.SessionService,
	submissionService services.SubmissionService,
	quizService services.QuizService,
	validator *validator.Validator,
	logger utils.Logger,
) *QuizHandler {
	return &QuizHandler{
		BaseHandler:       NewBaseHandler(logger),
		sessionService:    sessionService,
		submissionService: submissionService,
		quizService:       quizService,
		validator:         validator,
	}
}

// GenerateQuiz creates a quiz from an uploaded file
// @Router /quizzes/generate [post]
func (h *QuizHandler) GenerateQuiz(c *gin.Context) {
	var req GenerateQuizRequest
	if !h.bindJSON(c, h.validator.Validate, &req) {
		return
	}

	options := models.GenerationOptions{
		QuestionCount: req.QuestionCount,
		Difficulty:    models.Difficulty(req.Difficulty),
	}
	for _, t := range req.Types {
		options.Types = append(options.Types, models.QuestionType(t))
	}

	h.LogRequest(c, "Generating quiz", "file_id", req.FileID)

	created, err := h.quizService.Generate(c.Request.Context(), req.FileID, options)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"quiz":       created.Quiz,
		"navigation": newNavigationResponse(created.Navigation),
	})
}

// OpenQuiz mounts the taking view with a fresh attempt
// @Router /quizzes/{quiz_id} [get]
func (h *QuizHandler) OpenQuiz(c *gin.Context) {
	tab := tabSession(c)
	quizID := ParseStringIDParam(c, "quiz_id")
	if tab == "" || quizID == "" {
		return
	}

	h.LogRequest(c, "Opening quiz", "quiz_id", quizID)

	state, err := h.sessionService.Open(c.Request.Context(), tab, quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// LeaveQuiz unmounts the taking view; a pending submit is discarded
// @Router /quizzes/{quiz_id} [delete]
func (h *QuizHandler) LeaveQuiz(c *gin.Context) {
	tab := tabSession(c)
	quizID := ParseStringIDParam(c, "quiz_id")
	if tab == "" || quizID == "" {
		return
	}

	if err := h.sessionService.Leave(tab, quizID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RecordAnswer stores the answer to one question
// @Router /quizzes/{quiz_id}/answers/{question_id} [put]
func (h *QuizHandler) RecordAnswer(c *gin.Context) {
	tab := tabSession(c)
	quizID := ParseStringIDParam(c, "quiz_id")
	if tab == "" || quizID == "" {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}

	var req RecordAnswerRequest
	if !h.bindJSON(c, h.validator.Validate, &req) {
		return
	}

	progress, err := h.sessionService.RecordAnswer(tab, quizID, questionID, *req.Answer)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetAnswers returns the current attempt and progress
// @Router /quizzes/{quiz_id}/answers [get]
func (h *QuizHandler) GetAnswers(c *gin.Context) {
	tab := tabSession(c)
	quizID := ParseStringIDParam(c, "quiz_id")
	if tab == "" || quizID == "" {
		return
	}

	progress, err := h.sessionService.Progress(tab, quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// MoveTo changes the question shown by the taking view
// @Router /quizzes/{quiz_id}/position [put]
func (h *QuizHandler) MoveTo(c *gin.Context) {
	tab := tabSession(c)
	quizID := ParseStringIDParam(c, "quiz_id")
	if tab == "" || quizID == "" {
		return
	}

	var req MoveRequest
	if !h.bindJSON(c, h.validator.Validate, &req) {
		return
	}

	progress, err := h.sessionService.MoveTo(tab, quizID, req.Index)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// SubmitQuiz scores the attempt and answers with the review navigation.
// A partial attempt needs confirm_incomplete; without it the answer is 428.
// @Router /quizzes/{quiz_id}/submit [post]
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	tab := tabSession(c)
	quizID := ParseStringIDParam(c, "quiz_id")
	if tab == "" || quizID == "" {
		return
	}

	var req SubmitRequest
	if c.Request.ContentLength != 0 {
		if !h.bindJSON(c, h.validator.Validate, &req) {
			return
		}
	}

	h.LogRequest(c, "Submitting quiz", "quiz_id", quizID, "confirm_incomplete", req.ConfirmIncomplete)

	confirm := services.ConfirmFunc(func(answered, total int) bool {
		return req.ConfirmIncomplete
	})
	nav, err := h.submissionService.Submit(c.Request.Context(), tab, quizID, confirm)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	resp := newNavigationResponse(nav)
	c.Header("Location", resp.Location)
	c.JSON(http.StatusOK, resp)
}
