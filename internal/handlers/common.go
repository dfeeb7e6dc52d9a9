package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/study-quiz-client/internal/client"
	"github.com/SAP-F-2025/study-quiz-client/internal/middleware"
	"github.com/SAP-F-2025/study-quiz-client/internal/services"
	"github.com/SAP-F-2025/study-quiz-client/internal/source"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// ===== REQUEST STRUCTURES =====

type RecordAnswerRequest struct {
	Answer *string `json:"answer" validate:"required"`
}

type MoveRequest struct {
	Index int `json:"index" validate:"min=0"`
}

type SubmitRequest struct {
	ConfirmIncomplete bool `json:"confirm_incomplete"`
}

type GenerateQuizRequest struct {
	FileID        string   `json:"fileId" validate:"required"`
	QuestionCount int      `json:"questionCount"`
	Types         []string `json:"types"`
	Difficulty    string   `json:"difficulty"`
}

type ViewerRequest struct {
	DocumentURL string             `json:"document_url" validate:"required"`
	Page        int                `json:"page"`
	Viewer      source.ViewerState `json:"viewer"`
}

// ===== RESPONSE STRUCTURES =====

// NavigationResponse tells the browser where to go after an action.
type NavigationResponse struct {
	Path     string                 `json:"path"`
	Location string                 `json:"location"`
	Params   *services.ReviewParams `json:"params,omitempty"`
}

func newNavigationResponse(nav *services.Navigation) NavigationResponse {
	return NavigationResponse{
		Path:     nav.Path,
		Location: nav.Location(),
		Params:   nav.Params,
	}
}

type ViewerResponse struct {
	Viewer  source.ViewerState `json:"viewer"`
	Changed bool               `json:"changed"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := append(h.contextFields(c), "remote_addr", c.ClientIP())
	fields = append(fields, additionalFields...)
	h.requestLogger(c).Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := append(h.contextFields(c), additionalFields...)
	h.requestLogger(c).LogError(err, message, fields...)
}

// LogWarn logs warning messages with context
func (h *BaseHandler) LogWarn(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := append(h.contextFields(c), additionalFields...)
	h.requestLogger(c).Warn(message, fields...)
}

func (h *BaseHandler) requestLogger(c *gin.Context) utils.Logger {
	return utils.GetLoggerFromContext(c, h.logger)
}

func (h *BaseHandler) contextFields(c *gin.Context) []interface{} {
	return []interface{}{
		"user_id", c.GetString(middleware.UserIDKey),
		"tab_session", middleware.GetTabSession(c),
	}
}

// bindJSON decodes and validates the request body, answering 400 on failure.
func (h *BaseHandler) bindJSON(c *gin.Context, validate func(interface{}) error, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	if err := validate(dest); err != nil {
		h.handleServiceError(c, err)
		return false
	}
	return true
}

// handleServiceError maps service and collaborator errors to responses
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var incomplete *services.IncompleteAttemptError
	if errors.As(err, &incomplete) {
		c.JSON(http.StatusPreconditionRequired, ErrorResponse{
			Message: "Not every question is answered; confirm to submit anyway",
			Code:    "INCOMPLETE_ATTEMPT",
			Details: incomplete,
		})
		return
	}

	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Code:    "VALIDATION_FAILED",
			Details: validationErrors,
		})
		return
	}

	var validationError *services.ValidationError
	if errors.As(err, &validationError) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Code:    "VALIDATION_FAILED",
			Details: services.ValidationErrors{*validationError},
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		h.LogWarn(c, "Business rule violated", "rule", businessRuleError.Rule, "error", err)
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule":    businessRuleError.Rule,
				"context": businessRuleError.Context,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrSubmissionInProgress):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Submission already in progress",
			Code:    "SUBMISSION_IN_PROGRESS",
		})
	case errors.Is(err, services.ErrViewDetached):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "The quiz view was left before the submission completed",
			Code:    "VIEW_DETACHED",
		})
	case errors.Is(err, services.ErrQuizNotOpen):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Quiz is not open in this tab",
			Code:    "QUIZ_NOT_OPEN",
		})
	case errors.Is(err, services.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Question not found in quiz",
			Code:    "QUESTION_NOT_FOUND",
		})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: apiMessage(err, "Not found"),
			Code:    "NOT_FOUND",
		})
	case errors.Is(err, client.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: apiMessage(err, "Rejected by quiz API"),
			Code:    "REJECTED",
		})
	case services.IsNetwork(err):
		h.LogError(c, err, "Quiz API call failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: apiMessage(err, "Quiz API unavailable"),
			Code:    "NETWORK_FAILURE",
		})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

// apiMessage surfaces the quiz API's own message when there is one.
func apiMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// HealthCheck reports that the process is serving
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "study-quiz-client",
	})
}
