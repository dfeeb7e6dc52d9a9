package services

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/study-quiz-client/internal/client"
	apperrors "github.com/SAP-F-2025/study-quiz-client/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Quiz specific errors
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuizNotOpen      = errors.New("quiz is not open in this tab")
	ErrQuestionNotFound = errors.New("question not found in quiz")
	ErrNoteNotFound     = errors.New("wrong-answer note not found")

	// Submission specific errors
	ErrSubmissionInProgress = errors.New("submission already in progress")
	ErrViewDetached         = errors.New("quiz view was left before the submission completed")
)

// ===== CUSTOM ERROR TYPES =====

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// IncompleteAttemptError is returned when a partial attempt is submitted
// without the learner confirming it.
type IncompleteAttemptError struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

func (e *IncompleteAttemptError) Error() string {
	return fmt.Sprintf("only %d of %d questions answered; confirmation required", e.Answered, e.Total)
}

// BusinessRuleError reports a state that must not be retried, such as a
// scoring result that contradicts the quiz it scored.
type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrQuizNotOpen) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrNoteNotFound) ||
		errors.Is(err, client.ErrNotFound)
}

// IsNetwork reports whether a collaborator call failed in transport or with
// an unexpected status. State is left intact so the caller can retry.
func IsNetwork(err error) bool {
	return errors.Is(err, client.ErrNetwork)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, client.ErrValidation) {
		return true
	}
	var ves apperrors.ValidationErrors
	if errors.As(err, &ves) {
		return true
	}
	var ve *apperrors.ValidationError
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsIncompleteAttempt checks if error asks for confirmation of a partial attempt
func IsIncompleteAttempt(err error) bool {
	var iae *IncompleteAttemptError
	return errors.As(err, &iae)
}

// IsConflict checks if error collides with the view's current state
func IsConflict(err error) bool {
	return errors.Is(err, ErrSubmissionInProgress) ||
		errors.Is(err, ErrViewDetached)
}
