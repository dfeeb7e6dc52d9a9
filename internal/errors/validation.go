package errors

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError describes one rejected field of a request, a fetched quiz or
// a scoring result.
type ValidationError struct {
	Field   string      `json:"field"`
	Rule    string      `json:"rule,omitempty"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// ValidationErrors collects every rejected field so callers can report them together.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(ve))
	for i := range ve {
		parts[i] = ve[i].Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field error.
func (ve *ValidationErrors) Add(field, rule, message string, value interface{}) {
	*ve = append(*ve, ValidationError{Field: field, Rule: rule, Message: message, Value: value})
}

// ErrOrNil returns nil for an empty collection so it can be returned as an error.
func (ve ValidationErrors) ErrOrNil() error {
	if len(ve) == 0 {
		return nil
	}
	return ve
}

// NewValidationError creates a validation error without a rule tag.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// Invalid creates a validation error for a named rule.
func Invalid(field, rule, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Rule: rule, Message: message, Value: value}
}

// ToValidationErrors converts validator.ValidationErrors to our type.
// Errors of any other kind yield an empty collection.
func ToValidationErrors(err error) ValidationErrors {
	var validatorErr validator.ValidationErrors
	if !errors.As(err, &validatorErr) {
		return nil
	}

	out := make(ValidationErrors, 0, len(validatorErr))
	for _, fe := range validatorErr {
		out.Add(fe.Field(), fe.Tag(), messageFor(fe), fe.Value())
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "ltefield":
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "question_type":
		return "must be a valid question type (객관식, 주관식, OX, 빈칸)"
	default:
		return fmt.Sprintf("failed rule '%s'", fe.Tag())
	}
}
