package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/study-quiz-client/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate performs complete validation. Struct tag failures are converted to
// ValidationErrors so callers can report them field by field.
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}

	if quiz, ok := s.(*models.Quiz); ok {
		if errs := v.questionValidator.ValidateQuiz(quiz); len(errs) > 0 {
			return errs
		}
	}

	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	return IsQuestionType(models.QuestionType(fl.Field().String()))
}

// IsQuestionType reports whether t belongs to the closed set of question types.
func IsQuestionType(t models.QuestionType) bool {
	switch t {
	case models.MultipleChoice, models.TrueFalse, models.ShortAnswer, models.FillInBlank:
		return true
	}
	return false
}
