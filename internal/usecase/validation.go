package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xavierca1/workshop-payments/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("plan", func(fl validator.FieldLevel) bool {
		return entity.Plan(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("lead_source", func(fl validator.FieldLevel) bool {
		return entity.LeadSource(fl.Field().String()).Valid()
	})
	return v
}

// validateStruct converte validator.ValidationErrors para a lista Field/Message.
func validateStruct(input any) []ValidationError {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Field: "input", Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is invalid"
	case "uuid", "uuid4":
		return "must be a valid id"
	case "plan":
		return "must be one of starter, pro, business, workshop"
	case "lead_source":
		return "must be one of landing, audit, workshop, student_portal"
	case "max":
		return "must not exceed " + fe.Param() + " characters"
	case "min":
		return "must have at least " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}

// newValidationError junta os erros num DomainError VALIDATION_ERROR.
func newValidationError(errs []ValidationError) error {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
	}
}

func ValidateCheckoutInput(input CheckoutInput) []ValidationError {
	return validateStruct(input)
}

func ValidateLeadInput(input LeadInput) []ValidationError {
	return validateStruct(input)
}
