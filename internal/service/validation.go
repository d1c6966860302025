package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dom/bandmates/internal/domain"
	"github.com/go-playground/validator/v10"
)

// NewValidator returns the validator shared by the services.
func NewValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// validationError turns the first field failure into a domain validation
// error with a readable message.
func validationError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		return domain.NewValidationError(fieldName(fe), fieldMessage(fe))
	}
	return domain.NewValidationError("", err.Error())
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldName(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "FullName":
		return "full_name"
	default:
		return strings.ToLower(fe.Field())
	}
}
