package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	apperrors "linkbird-backend/internal/errors"

	"github.com/badoux/checkmail"
	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports fields by their JSON name and
// understands the mailformat tag.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("mailformat", func(fl validator.FieldLevel) bool {
		return checkmail.ValidateFormat(fl.Field().String()) == nil
	})
	return v
}

// validationError converts validator output into field-level application errors.
// Other errors are returned unchanged.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(apperrors.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apperrors.ValidationError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param()
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "mailformat":
		return "must be a valid email address"
	}
	return "is invalid"
}

// requireNonBlank rejects a present but blank string in a partial update
func requireNonBlank(field string, value *string) *apperrors.ValidationError {
	if value != nil && strings.TrimSpace(*value) == "" {
		return &apperrors.ValidationError{Field: field, Message: "cannot be empty"}
	}
	return nil
}
