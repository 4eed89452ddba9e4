package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"social-app-go/internal/domain/validation"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate checks the validate tags of a request struct and reports failures as validation.Errors.
func Validate(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	errs := validation.Errors{}
	for _, fe := range fieldErrors {
		errs.Add(fe.Field(), fieldMessage(fe))
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "gt":
		return fmt.Sprintf("The %s field must be greater than %s.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
