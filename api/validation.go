package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/studio-site-backend/errs"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validatePayload runs the struct's validate tags and turns every failure
// into a field error. payload must be a pointer to a struct.
func validatePayload(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs.NewInternalErrorWithCause("Failed to validate request", err)
	}

	structType := reflect.TypeOf(payload)
	for structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}

	fieldErrors := make([]errs.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe, labelFor(structType, fe)),
		})
	}
	return errs.NewValidationError(fieldErrors)
}

// labelFor returns the human name of the failing field: its `label` tag,
// or the json name with the first letter capitalized.
func labelFor(structType reflect.Type, fe validator.FieldError) string {
	goName := fe.StructField()
	if i := strings.IndexByte(goName, '['); i >= 0 {
		goName = goName[:i]
	}
	if f, ok := structType.FieldByName(goName); ok {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
	}

	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	runes := []rune(name)
	if len(runes) == 0 {
		return "Value"
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func fieldMessage(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("At least %s %s item required", spellCount(fe.Param()), strings.ToLower(label))
		}
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "email":
		return "Invalid email address"
	case "url", "http_url":
		return "Invalid URL"
	case "uuid", "uuid4":
		return "Invalid ID"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	default:
		return "Invalid value"
	}
}

func spellCount(n string) string {
	if n == "1" {
		return "one"
	}
	return n
}
