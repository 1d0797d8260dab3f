package content

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type notFoundError struct{}

func (notFoundError) Error() string   { return "not found" }
func (notFoundError) HTTPStatus() int { return http.StatusNotFound }

// ErrNotFound is returned by repositories and services when no document has the id.
var ErrNotFound error = notFoundError{}

// ValidationError describes rejected input. Message is safe to show to clients.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) HTTPStatus() int { return http.StatusBadRequest }

func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report json names, not Go field names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks the struct tags of e and converts the first failure into
// a *ValidationError.
func Validate(e interface{}) error {
	err := validatorInstance().Struct(e)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return NewValidationError(field, "is required")
	case "max":
		if fe.Kind() == reflect.Slice {
			return NewValidationError(field, "must have at most %s items", fe.Param())
		}
		return NewValidationError(field, "must be at most %s characters", fe.Param())
	case "oneof":
		return NewValidationError(field, "must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return NewValidationError(field, "must be a valid URL")
	case "bcp47_language_tag":
		return NewValidationError(field, "must be a language tag such as en or vi")
	}
	return NewValidationError(field, "failed %s validation", fe.Tag())
}
