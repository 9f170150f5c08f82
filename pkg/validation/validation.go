// Package validation provides struct validation using go-playground/validator v10.
// A single validator instance is shared process-wide; it caches struct metadata
// and carries the custom rules used by catalog records:
//
//   - notblank:    string must contain a non-whitespace character
//   - nospaces:    string must not contain whitespace
//   - notfuture:   date must not be after today
//   - releasedate: date must not precede the first public film screening
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/VeraBsp/filmorate/internal/domain/film"
	"github.com/VeraBsp/filmorate/internal/domain/shared"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	// now is replaced in tests.
	now = time.Now
)

// FieldError describes a single failed rule.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

// Error is returned when a struct fails validation.
type Error struct {
	Fields []FieldError
}

// Error joins the field messages.
func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return strings.Join(messages, "; ")
}

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(shared.Date); ok {
				return d.Time
			}
			return nil
		}, shared.Date{})

		mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		mustRegister(v, "nospaces", func(fl validator.FieldLevel) bool {
			return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
		})
		mustRegister(v, "notfuture", func(fl validator.FieldLevel) bool {
			t, ok := fl.Field().Interface().(time.Time)
			if !ok || t.IsZero() {
				return true
			}
			return !shared.DateOf(t).After(shared.DateOf(now()).Time)
		})
		mustRegister(v, "releasedate", func(fl validator.FieldLevel) bool {
			t, ok := fl.Field().Interface().(time.Time)
			if !ok {
				return false
			}
			return !t.Before(film.EarliestReleaseDate)
		})

		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Struct validates s. It returns nil or *Error.
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Error{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	out := &Error{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translate(fe),
		})
	}
	return out
}

var messages = map[string]string{
	"required":    "%s is required",
	"notblank":    "%s must not be blank",
	"email":       "%s must be a valid email address",
	"nospaces":    "%s must not contain spaces",
	"notfuture":   "%s must not be in the future",
	"releasedate": "%s must not be earlier than 1895-12-28",
}

func translate(fe validator.FieldError) string {
	field := fe.Field()
	if tmpl, ok := messages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	switch fe.Tag() {
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
