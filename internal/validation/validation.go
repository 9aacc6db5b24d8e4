package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/b2p/b2p-admin/internal/constants"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// FieldError is one violated constraint. Path is the JSON name of the input
// member, or empty for whole-object rules.
type FieldError struct {
	Path    string
	Message string
}

// Errors is the exhaustive result of a failed validation, one entry per path.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		if fe.Path == "" {
			parts = append(parts, fe.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Path, fe.Message))
	}
	return strings.Join(parts, "; ")
}

// For returns the message recorded for path, or "".
func (e Errors) For(path string) string {
	for _, fe := range e {
		if fe.Path == path {
			return fe.Message
		}
	}
	return ""
}

// FormatReport returns a human-readable report of all violations
func (e Errors) FormatReport() string {
	if len(e) == 0 {
		return "No validation errors."
	}

	report := "Validation failed:\n"
	for _, fe := range e {
		if fe.Path == "" {
			report += fmt.Sprintf("- %s\n", fe.Message)
			continue
		}
		report += fmt.Sprintf("- %s: %s\n", fe.Path, fe.Message)
	}
	return report
}

// AsErrors extracts validation errors from err.
func AsErrors(err error) (Errors, bool) {
	var ve Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Validator checks form input against the declarative rule sets.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("fieldtype", func(fl validator.FieldLevel) bool {
		return slices.Contains(constants.FieldTypes, constants.FieldType(fl.Field().String()))
	})
	_ = v.RegisterValidation("bookingstatus", func(fl validator.FieldLevel) bool {
		return slices.Contains(constants.BookingStatuses, constants.BookingStatus(fl.Field().String()))
	})
	_ = v.RegisterValidation("precision2", func(fl validator.FieldLevel) bool {
		cents := fl.Field().Float() * 100
		return math.Abs(cents-math.Round(cents)) < 1e-6
	})
	_ = v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
		return datePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return timePattern.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// check runs struct validation and merges the result with errors already
// collected while decoding. Paths that already carry a message keep it.
func (v *Validator) check(form any, pre Errors) Errors {
	out := append(Errors(nil), pre...)
	err := v.v.Struct(form)
	if err == nil {
		return out
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return append(out, FieldError{Message: err.Error()})
	}
	for _, fe := range fieldErrs {
		path := fe.Field()
		if out.For(path) != "" {
			continue
		}
		out = append(out, FieldError{Path: path, Message: message(path, fe.Tag())})
	}
	return out
}

// decode copies raw into form through JSON, which drops unknown keys. Type
// mismatches are reported against their path.
func decode(raw map[string]any, form any) Errors {
	data, err := json.Marshal(raw)
	if err != nil {
		return Errors{{Message: err.Error()}}
	}
	if err := json.Unmarshal(data, form); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Errors{{Path: typeErr.Field, Message: message(typeErr.Field, "base")}}
		}
		return Errors{{Message: err.Error()}}
	}
	return nil
}
