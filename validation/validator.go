package validation

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/kbukum/accessmatrix/errors"
)

// FieldError is one rejected field, reported under "fields" in the error
// details.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates field errors across chained checks so a config
// reports every problem at once.
type Validator struct {
	errs []FieldError
}

func New() *Validator { return &Validator{} }

// AddError records a failure for field.
func (v *Validator) AddError(field, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}

func (v *Validator) HasErrors() bool { return len(v.errs) > 0 }

func (v *Validator) Errors() []FieldError { return v.errs }

// Validate folds the collected errors into one INVALID_INPUT AppError, or
// returns nil when every check passed.
func (v *Validator) Validate() *errors.AppError {
	if len(v.errs) == 0 {
		return nil
	}
	return newValidationError(v.errs)
}

// Err is Validate as a plain error; a clean Validator yields a true nil.
func (v *Validator) Err() error {
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func newValidationError(fields []FieldError) *errors.AppError {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", fields)
}

func (v *Validator) check(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}

// Required rejects empty and whitespace-only values.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(strings.TrimSpace(value) != "", field, "is required")
}

// URL accepts an empty value or an absolute http(s) URL.
func (v *Validator) URL(field, value string) *Validator {
	if value == "" {
		return v
	}
	u, err := url.Parse(value)
	return v.check(err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https"),
		field, "must be an absolute http(s) URL")
}

func (v *Validator) Range(field string, value, lo, hi int) *Validator {
	return v.check(value >= lo && value <= hi, field, fmt.Sprintf("must be between %d and %d", lo, hi))
}

func (v *Validator) Min(field string, value, lo int) *Validator {
	return v.check(value >= lo, field, fmt.Sprintf("must be at least %d", lo))
}

// OneOf accepts an empty value or a member of allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	return v.check(value == "" || slices.Contains(allowed, value),
		field, "must be one of: "+strings.Join(allowed, ", "))
}

// Positive rejects zero and negative durations.
func (v *Validator) Positive(field string, d time.Duration) *Validator {
	return v.check(d > 0, field, "must be positive")
}

// Duration checks that value parses with time.ParseDuration.
func (v *Validator) Duration(field, value string) *Validator {
	_, err := time.ParseDuration(value)
	return v.check(err == nil, field, "must be a duration")
}

// Custom records message for field unless ok holds.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	return v.check(ok, field, message)
}
