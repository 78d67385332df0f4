// Package validation wraps go-playground/validator so that struct schemas
// declared with `validate` tags produce structured, JSON-named field errors.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FieldErrors is the structured result of a failed schema check. Fields are
// reported in declaration order of the validated struct.
type FieldErrors []FieldError

func (f FieldErrors) Error() string {
	if len(f) == 0 {
		return "validation error"
	}
	parts := make([]string, 0, len(f))
	for _, e := range f {
		parts = append(parts, e.Field+": "+e.Code)
	}
	return "validation error: " + strings.Join(parts, ", ")
}

// Has reports whether field failed validation.
func (f FieldErrors) Has(field string) bool {
	for _, e := range f {
		if e.Field == field {
			return true
		}
	}
	return false
}

// First returns the first invalid field, which callers use to move focus.
func (f FieldErrors) First() (FieldError, bool) {
	if len(f) == 0 {
		return FieldError{}, false
	}
	return f[0], true
}

// Map returns field -> message.
func (f FieldErrors) Map() map[string]string {
	out := make(map[string]string, len(f))
	for _, e := range f {
		out[e.Field] = e.Message
	}
	return out
}

// AsFieldErrors extracts FieldErrors from err.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// emailShape accepts the basic local@domain.tld shape.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
			return emailShape.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Struct validates s against its `validate` tags. It returns nil when s is
// valid, FieldErrors otherwise.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(FieldErrors, 0, len(verrs))
	seen := make(map[string]struct{}, len(verrs))
	for _, ve := range verrs {
		field := fieldPath(ve)
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		out = append(out, FieldError{
			Field:   field,
			Code:    codeFor(ve.Tag()),
			Message: messageFor(ve),
		})
	}
	return out
}

func fieldPath(ve validator.FieldError) string {
	ns := ve.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		ns = ns[idx+1:]
	}
	if ns == "" {
		return ve.Field()
	}
	return ns
}

func codeFor(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "email_shape", "email":
		return "invalid_email"
	case "oneof":
		return "invalid_choice"
	case "min", "gte":
		return "too_small"
	case "max", "lte":
		return "too_large"
	default:
		return "invalid"
	}
}

func messageFor(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "this field is required"
	case "email_shape", "email":
		return "enter a valid email address"
	case "oneof":
		return "must be one of: " + ve.Param()
	case "min", "gte":
		return "must be at least " + ve.Param()
	case "max", "lte":
		return "must be at most " + ve.Param()
	default:
		return "invalid value"
	}
}
