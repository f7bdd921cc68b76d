// Package validation turns struct-tag validation failures into domain.ValidationError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"eventhub/internal/domain"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("rsvp_status", func(fl validator.FieldLevel) bool {
		return domain.RSVPStatus(fl.Field().String()).Valid()
	})
	// omitempty does not skip a non-nil pointer to "", so clearable fields use this instead of url.
	v.RegisterValidation("url_or_empty", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || v.Var(s, "url") == nil
	})
	return v
}

// Struct validates s against its `validate` tags. It returns nil or a
// *domain.ValidationError keyed by JSON field name.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}
	verr := &domain.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fieldPath(fe), message(fe))
	}
	return verr
}

// Event validates a full event input, including that it does not end before it starts.
func Event(in domain.EventInput) error {
	verr := &domain.ValidationError{}
	if err := Struct(in); err != nil {
		if !errors.As(err, &verr) {
			return err
		}
	}
	if !in.StartTime.IsZero() && !in.EndTime.IsZero() && in.EndTime.Before(in.StartTime) {
		verr.Add("end_time", "must not be before start_time")
	}
	return verr.OrNil()
}

// RSVPStatus validates a requested RSVP status.
func RSVPStatus(s domain.RSVPStatus) error {
	if s.Valid() {
		return nil
	}
	return domain.NewValidationError("status", statusMessage())
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "rsvp_status":
		return statusMessage()
	case "url", "url_or_empty":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}

func statusMessage() string {
	names := make([]string, len(domain.RSVPStatuses))
	for i, s := range domain.RSVPStatuses {
		names[i] = fmt.Sprintf("%q", s)
	}
	return "must be one of " + strings.Join(names, ", ")
}
