// Package validate holds the field rules shared by request schemas and
// storage-level document checks, so both layers accept exactly the same
// shapes.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// WebURLTag accepts http/https URLs with an optional www. prefix.
	WebURLTag = "weburl"
	// ObjectIDTag accepts 24-character hexadecimal identifiers.
	ObjectIDTag = "objectid"
)

var (
	webURLPattern   = regexp.MustCompile(`^https?://(www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_+.~#?&/=]*)$`)
	objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
)

var engine = newEngine()

func newEngine() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so messages match the request payload.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	mustRegister(v, WebURLTag, func(fl validator.FieldLevel) bool {
		return IsWebURL(fl.Field().String())
	})
	mustRegister(v, ObjectIDTag, func(fl validator.FieldLevel) bool {
		return IsObjectID(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validate: register %q: %v", tag, err))
	}
}

func IsWebURL(s string) bool { return webURLPattern.MatchString(s) }

func IsObjectID(s string) bool { return objectIDPattern.MatchString(s) }

// Struct checks every tagged field of s. The returned error, if any, is a
// *Error listing all violations.
func Struct(s any) error {
	return wrap(engine.Struct(s))
}

// Var checks a single value against a tag expression. The field name is
// used in the violation message.
func Var(field string, value any, tag string) error {
	err := engine.Var(value, tag)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		violations := make([]Violation, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			violations = append(violations, Violation{Field: field, Rule: fe.Tag(), Param: fe.Param()})
		}
		return &Error{Violations: violations}
	}
	return err
}

// Violation describes one failed rule.
type Violation struct {
	Field string
	Rule  string
	Param string
}

func (v Violation) String() string {
	switch v.Rule {
	case "required":
		return fmt.Sprintf("%q is required", v.Field)
	case "min":
		return fmt.Sprintf("%q must be at least %s characters long", v.Field, v.Param)
	case "max":
		return fmt.Sprintf("%q must be at most %s characters long", v.Field, v.Param)
	case "email":
		return fmt.Sprintf("%q must be a valid email", v.Field)
	case WebURLTag:
		return fmt.Sprintf("%q must be a valid URL", v.Field)
	case ObjectIDTag:
		return fmt.Sprintf("%q must be a 24 character hex identifier", v.Field)
	default:
		return fmt.Sprintf("%q failed rule %q", v.Field, v.Rule)
	}
}

// Error aggregates all violations found in one check.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, Violation{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return &Error{Violations: violations}
}
