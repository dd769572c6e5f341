// Package validation turns request payload problems into field-attributed
// errors that handlers can return to clients as-is.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError reports why one request field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`

	// Err is the classified cause, when there is one.
	Err error `json:"-"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// Errors is a non-empty list of field failures.
type Errors []FieldError

func (v Errors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes the causes so errors.Is can match classified failures.
func (v Errors) Unwrap() []error {
	errs := make([]error, 0, len(v))
	for _, fe := range v {
		if fe.Err != nil {
			errs = append(errs, fe.Err)
		}
	}
	return errs
}

// Field builds a single-field failure from err, using err's text as the
// message.
func Field(field string, err error) Errors {
	return Errors{{Field: field, Message: err.Error(), Err: err}}
}

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

// Struct checks the `validate` tags of s and converts failures into Errors.
// It returns nil when s is valid.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field required"
	case "email":
		return "value is not a valid email address"
	case "eqfield":
		return fmt.Sprintf("must match %s", jsonName(fe))
	case "alphanum":
		return "must contain only letters and digits"
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		switch fe.Kind() {
		case reflect.Slice, reflect.Array:
			return fmt.Sprintf("List should have %s %s item(s)", bound, fe.Param())
		case reflect.String:
			return fmt.Sprintf("String should have %s %s characters", bound, fe.Param())
		default:
			return fmt.Sprintf("must be %s %s", bound, fe.Param())
		}
	default:
		return fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
}

// jsonName maps the eqfield parameter (a Go field name) to snake case for
// messages, e.g. Password -> password.
func jsonName(fe validator.FieldError) string {
	var b strings.Builder
	for i, r := range fe.Param() {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
