// Package forms decodes and validates the HTML forms of the booking pages.
//
// Each form is an explicit struct. Decode copies trimmed values out of the
// submitted url.Values and Validate returns every failing field at once, so a
// page can show all problems together and nothing is written until the form
// is clean.
package forms

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is one validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Errors collects field failures in the order they were found.
type Errors []FieldError

// Error implements error.
func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// Add appends a failure for field.
func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Has reports whether field has at least one failure.
func (e Errors) Has(field string) bool {
	return len(e.For(field)) > 0
}

// For returns the messages recorded for field.
func (e Errors) For(field string) []string {
	var msgs []string
	for _, fe := range e {
		if fe.Field == field {
			msgs = append(msgs, fe.Message)
		}
	}
	return msgs
}

var phonePattern = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their form input names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("registering %s validation: %v", tag, err))
		}
	}
	must("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	must("state", func(fl validator.FieldLevel) bool {
		return slices.Contains(States, fl.Field().String())
	})
	must("genre", func(fl validator.FieldLevel) bool {
		return IsGenre(fl.Field().String())
	})
	return v
}

// check runs struct-tag validation and converts the result into Errors.
func check(form any) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{{Field: "form", Message: err.Error()}}
	}

	var out Errors
	for _, fe := range verrs {
		field, _, _ := strings.Cut(fe.Field(), "[")
		out.Add(field, message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		if fe.Kind() == reflect.Slice {
			return "Select at least one option."
		}
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "phone":
		return "Phone number must look like 123-456-7890."
	case "url":
		return "Invalid URL."
	case "state", "genre":
		return fmt.Sprintf("'%v' is not a valid choice.", fe.Value())
	default:
		return "Invalid value."
	}
}

// text returns the trimmed value of a single form field.
func text(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}

// checked reports whether a checkbox was ticked.
func checked(values url.Values, key string) bool {
	switch strings.ToLower(text(values, key)) {
	case "", "false", "off", "0", "n", "no":
		return false
	default:
		return true
	}
}

// multi returns the non-blank trimmed values of a multi-select, in order.
func multi(values url.Values, key string) []string {
	var out []string
	for _, v := range values[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// optional maps a blank string to nil.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// deref maps nil to a blank string.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
