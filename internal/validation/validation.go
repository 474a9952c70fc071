// Package validation implements declarative field validation for request
// bodies. Rules are declared per route and applied in declaration order;
// every rule is evaluated so the caller receives the full failure list.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
)

// FieldError describes a single failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Form is a flat view of the request fields under validation.
type Form map[string]string

// Rule checks one field of a form. It returns nil when the field is valid.
type Rule func(form Form) *FieldError

// Apply evaluates every rule in order and returns all failures.
// It never short-circuits: later rules run even if earlier ones failed.
func Apply(form Form, rules ...Rule) []FieldError {
	var errs []FieldError
	for _, rule := range rules {
		if fe := rule(form); fe != nil {
			errs = append(errs, *fe)
		}
	}
	return errs
}

// Required fails when the field is empty.
func Required(field, message string) Rule {
	return func(form Form) *FieldError {
		if form[field] == "" {
			return &FieldError{Field: field, Message: message}
		}
		return nil
	}
}

// Length fails when the field length is outside [min, max].
func Length(field, message string, min, max int) Rule {
	return func(form Form) *FieldError {
		if n := len(form[field]); n < min || n > max {
			return &FieldError{Field: field, Message: message}
		}
		return nil
	}
}

// Email fails when the field is not a plain valid email address.
func Email(field, message string) Rule {
	return func(form Form) *FieldError {
		value := form[field]
		addr, err := mail.ParseAddress(value)
		// Reject display names, whitespace and other RFC 5322 extras
		// that ParseAddress tolerates but an email field should not.
		if err != nil || addr.Address != value || strings.ContainsAny(value, " \t") {
			return &FieldError{Field: field, Message: message}
		}
		return nil
	}
}

// EqualsField fails when the field does not match another field of the form.
func EqualsField(field, other, message string) Rule {
	return func(form Form) *FieldError {
		if form[field] != form[other] {
			return &FieldError{Field: field, Message: message}
		}
		return nil
	}
}

// Custom wraps a predicate over the whole form. The predicate returns a
// failure message, or an empty string when the field is valid.
func Custom(field string, predicate func(value string, form Form) string) Rule {
	return func(form Form) *FieldError {
		if msg := predicate(form[field], form); msg != "" {
			return &FieldError{Field: field, Message: msg}
		}
		return nil
	}
}

func (fe FieldError) String() string {
	return fmt.Sprintf("%s: %s", fe.Field, fe.Message)
}
