package profile

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate normalizes the input and checks it against the field rules.
// It returns the normalized input and a *ValidationError on failure.
func (in Input) Validate() (Input, error) {
	in = in.Normalize()

	err := validate.Struct(in)
	if err == nil {
		return in, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return in, NewValidationError("validation failed", nil)
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return in, NewValidationError("validation failed", fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "contains":
		return "must be a " + fe.Param() + " URL"
	default:
		return "is invalid"
	}
}

// requireFields enforces the invariant every stored record satisfies,
// independent of Input validation.
func requireFields(p *Profile) error {
	fields := map[string]string{}
	if strings.TrimSpace(p.FirstName) == "" {
		fields["first_name"] = "is required"
	}
	if strings.TrimSpace(p.LastName) == "" {
		fields["last_name"] = "is required"
	}
	if strings.TrimSpace(p.Email) == "" {
		fields["email"] = "is required"
	}
	if len(fields) > 0 {
		return NewValidationError("validation failed", fields)
	}
	return nil
}

// EmailKey returns the case-insensitive identity of an email address.
func EmailKey(email string) string {
	return fold(strings.TrimSpace(email))
}

// fold case-folds s for case-insensitive matching. A Caser is stateful, so
// each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
