package validator

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	playground "github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Input validation for admin-facing operations. Struct tags drive the
// rules; Struct() flattens failures into human-readable messages so the
// caller can report every problem at once instead of the first one.

var (
	validate     = newValidator()
	strictPolicy = bluemonday.StrictPolicy()
)

func newValidator() *playground.Validate {
	v := playground.New(playground.WithRequiredStructEnabled())
	// password: at least 8 chars with upper, lower and digit
	_ = v.RegisterValidation("password", func(fl playground.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	return v
}

// Struct validates a tagged struct and returns one message per failed rule.
// A nil return means the input passed every rule.
func Struct(s any) []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, messageFor(fe))
	}
	return messages
}

func messageFor(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", fe.Field(), fe.Param())
	case "password":
		return fmt.Sprintf("%s must be at least 8 characters with upper case, lower case and a digit", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

// IsStrongPassword reports whether a password satisfies the policy:
// minimum 8 characters including upper case, lower case and a digit.
func IsStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

// SanitizeText trims whitespace and strips any markup from a free-text
// field. Used at the input boundary for names and descriptions so angle
// brackets never reach the data store.
func SanitizeText(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}
