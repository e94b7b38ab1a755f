// Package validation holds the field rules shared by the HTTP forms and the engine.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	goaway "github.com/TwiN/go-away"
	"github.com/go-playground/validator/v10"
)

// PasswordSpecials are the characters accepted as the special character of a password.
const PasswordSpecials = `!@#$%^&*(),.?":{}|<>`

const (
	PasswordMinLength = 4
	PasswordMaxLength = 24
)

// ErrWeakPassword is returned when a password breaks the password policy.
var ErrWeakPassword = errors.New("weak password")

var (
	once     sync.Once
	validate *validator.Validate
)

// Default returns the shared validator with the custom tags registered.
func Default() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		if err := Register(validate); err != nil {
			panic(err)
		}
	})
	return validate
}

// Register adds the "password" and "clean" tags to v and reports field names by their form tag.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	if err := v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return CheckPassword(fl.Field().String()) == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation("clean", func(fl validator.FieldLevel) bool {
		return IsClean(fl.Field().String())
	})
}

// Struct validates s with the shared validator.
func Struct(s any) error {
	return Default().Struct(s)
}

// CheckPassword enforces the password policy: 4 to 24 characters with at least one
// lowercase letter, one uppercase letter and one special character.
func CheckPassword(pw string) error {
	n := len([]rune(pw))
	if n < PasswordMinLength || n > PasswordMaxLength {
		return fmt.Errorf("%w: must be between %d and %d characters", ErrWeakPassword, PasswordMinLength, PasswordMaxLength)
	}
	var lower, upper, special bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		}
	}
	switch {
	case !lower:
		return fmt.Errorf("%w: must contain a lowercase letter", ErrWeakPassword)
	case !upper:
		return fmt.Errorf("%w: must contain an uppercase letter", ErrWeakPassword)
	case !special:
		return fmt.Errorf("%w: must contain one of %s", ErrWeakPassword, PasswordSpecials)
	}
	return nil
}

// IsClean reports whether s contains no profanity.
func IsClean(s string) bool {
	return !goaway.IsProfane(s)
}

// Format turns validator errors into a field to message map.
func Format(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "email":
			errs[field] = "Invalid email format"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s characters", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s characters", e.Param())
		case "gt", "gte":
			errs[field] = fmt.Sprintf("Must be greater than %s", strings.TrimSuffix(e.Param(), ".0"))
		case "eqfield":
			errs[field] = "Fields must match"
		case "datetime":
			errs[field] = "Use the YYYY-MM-DD format"
		case "password":
			errs[field] = fmt.Sprintf("Password must be %d-%d characters with a lowercase letter, an uppercase letter and one of %s",
				PasswordMinLength, PasswordMaxLength, PasswordSpecials)
		case "clean":
			errs[field] = "Contains inappropriate language"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}
