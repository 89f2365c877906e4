// Package validation wraps a shared go-playground/validator instance with the
// rules used by the auth and user endpoints.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const passwordSymbols = "@$!%*?&#."

// FieldError is a single failed rule on a named field.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// Errors collects every failed rule of a struct.
type Errors []FieldError

func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// GetValidator returns the singleton validator with the custom tags
// registered. Field names in errors come from json tags.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		mustRegister("email_basic", func(fl validator.FieldLevel) bool {
			return IsEmail(fl.Field().String())
		})
		mustRegister("strong_password", func(fl validator.FieldLevel) bool {
			return IsStrongPassword(fl.Field().String())
		})
		mustRegister("iso_date", func(fl validator.FieldLevel) bool {
			_, err := ParseDate(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// ValidateStruct returns nil or Errors in field declaration order.
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe.Field(), fe.Tag()),
		})
	}
	return out
}

// Var checks a single value against a tag, e.g. Var(email, "email_basic").
func Var(value any, tag string) error {
	if err := GetValidator().Var(value, tag); err != nil {
		return FieldError{Tag: tag, Message: message("", tag)}
	}
	return nil
}

func message(field, tag string) string {
	switch tag {
	case "required":
		if field == "" {
			return "campo requerido"
		}
		return fmt.Sprintf("el campo %s es requerido", field)
	case "email_basic":
		return "Formato de email inválido"
	case "strong_password":
		return "La contraseña debe tener entre 8 y 72 caracteres, incluyendo mayúsculas, minúsculas, números y un carácter especial (@$!%*?&#.)"
	case "iso_date":
		return "Formato de fecha inválido. Use formato ISO: YYYY-MM-DD"
	default:
		return fmt.Sprintf("el campo %s no es válido (%s)", field, tag)
	}
}

// IsEmail applies the loose user@host.tld shape check.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// MaxPasswordBytes is the longest input bcrypt accepts
const MaxPasswordBytes = 72

// IsStrongPassword requires 8 to MaxPasswordBytes characters drawn from
// letters, digits and @$!%*?&#., with at least one lowercase, uppercase,
// digit and symbol.
func IsStrongPassword(s string) bool {
	if len(s) < 8 || len(s) > MaxPasswordBytes {
		return false
	}

	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}

// ParseDate accepts YYYY-MM-DD or a full RFC3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}
