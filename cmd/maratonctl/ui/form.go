package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/maraton/maraton-api/internal/validation"
)

// NewUser is what create-user collects
type NewUser struct {
	Email     string
	Username  string
	Password  string
	BirthDate string
}

// Missing reports whether any field still has to be asked for
func (u NewUser) Missing() bool {
	return u.Email == "" || u.Username == "" || u.Password == "" || u.BirthDate == ""
}

// RunUserForm asks for the fields not already set in u
func RunUserForm(u NewUser) (NewUser, error) {
	var fields []huh.Field

	if u.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Placeholder("ana@example.com").
			Value(&u.Email).
			Validate(validateEmail))
	}
	if u.Username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(&u.Username).
			Validate(validateRequired("username")))
	}
	if u.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			Description("8+ chars with upper, lower, digit and one of @$!%*?&#.").
			EchoMode(huh.EchoModePassword).
			Value(&u.Password).
			Validate(validatePassword))
	}
	if u.BirthDate == "" {
		fields = append(fields, huh.NewInput().
			Title("Birth date").
			Placeholder("YYYY-MM-DD").
			Value(&u.BirthDate).
			Validate(validateDate))
	}

	if len(fields) == 0 {
		return u, nil
	}

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCatppuccin())
	if err := form.Run(); err != nil {
		return u, err
	}

	u.Email = strings.TrimSpace(u.Email)
	u.Username = strings.TrimSpace(u.Username)
	u.BirthDate = strings.TrimSpace(u.BirthDate)
	return u, nil
}

func validateEmail(s string) error {
	if !validation.IsEmail(strings.TrimSpace(s)) {
		return errors.New("invalid email")
	}
	return nil
}

func validatePassword(s string) error {
	if !validation.IsStrongPassword(s) {
		return fmt.Errorf("password needs 8 to %d characters with upper, lower, digit and symbol", validation.MaxPasswordBytes)
	}
	return nil
}

func validateDate(s string) error {
	if _, err := validation.ParseDate(strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func validateRequired(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
