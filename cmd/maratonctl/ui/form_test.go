package ui

import (
	"strings"
	"testing"
)

func TestFieldValidators(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(string) error
		input   string
		wantErr bool
	}{
		{"email ok", validateEmail, " ana@example.com ", false},
		{"email bad", validateEmail, "ana@example", true},
		{"password ok", validatePassword, "Abcdef1!", false},
		{"password weak", validatePassword, "abcdefgh", true},
		{"password too long", validatePassword, "Abcdef1!" + strings.Repeat("a", 70), true},
		{"date ok", validateDate, "1990-02-03", false},
		{"date bad", validateDate, "03/02/1990", true},
		{"required blank", validateRequired("username"), "   ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMissing(t *testing.T) {
	if !(NewUser{Email: "a@b.com"}).Missing() {
		t.Error("partial user should be missing fields")
	}
	full := NewUser{Email: "a@b.com", Username: "ana", Password: "Abcdef1!", BirthDate: "1990-01-01"}
	if full.Missing() {
		t.Error("complete user reported missing fields")
	}
}

func TestDetailLine(t *testing.T) {
	line := detailLine("email", "ana@example.com")
	if !strings.HasPrefix(line, "  ") {
		t.Errorf("detail line not indented: %q", line)
	}
	if !strings.Contains(line, "email") || !strings.Contains(line, "ana@example.com") {
		t.Errorf("detail line = %q", line)
	}
}
