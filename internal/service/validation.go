package service

import (
	"regexp"
	"strings"

	"invoice_generator/internal/model"
	"invoice_generator/internal/utils"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	phoneDigits       = 10
	minPasswordLength = 8
)

// IsEmail reports whether s looks like local@domain.tld
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPhone reports whether s is exactly ten ASCII digits
func IsValidPhone(s string) bool {
	if len(s) != phoneDigits {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsStrongPassword requires 8+ characters with an ASCII uppercase letter and an ASCII digit
func IsStrongPassword(s string) bool {
	if len([]rune(s)) < minPasswordLength {
		return false
	}
	var hasUpper, hasDigit bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasDigit
}

// normalizeSignup trims every field except the passwords
func normalizeSignup(in model.SignupInput) model.SignupInput {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	return in
}

func signupFieldsPresent(in model.SignupInput) bool {
	return in.FullName != "" && in.Username != "" && in.Email != "" && in.Phone != "" &&
		in.Password != "" && in.ConfirmPassword != ""
}

// checkSignupFormat runs the checks that come after the uniqueness lookups
func checkSignupFormat(in model.SignupInput) error {
	if !IsEmail(in.Email) {
		return ErrInvalidEmail
	}
	if !IsValidPhone(in.Phone) {
		return ErrInvalidPhone
	}
	if !IsStrongPassword(in.Password) {
		return ErrWeakPassword
	}
	if len(in.Password) > utils.MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}
