// Package validation holds the client-side form rules. Every function is
// total on any string input and returns a human-readable reason for the first
// failing rule, or the empty string when the input is valid.
package validation

import (
	"regexp"
	"strings"
)

var (
	nameRe  = regexp.MustCompile(`^[a-zA-ZñÑáéíóúÁÉÍÓÚüÜ\s]+$`)
	emailRe = regexp.MustCompile(`^[\w._%+-]+@[\w.-]+\.(com|co)$`)
	phoneRe = regexp.MustCompile(`^\d{10}$`)

	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	digitRe  = regexp.MustCompile(`\d`)
	symbolRe = regexp.MustCompile(`[!@#$%^&*]`)
)

// ValidateName checks a first or last name.
func ValidateName(input string) string {
	trimmed := strings.TrimSpace(input)
	switch {
	case trimmed == "":
		return "this field is required"
	case len([]rune(trimmed)) < 2:
		return "must be at least 2 characters"
	case len([]rune(trimmed)) > 50:
		return "must be at most 50 characters"
	case !nameRe.MatchString(trimmed):
		return "only letters and spaces are allowed"
	default:
		return ""
	}
}

func ValidateEmail(email string) string {
	trimmed := strings.TrimSpace(email)
	switch {
	case trimmed == "":
		return "email is required"
	case !strings.Contains(trimmed, "@"):
		return "email must contain '@'"
	case !emailRe.MatchString(trimmed):
		return "email must end in '.com' or '.co'"
	default:
		return ""
	}
}

func ValidatePhone(phone string) string {
	trimmed := strings.TrimSpace(phone)
	switch {
	case trimmed == "":
		return "phone number is required"
	case !phoneRe.MatchString(trimmed):
		return "phone number must be exactly 10 digits"
	default:
		return ""
	}
}

func ValidatePassword(password string) string {
	switch {
	case password == "":
		return "password is required"
	case len(password) < 8:
		return "must be at least 8 characters"
	case !upperRe.MatchString(password):
		return "must contain at least one uppercase letter"
	case !lowerRe.MatchString(password):
		return "must contain at least one lowercase letter"
	case !digitRe.MatchString(password):
		return "must contain at least one digit"
	case !symbolRe.MatchString(password):
		return "must contain at least one symbol (!@#$%^&*)"
	default:
		return ""
	}
}

// ValidateConfirmPassword checks the confirmation field against the primary
// password, byte for byte.
func ValidateConfirmPassword(password, confirm string) string {
	switch {
	case confirm == "":
		return "please confirm your password"
	case confirm != password:
		return "passwords do not match"
	default:
		return ""
	}
}
