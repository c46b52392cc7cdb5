package validation

import "testing"

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"single char", "a", false},
		{"single char padded", "  a  ", false},
		{"two chars", "Jo", true},
		{"accented", "Muñoz Pérez", true},
		{"with digit", "John3", false},
		{"with symbol", "John!", false},
		{"fifty chars", string(make50('a')), true},
		{"fifty one chars", string(make51('a')), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidateName(tt.input)
			if (msg == "") != tt.valid {
				t.Errorf("ValidateName(%q) = %q, want valid=%v", tt.input, msg, tt.valid)
			}
		})
	}
}

func make50(r rune) []rune {
	out := make([]rune, 50)
	for i := range out {
		out[i] = r
	}
	return out
}

func make51(r rune) []rune {
	return append(make50(r), r)
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"a@b.com", true},
		{"a@b.co", true},
		{"user.name+tag@sub.domain.com", true},
		{"a@b.net", false},
		{"ab.com", false},
		{"", false},
		{"   ", false},
		{"a@b.org", false},
		{"  a@b.com  ", true},
	}

	for _, tt := range tests {
		msg := ValidateEmail(tt.input)
		if (msg == "") != tt.valid {
			t.Errorf("ValidateEmail(%q) = %q, want valid=%v", tt.input, msg, tt.valid)
		}
	}
}

func TestValidateEmailFirstRuleWins(t *testing.T) {
	if msg := ValidateEmail("ab.com"); msg != "email must contain '@'" {
		t.Errorf("expected missing-@ message, got %q", msg)
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"3001234567", true},
		{"300123456", false},
		{"30012345678", false},
		{"300-123-4567", false},
		{"", false},
		{" 3001234567 ", true},
	}

	for _, tt := range tests {
		msg := ValidatePhone(tt.input)
		if (msg == "") != tt.valid {
			t.Errorf("ValidatePhone(%q) = %q, want valid=%v", tt.input, msg, tt.valid)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"good", "Abcdef1!", true},
		{"no upper no symbol", "abcdefg1", false},
		{"too short", "Ab1!", false},
		{"no digit", "Abcdefg!", false},
		{"no lowercase", "ABCDEFG1!", false},
		{"no symbol", "Abcdefg1", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidatePassword(tt.input)
			if (msg == "") != tt.valid {
				t.Errorf("ValidatePassword(%q) = %q, want valid=%v", tt.input, msg, tt.valid)
			}
		})
	}
}

func TestValidateConfirmPassword(t *testing.T) {
	if msg := ValidateConfirmPassword("Abcdef1!", "Abcdef1!"); msg != "" {
		t.Errorf("matching passwords should validate, got %q", msg)
	}
	if msg := ValidateConfirmPassword("Abcdef1!", "abcdef1!"); msg == "" {
		t.Error("mismatched passwords should fail")
	}
	if msg := ValidateConfirmPassword("Abcdef1!", ""); msg == "" {
		t.Error("empty confirmation should fail")
	}
}
