package core

import "strings"

const passwordSpecials = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"

// PasswordRequirements reports which sign-up password rules are met.
type PasswordRequirements struct {
	MinLength    bool
	HasUppercase bool
	HasLowercase bool
	HasNumber    bool
	HasSpecial   bool
}

// GetPasswordRequirements checks each rule independently so callers can
// show per-requirement feedback.
func GetPasswordRequirements(password string) PasswordRequirements {
	req := PasswordRequirements{MinLength: len([]rune(password)) >= 8}
	for _, r := range password {
		switch {
		case 'A' <= r && r <= 'Z':
			req.HasUppercase = true
		case 'a' <= r && r <= 'z':
			req.HasLowercase = true
		case '0' <= r && r <= '9':
			req.HasNumber = true
		case strings.ContainsRune(passwordSpecials, r):
			req.HasSpecial = true
		}
	}
	return req
}

// IsPasswordStrong reports whether every requirement is met.
func IsPasswordStrong(password string) bool {
	r := GetPasswordRequirements(password)
	return r.MinLength && r.HasUppercase && r.HasLowercase && r.HasNumber && r.HasSpecial
}
