package v1

import "unicode/utf8"

// MinPasswordLength is the minimum accepted password length, in runes.
const MinPasswordLength = 8

// ValidatePassword checks a candidate password against the strength
// policy: at least MinPasswordLength characters, with at least one
// uppercase letter, one lowercase letter, one digit, and one character
// outside those classes. Pure; no I/O.
//
// On failure it returns a *PolicyError listing every violated rule.
func ValidatePassword(password string) error {
	var hasUpper, hasLower, hasDigit, hasSpecial bool

	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	var violations []Violation
	if utf8.RuneCountInString(password) < MinPasswordLength {
		violations = append(violations, ViolationTooShort)
	}
	if !hasUpper {
		violations = append(violations, ViolationNoUppercase)
	}
	if !hasLower {
		violations = append(violations, ViolationNoLowercase)
	}
	if !hasDigit {
		violations = append(violations, ViolationNoDigit)
	}
	if !hasSpecial {
		violations = append(violations, ViolationNoSpecial)
	}

	if len(violations) > 0 {
		return &PolicyError{Violations: violations}
	}
	return nil
}
