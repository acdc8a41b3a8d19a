package service

import (
	"fmt"
	"unicode"

	"github.com/vidsum/internal/auth"
	"github.com/vidsum/internal/config"
)

// passwordPolicyError 携带具体未满足的规则，errors.Is 时等同 ErrWeakPassword
type passwordPolicyError struct {
	rule string
}

func (e passwordPolicyError) Error() string {
	return e.rule
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if len(password) > auth.MaxPasswordBytes {
		return passwordPolicyError{rule: fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes)}
	}
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return passwordPolicyError{rule: fmt.Sprintf("password must be at least %d characters", policy.MinLength)}
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		default:
			hasSpecial = true
		}
	}

	switch {
	case policy.RequireUpper && !hasUpper:
		return passwordPolicyError{rule: "password must contain an uppercase letter"}
	case policy.RequireLower && !hasLower:
		return passwordPolicyError{rule: "password must contain a lowercase letter"}
	case policy.RequireNumber && !hasNumber:
		return passwordPolicyError{rule: "password must contain a digit"}
	case policy.RequireSpecial && !hasSpecial:
		return passwordPolicyError{rule: "password must contain a special character"}
	}
	return nil
}
