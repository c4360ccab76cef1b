package service

import (
	"fmt"

	"github.com/daniel-medina/website/internal/domain"
)

// validateUsername checks length bounds on an account username.
func validateUsername(username string) error {
	const op = "AdminService.validateUsername"

	if username == "" {
		return domain.Invalid(op, "Username is required")
	}
	if len(username) < MinUsernameLength {
		return domain.Invalid(op, fmt.Sprintf("Username must be at least %d characters", MinUsernameLength))
	}
	if len(username) > MaxUsernameLength {
		return domain.Invalid(op, fmt.Sprintf("Username must be %d characters or less", MaxUsernameLength))
	}
	return nil
}

// validatePassword checks length bounds on an account password.
func validatePassword(password string) error {
	const op = "AdminService.validatePassword"

	if len(password) < MinPasswordLength {
		return domain.Invalid(op, fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if len(password) > MaxPasswordLength {
		return domain.Invalid(op, fmt.Sprintf("Password must be %d characters or less", MaxPasswordLength))
	}
	return nil
}
