// Package validation checks inbound request fields before they reach the
// service layer. Failures wrap common.ErrValidation so the HTTP layer can
// map them to a 400 response with errors.Is.
package validation

import (
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/contactbook/internal/common"
)

// emailPattern is intentionally loose: one '@', no whitespace, a dot in the
// domain part. Stricter checks belong to the confirmation mail round-trip.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// loginPattern allows latin letters, digits and underscores, 3-32 chars.
var loginPattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

const (
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt input limit
)

// ValidateEmail checks the basic shape of an email address.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email cannot be empty", common.ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", common.ErrValidation)
	}
	return nil
}

// ValidateLogin checks the account login name format.
func ValidateLogin(login string) error {
	if login == "" {
		return fmt.Errorf("%w: login cannot be empty", common.ErrValidation)
	}
	if !loginPattern.MatchString(login) {
		return fmt.Errorf("%w: login must be 3-32 characters of letters, digits or underscores", common.ErrValidation)
	}
	return nil
}

// ValidatePassword checks password length bounds.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters long", common.ErrValidation, minPasswordLen)
	}
	if len(password) > maxPasswordLen {
		return fmt.Errorf("%w: password must not exceed %d characters", common.ErrValidation, maxPasswordLen)
	}
	return nil
}

// ValidateContactName checks the mandatory contact name field.
func ValidateContactName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", common.ErrValidation)
	}
	if len(name) > 50 {
		return fmt.Errorf("%w: name must not exceed 50 characters", common.ErrValidation)
	}
	return nil
}
