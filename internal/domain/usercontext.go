package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// UserContext identifies the user an operation acts on. It is always passed
// explicitly by the caller.
type UserContext struct {
	Email string
}

// NewUserContext normalizes the email and validates it.
func NewUserContext(email string) (UserContext, error) {
	u := UserContext{Email: NormalizeEmail(email)}
	if err := u.Validate(); err != nil {
		return UserContext{}, err
	}
	return u, nil
}

// Validate checks that the context carries a usable identity.
func (u UserContext) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("%w: email %q is malformed", ErrInvalidInput, u.Email)
	}
	return nil
}

// NormalizeEmail lowercases and trims an email so it can be used as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
