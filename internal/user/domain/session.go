package domain

import (
	"context"
	"errors"
)

// ErrInvalidCredentials is returned when the login pair does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session is the record of the currently authenticated user. A non-empty
// username means authenticated.
type Session struct {
	Username string `json:"username"`
}

// Authenticated reports whether the session carries a user
func (s Session) Authenticated() bool {
	return s.Username != ""
}

// CredentialVerifier is the pluggable credential-verification capability.
// Real identity-provider integration stays external.
type CredentialVerifier interface {
	Verify(username, password string) bool
}

// SessionRepository persists the single session username so a restart
// recovers it.
type SessionRepository interface {
	Current(ctx context.Context) (Session, error)
	Save(ctx context.Context, session Session) error
	Clear(ctx context.Context) error
}
