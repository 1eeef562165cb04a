package command

import (
	"context"
	"fmt"

	"github.com/himapp/pos/internal/user/domain"
	"github.com/himapp/pos/pkg/auth"
)

// LoginUserCommand represents the command to login a user
type LoginUserCommand struct {
	Username string
	Password string
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	sessions domain.SessionRepository
	verifier domain.CredentialVerifier
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(sessions domain.SessionRepository, verifier domain.CredentialVerifier) *LoginUserHandler {
	return &LoginUserHandler{sessions: sessions, verifier: verifier}
}

// Handle executes the login user command. A failed verification leaves the
// prior session untouched.
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*LoginResponse, error) {
	if cmd.Username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if cmd.Password == "" {
		return nil, fmt.Errorf("password is required")
	}

	if !h.verifier.Verify(cmd.Username, cmd.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	if err := h.sessions.Save(ctx, domain.Session{Username: cmd.Username}); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	token, err := auth.GenerateToken(cmd.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{Token: token, Username: cmd.Username}, nil
}
