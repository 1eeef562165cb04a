package command

import (
	"context"
	"fmt"

	"github.com/himapp/pos/internal/user/domain"
)

// LogoutUserCommand represents the command to logout the current user
type LogoutUserCommand struct{}

// LogoutUserHandler handles user logout command
type LogoutUserHandler struct {
	sessions domain.SessionRepository
}

// NewLogoutUserHandler creates a new logout user handler
func NewLogoutUserHandler(sessions domain.SessionRepository) *LogoutUserHandler {
	return &LogoutUserHandler{sessions: sessions}
}

// Handle clears the session and its persisted trace unconditionally
func (h *LogoutUserHandler) Handle(ctx context.Context, cmd LogoutUserCommand) error {
	if err := h.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}
