package query

import (
	"context"
	"fmt"

	"github.com/himapp/pos/internal/user/domain"
)

// CurrentUserQuery represents the query for the current session
type CurrentUserQuery struct{}

// CurrentUserHandler handles current user query
type CurrentUserHandler struct {
	sessions domain.SessionRepository
}

// NewCurrentUserHandler creates a new current user handler
func NewCurrentUserHandler(sessions domain.SessionRepository) *CurrentUserHandler {
	return &CurrentUserHandler{sessions: sessions}
}

// Handle returns the persisted session; an empty username means no user is
// logged in (cold-load recovery reads whatever the last process persisted).
func (h *CurrentUserHandler) Handle(ctx context.Context, query CurrentUserQuery) (domain.Session, error) {
	session, err := h.sessions.Current(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("failed to read session: %w", err)
	}
	return session, nil
}
