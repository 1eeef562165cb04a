package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/himapp/pos/internal/user/domain"
	"github.com/himapp/pos/pkg/auth"
	"github.com/himapp/pos/pkg/logger"
)

type contextKey string

const (
	// UsernameKey holds the authenticated username in the request context
	UsernameKey contextKey = "username"
)

// Guard gates a handler on the session state
type Guard func(http.HandlerFunc) http.HandlerFunc

// UsernameFromContext returns the authenticated username, if any
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

// AuthMiddleware is the route guard: every screen except login requires a
// valid token whose user still matches the persisted session, so logout
// revokes outstanding tokens.
func AuthMiddleware(sessions domain.SessionRepository) Guard {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Logger.Warn().Msg("Missing authorization header")
				respondError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Logger.Warn().Msg("Invalid authorization header format")
				respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			claims, err := auth.ValidateToken(parts[1])
			if err != nil {
				logger.Logger.Warn().Err(err).Msg("Invalid token")
				respondError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			session, err := sessions.Current(r.Context())
			if err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to read session")
				respondError(w, http.StatusInternalServerError, "Session check failed")
				return
			}
			if !session.Authenticated() || session.Username != claims.Username {
				logger.Logger.Warn().
					Str("username", claims.Username).
					Msg("No active session for token")
				respondError(w, http.StatusUnauthorized, "Not logged in")
				return
			}

			ctx := context.WithValue(r.Context(), UsernameKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{
		Success: false,
		Error:   message,
	})
}
