package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himapp/pos/internal/user/domain"
	"github.com/himapp/pos/internal/user/repository"
	"github.com/himapp/pos/internal/user/usecase/query"
	"github.com/himapp/pos/pkg/auth"
	"github.com/himapp/pos/pkg/storage"
)

func setupLogin(t *testing.T) (domain.SessionRepository, *LoginUserHandler) {
	t.Helper()
	sessions := repository.NewStorageSessionRepository(storage.NewMemoryStorage())
	verifier, err := domain.NewStaticVerifier("admin", "admin")
	require.NoError(t, err)
	return sessions, NewLoginUserHandler(sessions, verifier)
}

func TestLoginUser_Success(t *testing.T) {
	sessions, handler := setupLogin(t)
	ctx := context.Background()

	resp, err := handler.Handle(ctx, LoginUserCommand{Username: "admin", Password: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Username)

	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	session, err := sessions.Current(ctx)
	require.NoError(t, err)
	assert.True(t, session.Authenticated())
	assert.Equal(t, "admin", session.Username)
}

func TestLoginUser_WrongCredentials(t *testing.T) {
	sessions, handler := setupLogin(t)
	ctx := context.Background()

	cases := []LoginUserCommand{
		{Username: "admin", Password: "wrong"},
		{Username: "root", Password: "admin"},
	}
	for _, cmd := range cases {
		_, err := handler.Handle(ctx, cmd)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}

	// A failed login leaves no session behind.
	session, err := sessions.Current(ctx)
	require.NoError(t, err)
	assert.False(t, session.Authenticated())
}

func TestLoginUser_MissingFields(t *testing.T) {
	_, handler := setupLogin(t)
	ctx := context.Background()

	_, err := handler.Handle(ctx, LoginUserCommand{Password: "admin"})
	assert.Error(t, err)

	_, err = handler.Handle(ctx, LoginUserCommand{Username: "admin"})
	assert.Error(t, err)
}

func TestLogoutUser_ClearsSession(t *testing.T) {
	sessions, login := setupLogin(t)
	ctx := context.Background()

	_, err := login.Handle(ctx, LoginUserCommand{Username: "admin", Password: "admin"})
	require.NoError(t, err)

	require.NoError(t, NewLogoutUserHandler(sessions).Handle(ctx, LogoutUserCommand{}))

	session, err := sessions.Current(ctx)
	require.NoError(t, err)
	assert.False(t, session.Authenticated())
}

func TestCurrentUser_ColdLoad(t *testing.T) {
	// A fresh process reads whatever the previous one persisted.
	store := storage.NewMemoryStorage()
	require.NoError(t, store.Save(context.Background(), storage.SessionKey, []byte("admin")))

	sessions := repository.NewStorageSessionRepository(store)
	handler := query.NewCurrentUserHandler(sessions)

	session, err := handler.Handle(context.Background(), query.CurrentUserQuery{})
	require.NoError(t, err)
	assert.Equal(t, "admin", session.Username)
	assert.True(t, session.Authenticated())
}
