package user

import (
	"context"
	"testing"
	"time"

	"wellness/portal/internal/domain/account"
	domain "wellness/portal/internal/domain/auth"
	"wellness/portal/internal/infrastructure/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestPasswordReset(t *testing.T) {
	repo := memory.NewUserRepository()
	require.NoError(t, repo.Create(context.Background(), &domain.User{ID: "u1", Email: "ada@example.com"}))
	svc := NewService(repo)
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	svc.nowFunc = func() time.Time { return now }

	_, err := svc.RequestPasswordReset(context.Background(), "not-an-email")
	assert.ErrorIs(t, err, account.ErrInvalidEmail)

	_, err = svc.RequestPasswordReset(context.Background(), "bob@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	token, err := svc.RequestPasswordReset(context.Background(), " Ada@Example.com ")
	require.NoError(t, err)
	userID, err := svc.ResolveReset(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	now = now.Add(DefaultResetTTL + time.Second)
	_, err = svc.ResolveReset(token)
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}
