package user

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"wellness/portal/internal/domain/account"
	domain "wellness/portal/internal/domain/auth"

	"github.com/google/uuid"
)

// ErrResetTokenInvalid indicates an unknown or expired reset token.
var ErrResetTokenInvalid = errors.New("reset token invalid or expired")

// DefaultResetTTL bounds how long a reset link stays usable.
const DefaultResetTTL = time.Hour

type resetToken struct {
	userID  string
	expires time.Time
}

// Service issues password reset links for existing accounts.
type Service struct {
	repo    domain.UserRepository
	ttl     time.Duration
	nowFunc func() time.Time

	mu     sync.Mutex
	resets map[string]resetToken
}

// NewService constructs a user service around the provided repository.
func NewService(repo domain.UserRepository) *Service {
	return &Service{
		repo:    repo,
		ttl:     DefaultResetTTL,
		nowFunc: time.Now,
		resets:  make(map[string]resetToken),
	}
}

// RequestPasswordReset returns a fresh reset token for the account registered under email.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !account.ValidEmail(email) {
		return "", account.ErrInvalidEmail
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets[token] = resetToken{userID: u.ID, expires: s.nowFunc().Add(s.ttl)}
	return token, nil
}

// ResolveReset returns the user a reset token was issued for.
func (s *Service) ResolveReset(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.resets[token]
	if !ok {
		return "", ErrResetTokenInvalid
	}
	if s.nowFunc().After(rt.expires) {
		delete(s.resets, token)
		return "", ErrResetTokenInvalid
	}
	return rt.userID, nil
}
