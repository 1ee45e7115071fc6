package journal

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "wellness/portal/internal/domain/post"
)

// Service encapsulates journal post use cases for the signed in owner.
type Service struct {
	repo    domain.Repository
	nowFunc func() time.Time
}

// NewService constructs a journal service.
func NewService(repo domain.Repository) *Service {
	return &Service{
		repo:    repo,
		nowFunc: time.Now,
	}
}

// CreateInput contains the payload required for post creation.
type CreateInput struct {
	Type  domain.Type
	Title string
	Body  string
}

// Create stores a new post after validation.
func (s *Service) Create(ctx context.Context, owner string, input CreateInput) (*domain.Entry, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, errors.New("title is required")
	}
	switch input.Type {
	case domain.TypeDaily, domain.TypeMood:
	case "":
		input.Type = domain.TypeDaily
	default:
		return nil, errors.New("unknown post type")
	}

	entry := &domain.Entry{
		Owner:     owner,
		Type:      input.Type,
		Title:     input.Title,
		Body:      input.Body,
		CreatedAt: s.nowFunc().UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns the owner's posts, newest first.
func (s *Service) List(ctx context.Context, owner string) ([]*domain.Entry, error) {
	return s.repo.ListByOwner(ctx, owner)
}

// Delete removes one of the owner's posts.
func (s *Service) Delete(ctx context.Context, owner string, typ domain.Type, id string) error {
	return s.repo.Delete(ctx, owner, typ, id)
}
