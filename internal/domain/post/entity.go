package post

import (
	"context"
	"errors"
)

var (
	// ErrPostNotFound indicates the referenced post is not in the loaded list.
	ErrPostNotFound = errors.New("post not found")
	// ErrDeleteFailed indicates the backend refused a delete.
	ErrDeleteFailed = errors.New("failed to delete post")
)

// Type distinguishes daily journal entries from mood entries.
type Type string

const (
	// TypeDaily is a free-text daily journal entry.
	TypeDaily Type = "daily"
	// TypeMood is a mood tracker entry.
	TypeMood Type = "mood"
)

// Post is a journal entry as listed on the posts page.
type Post struct {
	ID        string
	Type      Type
	Title     string
	Body      string
	DeleteURL string
}

// Gateway reads and deletes posts on the backend.
type Gateway interface {
	ListPosts(ctx context.Context) ([]Post, error)
	DeletePost(ctx context.Context, deleteURL string) error
}
