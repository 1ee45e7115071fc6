package post

import (
	"context"
	"fmt"
	"time"
)

// Entry is a stored post as the backend keeps it.
type Entry struct {
	ID        string
	Owner     string
	Type      Type
	Title     string
	Body      string
	CreatedAt time.Time
}

// DeletePath is the URL a list page under base advertises for deleting the entry.
func (e *Entry) DeletePath(base string) string {
	return fmt.Sprintf("%s%s/%s/delete/", base, e.Type, e.ID)
}

// Repository defines persistence behaviours for posts.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	ListByOwner(ctx context.Context, owner string) ([]*Entry, error)
	Delete(ctx context.Context, owner string, typ Type, id string) error
}
