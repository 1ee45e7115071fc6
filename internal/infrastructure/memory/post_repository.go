package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	domain "wellness/portal/internal/domain/post"
)

// PostRepository keeps journal posts in process memory. Ids are assigned sequentially.
type PostRepository struct {
	mu      sync.Mutex
	nextID  int
	entries map[string]*domain.Entry
}

// NewPostRepository constructs an empty repository.
func NewPostRepository() *PostRepository {
	return &PostRepository{entries: make(map[string]*domain.Entry)}
}

var _ domain.Repository = (*PostRepository)(nil)

// Create stores entry, assigning its id.
func (r *PostRepository) Create(_ context.Context, entry *domain.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	entry.ID = strconv.Itoa(r.nextID)
	stored := *entry
	r.entries[entry.ID] = &stored
	return nil
}

// ListByOwner returns the owner's posts, newest first.
func (r *PostRepository) ListByOwner(_ context.Context, owner string) ([]*domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Entry
	for _, e := range r.entries {
		if e.Owner == owner {
			copy := *e
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		a, _ := strconv.Atoi(out[i].ID)
		b, _ := strconv.Atoi(out[j].ID)
		return a > b
	})
	return out, nil
}

// Delete removes the owner's post. Posts of other owners are reported as not found.
func (r *PostRepository) Delete(_ context.Context, owner string, typ domain.Type, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.Owner != owner || e.Type != typ {
		return domain.ErrPostNotFound
	}
	delete(r.entries, id)
	return nil
}
