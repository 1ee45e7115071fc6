package posts

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"wellness/portal/internal/domain/post"
	"wellness/portal/internal/ui"
)

// MsgNoPosts replaces the list once the last post is gone.
const MsgNoPosts = "No posts yet."

// Controller owns the journal list: which post is expanded and which is pending deletion.
type Controller struct {
	gateway post.Gateway

	mu      sync.Mutex
	posts   []post.Post
	open    string
	pending string
	confirm ui.Modal
}

// NewController constructs an empty list backed by gateway.
func NewController(gateway post.Gateway) *Controller {
	return &Controller{gateway: gateway}
}

// Load replaces the list with the backend's current posts and collapses the accordion.
func (c *Controller) Load(ctx context.Context) error {
	items, err := c.gateway.ListPosts(ctx)
	if err != nil {
		return fmt.Errorf("list posts: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts = items
	c.open = ""
	c.pending = ""
	c.confirm.Hide()
	return nil
}

// Posts returns a copy of the listed posts.
func (c *Controller) Posts() []post.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]post.Post(nil), c.posts...)
}

// Empty reports whether the list has no posts, in which case MsgNoPosts is shown.
func (c *Controller) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.posts) == 0
}

func (c *Controller) indexLocked(id string) int {
	for i, p := range c.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Toggle expands the post, collapsing any other; toggling the expanded post collapses it.
func (c *Controller) Toggle(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexLocked(id) < 0 {
		return post.ErrPostNotFound
	}
	if c.open == id {
		c.open = ""
	} else {
		c.open = id
	}
	return nil
}

// Expanded returns the id of the expanded post, if any.
func (c *Controller) Expanded() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// RequestDelete remembers the post to delete and opens the confirmation dialog.
func (c *Controller) RequestDelete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexLocked(id) < 0 {
		return post.ErrPostNotFound
	}
	c.pending = id
	c.confirm.Show()
	return nil
}

// CancelDelete closes the confirmation dialog and forgets the pending post.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = ""
	c.confirm.Hide()
}

// ConfirmVisible reports whether the confirmation dialog is shown.
func (c *Controller) ConfirmVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirm.Visible()
}

// ConfirmDelete deletes the pending post. Without a pending post it does nothing. On failure
// the post stays listed and the dialog stays open.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	idx := c.indexLocked(c.pending)
	if c.pending == "" || idx < 0 {
		c.mu.Unlock()
		return nil
	}
	target := c.posts[idx]
	c.mu.Unlock()

	if err := c.gateway.DeletePost(ctx, target.DeleteURL); err != nil {
		log.Printf("posts: delete %s failed: %v", target.ID, err)
		return fmt.Errorf("delete post %s: %w", target.ID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(target.ID); i >= 0 {
		c.posts = append(c.posts[:i], c.posts[i+1:]...)
	}
	if c.open == target.ID {
		c.open = ""
	}
	if c.pending == target.ID {
		c.pending = ""
		c.confirm.Hide()
	}
	return nil
}

// Render writes the list with the expanded post's body for a terminal.
func (c *Controller) Render(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.posts) == 0 {
		_, err := fmt.Fprintln(w, MsgNoPosts)
		return err
	}
	for i, p := range c.posts {
		marker := "+"
		if p.ID == c.open {
			marker = "-"
		}
		if _, err := fmt.Fprintf(w, "%s %d. [%s] %s\n", marker, i+1, p.Type, p.Title); err != nil {
			return err
		}
		if p.ID == c.open && p.Body != "" {
			if _, err := fmt.Fprintf(w, "    %s\n", p.Body); err != nil {
				return err
			}
		}
	}
	return nil
}
