package backend

import (
	"context"
	"fmt"
	"net/http"

	"wellness/portal/internal/domain/post"
)

// ListPosts scrapes the journal page.
func (c *Client) ListPosts(ctx context.Context) ([]post.Post, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.cfg.PostsPath, nil)
	if err != nil {
		return nil, err
	}
	body, resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if landedOn(resp, c.cfg.LoginPath) {
		return nil, ErrNotAuthenticated
	}
	if !success(resp) {
		return nil, statusError(resp)
	}

	doc, err := parseHTML(body)
	if err != nil {
		return nil, fmt.Errorf("parse posts page: %w", err)
	}
	return parsePosts(doc), nil
}

// DeletePost posts to the delete URL advertised by the list, echoing the csrf cookie in a header.
func (c *Client) DeletePost(ctx context.Context, deleteURL string) error {
	token, err := c.CSRFToken(ctx)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, deleteURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set(c.cfg.CSRFHeader, token)

	_, resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if !success(resp) {
		return fmt.Errorf("%w: status %d", post.ErrDeleteFailed, resp.StatusCode)
	}
	if landedOn(resp, c.cfg.LoginPath) {
		return fmt.Errorf("%w: %v", post.ErrDeleteFailed, ErrNotAuthenticated)
	}
	return nil
}
