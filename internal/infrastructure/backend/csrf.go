package backend

import (
	"context"
	"fmt"
	"net/http"
)

// CSRFToken returns the anti-forgery token for unsafe requests. The cookie wins because the
// backend rotates it on login; without one, the login page is fetched once, however many
// callers are waiting.
func (c *Client) CSRFToken(ctx context.Context) (string, error) {
	if token := c.cookieToken(); token != "" {
		return token, nil
	}

	// The fetch is shared, so one waiter giving up must not fail the others.
	v, err, _ := c.tokens.Do("csrf", func() (any, error) {
		return c.fetchPageToken(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", err
	}

	if token := c.cookieToken(); token != "" {
		return token, nil
	}
	if token, _ := v.(string); token != "" {
		return token, nil
	}
	return "", ErrNoCSRFToken
}

func (c *Client) cookieToken() string {
	for _, cookie := range c.http.Jar.Cookies(c.base) {
		if cookie.Name == c.cfg.CSRFCookie {
			return cookie.Value
		}
	}
	return ""
}

func (c *Client) fetchPageToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	cached := c.pageToken
	c.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	req, err := c.newRequest(ctx, http.MethodGet, c.cfg.LoginPath, nil)
	if err != nil {
		return "", err
	}
	body, resp, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("fetch login page: %w", err)
	}
	if !success(resp) {
		return "", statusError(resp)
	}

	doc, err := parseHTML(body)
	if err != nil {
		return "", fmt.Errorf("parse login page: %w", err)
	}
	token := hiddenInputValue(doc, c.cfg.CSRFField)

	c.mu.Lock()
	c.pageToken = token
	c.mu.Unlock()
	return token, nil
}
