// Package backend talks to the portal's web backend over HTTP: it keeps the session cookie,
// supplies the anti-forgery token and scrapes the few server-rendered pages the client needs.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	neturl "net/url"
	"strings"
	"sync"

	"wellness/portal/internal/config"
	"wellness/portal/internal/domain/account"
	"wellness/portal/internal/domain/post"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrUnexpectedStatus wraps non-success replies where the body carries no verdict.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrNoCSRFToken means neither the cookie nor the login page yielded a token.
	ErrNoCSRFToken = errors.New("no csrf token available")
	// ErrNotAuthenticated means the backend bounced a request to the login page.
	ErrNotAuthenticated = errors.New("not logged in")
)

// requestedWith marks programmatic requests so the backend answers with JSON.
const requestedWith = "XMLHttpRequest"

// Client is the HTTP gateway to the backend. It is safe for concurrent use.
type Client struct {
	cfg  config.Config
	base *neturl.URL
	http *http.Client

	tokens    singleflight.Group
	mu        sync.Mutex
	pageToken string
}

// Ensure Client satisfies the gateways the controllers depend on.
var (
	_ account.LoginGateway        = (*Client)(nil)
	_ account.RecoveryGateway     = (*Client)(nil)
	_ account.RegistrationGateway = (*Client)(nil)
	_ account.Navigator           = (*Client)(nil)
	_ post.Gateway                = (*Client)(nil)
)

// New constructs a client for cfg.BaseURL with an empty cookie jar.
func New(cfg config.Config) (*Client, error) {
	base, err := neturl.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.LogHTTP {
		transport = withLogging(transport)
	}

	return &Client{
		cfg:  cfg,
		base: base,
		http: &http.Client{
			Jar:       jar,
			Transport: transport,
			Timeout:   cfg.HTTPTimeout,
		},
	}, nil
}

func (c *Client) resolve(path string) string {
	if path == "" {
		path = c.cfg.LoginPath
	}
	ref, err := neturl.Parse(path)
	if err != nil {
		return c.base.String() + path
	}
	return c.base.ResolveReference(ref).String()
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return nil, err
	}
	if method != http.MethodGet {
		// Backends behind TLS refuse unsafe requests without a same-origin referer.
		req.Header.Set("Referer", c.base.String()+"/")
	}
	return req, nil
}

// do sends req and reads the whole body. The response is returned for status and final URL.
func (c *Client) do(req *http.Request) ([]byte, *http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp, fmt.Errorf("read %s %s: %w", req.Method, req.URL.Path, err)
	}
	return body, resp, nil
}

func (c *Client) postForm(ctx context.Context, path string, form neturl.Values, programmatic bool) ([]byte, *http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if programmatic {
		req.Header.Set("X-Requested-With", requestedWith)
	}
	return c.do(req)
}

// landedOn reports whether the request chain ended at path.
func landedOn(resp *http.Response, path string) bool {
	return resp != nil && resp.Request != nil && resp.Request.URL.Path == path
}

func statusError(resp *http.Response) error {
	return fmt.Errorf("%w: %s %s returned %d", ErrUnexpectedStatus, resp.Request.Method, resp.Request.URL.Path, resp.StatusCode)
}

func success(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Navigate loads a page of the application, following redirects.
func (c *Client) Navigate(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	_, resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", path, err)
	}
	if !success(resp) {
		return statusError(resp)
	}
	log.Printf("backend: navigated to %s", resp.Request.URL.Path)
	return nil
}
