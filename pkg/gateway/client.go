// Package gateway is the thin HTTP client for the backend layout resource.
//
// It implements layout.Gateway over the JSON contract:
//
//	GET  /api/layout?username=<name>  public fetch; 404 when the user is unknown
//	GET  /api/layout                  authenticated owner fetch; 401 without a session
//	POST /api/layout                  upsert the owner's layout
//
// The client maps HTTP statuses onto the structured error codes the layout
// store keys its behavior on: 404 becomes USER_NOT_FOUND (an empty-layout
// state, not a failure), 401 becomes UNAUTHORIZED, and 409 becomes
// STALE_REVISION. Layout operations are never retried here; the store's
// error policy decides what a failure means.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/maajidpp/linkza/pkg/errors"
	"github.com/maajidpp/linkza/pkg/layout"
	"github.com/maajidpp/linkza/pkg/tile"
)

// DefaultTimeout bounds every request issued by the client.
const DefaultTimeout = 15 * time.Second

// Client talks to one linkza backend.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sets the bearer token used for authenticated requests.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the backend at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, for use after login.
func (c *Client) SetToken(token string) { c.token = token }

// Fetch loads a layout by username, or the authenticated owner's layout
// when username is empty.
func (c *Client) Fetch(ctx context.Context, username string) (*layout.Layout, error) {
	u := c.baseURL + "/api/layout"
	if username != "" {
		u += "?username=" + url.QueryEscape(username)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build layout request")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch layout")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var lay layout.Layout
		if err := json.NewDecoder(resp.Body).Decode(&lay); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode layout")
		}
		return &lay, nil
	case http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeUserNotFound, "user %q not found", username)
	case http.StatusUnauthorized:
		return nil, errors.New(errors.ErrCodeUnauthorized, "not signed in")
	default:
		return nil, statusError(resp)
	}
}

type saveRequest struct {
	Tiles    []*tile.Tile `json:"tiles"`
	Revision int64        `json:"revision"`
}

// Save upserts the authenticated owner's layout.
func (c *Client) Save(ctx context.Context, tiles []*tile.Tile, revision int64) (*layout.Layout, error) {
	if tiles == nil {
		tiles = []*tile.Tile{}
	}
	body, err := json.Marshal(saveRequest{Tiles: tiles, Revision: revision})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/layout", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build save request")
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "save layout")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var lay layout.Layout
		if err := json.NewDecoder(resp.Body).Decode(&lay); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode saved layout")
		}
		return &lay, nil
	case http.StatusUnauthorized:
		return nil, errors.New(errors.ErrCodeUnauthorized, "not signed in")
	case http.StatusConflict:
		return nil, errors.New(errors.ErrCodeStaleRevision, "layout was modified elsewhere")
	default:
		return nil, statusError(resp)
	}
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func statusError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	code := errors.ErrCodeInternal
	if resp.StatusCode >= 500 {
		code = errors.ErrCodeNetwork
	}
	return errors.New(code, "layout API returned %d: %s", resp.StatusCode, trimmed(msg))
}

func trimmed(b []byte) string {
	const maxLen = 200
	s := string(b)
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}

var _ layout.Gateway = (*Client)(nil)
