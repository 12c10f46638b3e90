// Package ecwid is a thin passthrough to the Ecwid storefront API. The
// upstream's status code and body are relayed to the caller untouched; this
// service adds only credentials and transport.
package ecwid

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const apiBase = "https://app.ecwid.com/api/v3"

type Client struct {
	storeID string
	token   string
	base    string
	http    *http.Client
}

func New(storeID, token string) *Client {
	return &Client{
		storeID: storeID,
		token:   token,
		base:    fmt.Sprintf("%s/%s", apiBase, storeID),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// WithBaseURL overrides the upstream endpoint; used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.base = base
	return c
}

// Response is the relayed upstream reply.
type Response struct {
	Status int
	Body   []byte
}

func (c *Client) Products(ctx context.Context, query url.Values) (*Response, error) {
	return c.get(ctx, "/products", query)
}

func (c *Client) Product(ctx context.Context, id string) (*Response, error) {
	return c.get(ctx, "/products/"+url.PathEscape(id), nil)
}

func (c *Client) Categories(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/categories", url.Values{"limit": {"1000"}})
}

func (c *Client) Orders(ctx context.Context, query url.Values) (*Response, error) {
	return c.get(ctx, "/orders", query)
}

func (c *Client) Profile(ctx context.Context) (*Response, error) {
	return c.get(ctx, "/profile", nil)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*Response, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{Status: resp.StatusCode, Body: body}, nil
}
