// Package client is a typed Go client for the portfolio JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type Client struct {
	base   string
	http   *http.Client
	token  string
	cookie string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithToken sends the token as a Bearer credential on every request.
func WithToken(token string) Option { return func(c *Client) { c.token = token } }

// WithAuthCookie sends the token in the named cookie instead of a header.
func WithAuthCookie(name string) Option { return func(c *Client) { c.cookie = name } }

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	switch {
	case c.token == "":
	case c.cookie != "":
		req.AddCookie(&http.Cookie{Name: c.cookie, Value: c.token})
	default:
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 300 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// Collection addresses one CMS collection, e.g. NewCollection[content.Project](c, "projects").
type Collection[T any] struct {
	c    *Client
	path string
}

func NewCollection[T any](c *Client, path string) *Collection[T] {
	return &Collection[T]{c: c, path: "/api/" + strings.Trim(path, "/")}
}

func (col *Collection[T]) List(ctx context.Context, filters url.Values) ([]T, error) {
	p := col.path
	if len(filters) > 0 {
		p += "?" + filters.Encode()
	}
	var out []T
	err := col.c.do(ctx, http.MethodGet, p, nil, &out)
	return out, err
}

func (col *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := col.c.do(ctx, http.MethodGet, col.path+"/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (col *Collection[T]) Create(ctx context.Context, doc *T) (*T, error) {
	var out T
	if err := col.c.do(ctx, http.MethodPost, col.path, doc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces the document stored under id.
func (col *Collection[T]) Update(ctx context.Context, id string, doc *T) (*T, error) {
	var out T
	if err := col.c.do(ctx, http.MethodPut, col.path+"/"+url.PathEscape(id), doc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (col *Collection[T]) Delete(ctx context.Context, id string) error {
	return col.c.do(ctx, http.MethodDelete, col.path+"/"+url.PathEscape(id), nil, nil)
}
