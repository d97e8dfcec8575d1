package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Observer receives one call per finished backend request.
type Observer interface {
	BackendRequest(method, endpoint, outcome string, took time.Duration)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   Observer
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request performs a single JSON call against the backend and returns the raw
// response body. A non-2xx status or a failed round trip yields *RequestError.
func (c *Client) Request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	started := time.Now()
	endpoint := endpointOf(path)

	raw, err := c.do(ctx, method, path, body)

	outcome := "ok"
	if err != nil {
		outcome = outcomeOf(err)
		slog.Error("backend request failed", "method", method, "path", endpoint, "err", err)
	} else {
		slog.Debug("backend request", "method", method, "path", endpoint, "took", time.Since(started))
	}
	if c.observer != nil {
		c.observer.BackendRequest(method, endpoint, outcome, time.Since(started))
	}
	return raw, err
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Kind: KindNetwork, Message: defaultMessage, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Kind: KindNetwork, Status: resp.StatusCode, Message: defaultMessage, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{Kind: KindBackend, Status: resp.StatusCode, Message: messageOf(data)}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(data) {
		return nil, &RequestError{Kind: KindBackend, Status: resp.StatusCode, Message: "invalid response body"}
	}
	return json.RawMessage(data), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodDelete, path, nil)
}

// endpointOf strips the query string and numeric ids so metric labels stay bounded.
func endpointOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p != "" && strings.Trim(p, "0123456789") == "" {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
