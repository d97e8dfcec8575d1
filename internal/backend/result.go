package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// Result is either OK with Data or failed with Err.
type Result[T any] struct {
	OK   bool
	Data T
	Err  error
}

func (r Result[T]) Unwrap() (T, error) {
	return r.Data, r.Err
}

func ok[T any](data T) Result[T] {
	return Result[T]{OK: true, Data: data}
}

func failed[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Fetch performs the call and decodes the payload into T. Responses shaped as
// {"success": bool, "data": ...} are unwrapped; any other body is decoded as T
// directly. An explicit success:false becomes a KindBackend *RequestError.
func Fetch[T any](ctx context.Context, c *Client, method, path string, body any) Result[T] {
	raw, err := c.Request(ctx, method, path, body)
	if err != nil {
		return failed[T](err)
	}
	data, err := Decode[T](raw)
	if err != nil {
		return failed[T](err)
	}
	return ok(data)
}

func GetJSON[T any](ctx context.Context, c *Client, path string) Result[T] {
	return Fetch[T](ctx, c, http.MethodGet, path, nil)
}

func PostJSON[T any](ctx context.Context, c *Client, path string, body any) Result[T] {
	return Fetch[T](ctx, c, http.MethodPost, path, body)
}

// Decode applies the envelope rules of Fetch to an already read body.
func Decode[T any](raw json.RawMessage) (T, error) {
	var out T

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err == nil && env.Success != nil {
			if !*env.Success {
				msg := env.Message
				if msg == "" {
					msg = defaultMessage
				}
				return out, &RequestError{Kind: KindBackend, Status: http.StatusOK, Message: msg}
			}
			if len(env.Data) > 0 && !bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
				trimmed = env.Data
			}
		}
	}

	if err := json.Unmarshal(trimmed, &out); err != nil {
		return out, &RequestError{Kind: KindBackend, Status: http.StatusOK, Message: "unexpected response shape", Err: err}
	}
	return out, nil
}
