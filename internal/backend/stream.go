package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// StreamEvent is one `data:` line of the agent chat stream.
type StreamEvent struct {
	Token string `json:"token,omitempty"`
	Error string `json:"error,omitempty"`
}

const maxStreamLine = 1 << 20

// Stream posts body to path and calls fn for every `data:` event in arrival
// order until the backend closes the stream. Lines without the prefix are
// skipped. No deadline is applied beyond ctx.
func (c *Client) Stream(ctx context.Context, path string, body any, fn func(StreamEvent) error) error {
	started := time.Now()
	err := c.stream(ctx, path, body, fn)

	outcome := "ok"
	if err != nil {
		outcome = outcomeOf(err)
		slog.Error("backend stream failed", "path", path, "err", err)
	}
	if c.observer != nil {
		c.observer.BackendRequest(http.MethodPost, endpointOf(path), outcome, time.Since(started))
	}
	return err
}

func (c *Client) stream(ctx context.Context, path string, body any, fn func(StreamEvent) error) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Kind: KindNetwork, Message: defaultMessage, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Kind: KindBackend, Status: resp.StatusCode, Message: "서버 응답 오류"}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStreamLine)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}

		var ev StreamEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return &RequestError{Kind: KindBackend, Status: resp.StatusCode, Message: "invalid stream event", Err: err}
		}
		if err := fn(ev); err != nil {
			return fmt.Errorf("handle stream event: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return &RequestError{Kind: KindNetwork, Status: resp.StatusCode, Message: defaultMessage, Err: err}
	}
	return nil
}
