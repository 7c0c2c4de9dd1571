// Package ntfy sends push notifications via ntfy.sh or a self-hosted ntfy
// server.
package ntfy

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/connorads/webmux/internal/logger"
)

// Event names accepted in the events list.
const (
	EventIdle      = "idle"
	EventError     = "error"
	EventAttention = "attention"
)

type Client struct {
	url    string // full URL: https://ntfy.sh/{topic}
	token  string // optional bearer token for reserved topics
	events map[string]bool
	http   *http.Client
}

// New creates a new ntfy client. Topic can be a bare topic name (expanded to
// https://ntfy.sh/{topic}) or a full URL (https://ntfy.example.com/mytopic).
// Events is a comma-separated list of event types to send (e.g. "idle,attention").
func New(topic, token, events string) *Client {
	url := topic
	if !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		url = "https://ntfy.sh/" + topic
	}
	evMap := make(map[string]bool)
	for _, e := range strings.Split(events, ",") {
		e = strings.TrimSpace(e)
		if e != "" {
			evMap[e] = true
		}
	}
	return &Client{url: url, token: token, events: evMap, http: &http.Client{Timeout: 10 * time.Second}}
}

// Enabled reports whether event is in the client's events list.
func (c *Client) Enabled(event string) bool {
	return c.events[event]
}

// SendIdle reports a finished session. Filtered events return nil.
func (c *Client) SendIdle(ctx context.Context, app, label string) error {
	if !c.events[EventIdle] {
		return nil
	}
	return c.post(ctx, app+" finished", label, "default", "white_check_mark")
}

// SendError reports a failed session.
func (c *Client) SendError(ctx context.Context, app, label string) error {
	if !c.events[EventError] {
		return nil
	}
	return c.post(ctx, app+" failed", label, "high", "x")
}

// SendAttention reports a session waiting on the user (a permission prompt
// or a question).
func (c *Client) SendAttention(ctx context.Context, app, label string) error {
	if !c.events[EventAttention] {
		return nil
	}
	return c.post(ctx, app+" needs input", label, "high", "bell")
}

// SendTest sends a test notification regardless of the events list.
func (c *Client) SendTest(ctx context.Context) error {
	return c.post(ctx, "webmux test", "Push notifications are working!", "default", "test_tube")
}

func (c *Client) post(ctx context.Context, title, body, priority, tags string) error {
	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBufferString(body))
	if err != nil {
		return fmt.Errorf("ntfy: build request: %w", err)
	}
	req.Header.Set("Title", title)
	req.Header.Set("Priority", priority)
	req.Header.Set("Tags", tags)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ntfy: post: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("ntfy: HTTP %d", resp.StatusCode)
	}
	logger.Debug("ntfy sent", "title", title)
	return nil
}
