package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultURL = "https://chatgpt.com/backend-api/wham/usage"
	userAgent  = "OpenCode-Codex-Status/1.0"
)

// APIError is a non-2xx answer from the usage endpoint.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("OpenAI usage API error (%d): %s", e.Status, e.Body)
}

type Client struct {
	URL  string
	HTTP *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{URL: url, HTTP: &http.Client{Timeout: timeout}}
}

// Fetch queries the usage endpoint with token.
func (c *Client) Fetch(ctx context.Context, token string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build usage request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", userAgent)
	if id := ParseClaims(token).Auth.AccountID; id != "" {
		req.Header.Set("ChatGPT-Account-Id", id)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch OpenAI usage: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch OpenAI usage: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return ParseResponse(body)
}

// Window is one rate limit window.
type Window struct {
	UsedPercent        float64
	LimitWindowSeconds float64
	ResetAfterSeconds  float64
}

type RateLimit struct {
	LimitReached bool
	Primary      Window
	Secondary    *Window
}

type Response struct {
	PlanType  string
	RateLimit *RateLimit // nil when the server has no data
}

// ParseResponse decodes the usage payload leniently: unexpected field types
// fall back to defaults instead of failing. Only a non-object body is an
// error.
func ParseResponse(data []byte) (*Response, error) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, fmt.Errorf("unexpected OpenAI usage response format")
	}
	r := &Response{PlanType: "unknown"}
	if plan, ok := obj["plan_type"].(string); ok {
		r.PlanType = plan
	}
	r.RateLimit = parseRateLimit(obj["rate_limit"])
	return r, nil
}

func parseRateLimit(v any) *RateLimit {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	primary, ok := parseWindow(obj["primary_window"])
	if !ok {
		return nil
	}
	rl := &RateLimit{Primary: primary}
	rl.LimitReached, _ = obj["limit_reached"].(bool)
	if w, ok := parseWindow(obj["secondary_window"]); ok {
		rl.Secondary = &w
	}
	return rl
}

func parseWindow(v any) (Window, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Window{}, false
	}
	used, ok1 := obj["used_percent"].(float64)
	window, ok2 := obj["limit_window_seconds"].(float64)
	reset, ok3 := obj["reset_after_seconds"].(float64)
	if !ok1 || !ok2 || !ok3 {
		return Window{}, false
	}
	return Window{UsedPercent: used, LimitWindowSeconds: window, ResetAfterSeconds: reset}, true
}
