package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/connorads/webmux/internal/ws"
)

// SendSignal asks a running `webmux serve` at baseURL to switch every
// overlay to context id. An empty id makes overlays re-match the title.
func SendSignal(ctx context.Context, baseURL, id string) (*SignalResult, error) {
	body, err := json.Marshal(ws.ContextRequest{Context: id})
	if err != nil {
		return nil, err
	}
	url := strings.TrimRight(baseURL, "/") + ContextPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send signal: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("send signal: %d %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	var res SignalResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode signal response: %w", err)
	}
	return &res, nil
}
