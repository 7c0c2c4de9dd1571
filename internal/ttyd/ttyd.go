// Package ttyd talks to the ttyd binary: fetching its stock index.html and
// producing the flags that serve a patched one.
package ttyd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os/exec"
	"strconv"
	"time"

	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/logger"
)

// ErrNoHTML means ttyd never served its index page.
var ErrNoHTML = errors.New("failed to fetch ttyd index.html (is ttyd installed?)")

const (
	basePort     = 19876
	pollAttempts = 30
	pollInterval = 200 * time.Millisecond
)

// Fetcher starts a throwaway ttyd and downloads its index page.
type Fetcher struct {
	Binary   string // defaults to "ttyd"
	Port     int    // 0 picks one in [19876, 20876)
	Attempts int
	Interval time.Duration
	Client   *http.Client
}

// FetchIndex runs Fetcher with defaults.
func FetchIndex(ctx context.Context) (string, error) {
	return (&Fetcher{}).Fetch(ctx)
}

func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	bin := f.Binary
	if bin == "" {
		bin = "ttyd"
	}
	port := f.Port
	if port == 0 {
		port = basePort + rand.IntN(1000)
	}
	attempts := f.Attempts
	if attempts <= 0 {
		attempts = pollAttempts
	}
	interval := f.Interval
	if interval <= 0 {
		interval = pollInterval
	}
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Second}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, "--port", strconv.Itoa(port), "-i", "127.0.0.1", "echo", "noop")
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoHTML, err)
	}
	defer func() {
		cmd.Process.Kill()
		cmd.Wait()
	}()
	logger.Debug("ttyd started", "pid", cmd.Process.Pid, "port", port)

	url := fmt.Sprintf("http://127.0.0.1:%d/", port)
	for i := 0; i < attempts; i++ {
		html, err := get(ctx, client, url)
		if err == nil && html != "" {
			return html, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}
	}
	return "", ErrNoHTML
}

func get(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ttyd returned %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Args returns the ttyd flags that serve index with cfg's theme and font.
func Args(cfg *config.Config, index string) ([]string, error) {
	theme, err := cfg.ThemeJSON()
	if err != nil {
		return nil, fmt.Errorf("encode theme: %w", err)
	}
	var args []string
	if index != "" {
		args = append(args, "--index", index)
	}
	args = append(args, "-t", "theme="+theme)
	if cfg.Font.Family != "" {
		args = append(args, "-t", "fontFamily="+cfg.Font.Family)
	}
	return args, nil
}
