// Package serve runs webmux in front of ttyd: it serves ttyd's page with the
// overlay injected, proxies everything else, and pushes drawer context
// signals to connected overlays over a websocket.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/connorads/webmux/internal/bundle"
	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/logger"
	"github.com/connorads/webmux/internal/ws"
)

const (
	SignalPath  = "/webmux/signal"
	ContextPath = "/webmux/context"

	maxContextBody = 4 << 10
	shutdownGrace  = 5 * time.Second
)

// Bundler produces the overlay for a config. bundle.Builder satisfies it.
type Bundler interface {
	Build(ctx context.Context, cfg *config.Config) (*bundle.Bundle, error)
}

type Server struct {
	hub      *Hub
	bundler  Bundler
	upstream *url.URL
	proxy    *httputil.ReverseProxy
	limiter  *rate.Limiter
	client   *http.Client

	mu     sync.Mutex
	cfg    *config.Config
	bundle *bundle.Bundle
	index  string // upstream page with the overlay injected
}

func New(cfg *config.Config, bundler Bundler) (*Server, error) {
	upstream, err := url.Parse(cfg.Serve.Upstream)
	if err != nil || upstream.Host == "" {
		return nil, fmt.Errorf("invalid upstream %q", cfg.Serve.Upstream)
	}
	proxy := httputil.NewSingleHostReverseProxy(upstream)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Warn("proxy to ttyd failed", "path", r.URL.Path, "err", err)
		http.Error(w, "ttyd unavailable", http.StatusBadGateway)
	}
	return &Server{
		hub:      NewHub(),
		bundler:  bundler,
		upstream: upstream,
		proxy:    proxy,
		limiter:  rate.NewLimiter(rate.Limit(cfg.Serve.SignalRate), cfg.Serve.SignalBurst),
		client:   &http.Client{Timeout: 10 * time.Second},
		cfg:      cfg,
	}, nil
}

// Hub exposes the signal hub.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET "+SignalPath, s.hub)
	mux.HandleFunc("POST "+ContextPath, s.handleContext)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /index.html", s.handleIndex)
	mux.Handle("/", s.proxy)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := s.Index(r.Context())
	if err != nil {
		logger.Error("serve index", "err", err)
		http.Error(w, "failed to build page", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	io.WriteString(w, page)
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}
	var req ws.ContextRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxContextBody)).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Context != "" {
		s.mu.Lock()
		_, known := s.cfg.Drawer.Context(req.Context)
		s.mu.Unlock()
		if !known {
			logger.Debug("signal for unknown context, overlays will re-match the title", "context", req.Context)
		}
	}

	sig := ws.NewContextSignal(req.Context)
	n := s.hub.Broadcast(sig)
	logger.Info("context signal", "context", req.Context, "delivered", n)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SignalResult{ID: sig.ID, Delivered: n})
}

// SignalResult is the response to POST /webmux/context.
type SignalResult struct {
	ID        string `json:"id"`
	Delivered int    `json:"delivered"`
}

// Index returns ttyd's page with the overlay injected, building and caching
// both on first use.
func (s *Server) Index(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index != "" {
		return s.index, nil
	}
	if s.bundle == nil {
		b, err := s.bundler.Build(ctx, s.cfg)
		if err != nil {
			return "", fmt.Errorf("build overlay: %w", err)
		}
		s.bundle = b
	}
	page, err := s.fetchUpstream(ctx)
	if err != nil {
		return "", err
	}
	injected, err := bundle.Inject(page, s.bundle, s.cfg)
	if err != nil {
		return "", fmt.Errorf("inject overlay: %w", err)
	}
	s.index = injected
	return injected, nil
}

func (s *Server) fetchUpstream(ctx context.Context) (string, error) {
	u := s.upstream.ResolveReference(&url.URL{Path: "/"})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch ttyd index: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch ttyd index: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read ttyd index: %w", err)
	}
	return string(body), nil
}

// Reload swaps in cfg, drops the cached page and tells overlays to reload.
func (s *Server) Reload(cfg *config.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.bundle = nil
	s.index = ""
	s.mu.Unlock()
	s.limiter.SetLimit(rate.Limit(cfg.Serve.SignalRate))
	s.limiter.SetBurst(cfg.Serve.SignalBurst)
	n := s.hub.Broadcast(ws.Reload{Type: ws.TypeReload})
	logger.Info("config reloaded, overlays notified", "subscribers", n)
}

// Run listens on addr and, when configPath is set, reloads on config edits.
// It returns when ctx is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context, addr, configPath string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("webmux serving", "addr", addr, "upstream", s.upstream.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.hub.CloseAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if configPath != "" {
		g.Go(func() error {
			return config.Watch(ctx, configPath, s.Reload)
		})
	}
	return g.Wait()
}
