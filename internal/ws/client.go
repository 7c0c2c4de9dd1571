package ws

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/websocket"

	"github.com/connorads/webmux/internal/logger"
)

const (
	reconnectBase = time.Second
	reconnectMax  = 10 * time.Second
)

// Subscriber follows the signal websocket, reconnecting until its context
// is cancelled.
type Subscriber struct {
	URL string // e.g. "ws://127.0.0.1:7682/webmux/signal"

	OnHello   func(id string)
	OnContext func(context string)
	OnReload  func()
	OnState   func(state string, err error) // connecting, connected, disconnected

	Backoff *Backoff
}

// Run connects and dispatches messages until ctx is done.
func (s *Subscriber) Run(ctx context.Context) error {
	log := logger.With("signal")
	bo := s.Backoff
	if bo == nil {
		bo = NewBackoff(reconnectBase, reconnectMax)
	}
	for {
		s.state("connecting", nil)
		connected, err := s.serve(ctx)
		if ctx.Err() != nil {
			s.state("disconnected", ctx.Err())
			return ctx.Err()
		}
		if connected {
			bo.Reset()
		}
		s.state("disconnected", err)
		delay := bo.Next()
		log.Debug("signal channel lost, reconnecting", "err", err, "delay", delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (s *Subscriber) serve(ctx context.Context) (connected bool, err error) {
	conn, _, err := websocket.Dial(ctx, s.URL, nil)
	if err != nil {
		return false, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")
	s.state("connected", nil)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return true, fmt.Errorf("read: %w", err)
		}
		msg, err := Decode(data)
		if err != nil {
			logger.Warn("bad signal message", "err", err)
			continue
		}
		switch m := msg.(type) {
		case *Hello:
			if s.OnHello != nil {
				s.OnHello(m.ID)
			}
		case *ContextSignal:
			if s.OnContext != nil {
				s.OnContext(m.Context)
			}
		case *Reload:
			if s.OnReload != nil {
				s.OnReload()
			}
		case *ErrorMsg:
			logger.Warn("signal server error", "message", m.Message)
		}
	}
}

func (s *Subscriber) state(state string, err error) {
	if s.OnState != nil {
		s.OnState(state, err)
	}
}
