// Package ws is the webmux signal channel: the JSON messages pushed over
// /webmux/signal and a reconnecting subscriber that consumes them. The
// subscriber builds for both native and js/wasm targets.
package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message types on the signal websocket.
const (
	// Server → subscriber
	TypeHello   = "webmux.hello"   // first message, carries the subscriber id
	TypeContext = "webmux.context" // switch drawer context; empty id means re-match the title
	TypeReload  = "webmux.reload"  // config changed; the page should reload to pick it up
	TypeError   = "error"
)

// Envelope wraps every message with a type field for routing.
type Envelope struct {
	Type string `json:"type"`
}

// Hello is sent once when a subscriber connects.
type Hello struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// ContextSignal asks every overlay to switch drawer context.
type ContextSignal struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Context   string `json:"context"`
	Timestamp int64  `json:"ts"` // unix millis
}

// Reload tells overlays the injected bundle changed.
type Reload struct {
	Type string `json:"type"`
}

// ErrorMsg reports a server-side problem to a subscriber.
type ErrorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewContextSignal stamps a context switch with a fresh id and the current time.
func NewContextSignal(context string) ContextSignal {
	return ContextSignal{
		Type:      TypeContext,
		ID:        uuid.New().String(),
		Context:   context,
		Timestamp: time.Now().UnixMilli(),
	}
}

// ContextRequest is the body of POST /webmux/context.
type ContextRequest struct {
	Context string `json:"context"`
}

// Decode parses a raw message into its concrete type. Unknown types are
// returned as an Envelope.
func Decode(data []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	var msg any
	switch env.Type {
	case TypeHello:
		msg = &Hello{}
	case TypeContext:
		msg = &ContextSignal{}
	case TypeReload:
		msg = &Reload{}
	case TypeError:
		msg = &ErrorMsg{}
	default:
		return &env, nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return msg, nil
}
