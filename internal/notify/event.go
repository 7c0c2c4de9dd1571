package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Session lifecycle event types.
const (
	SessionCreated  = "session.created"
	SessionUpdated  = "session.updated"
	SessionIdle     = "session.idle"
	SessionError    = "session.error"
	PermissionAsked = "permission.asked"
	QuestionAsked   = "question.asked"
)

// Event is one lifecycle event as emitted by the coding agent's event bus.
type Event struct {
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
}

type Properties struct {
	SessionID string       `json:"sessionID,omitempty"`
	Info      *SessionInfo `json:"info,omitempty"`
}

type SessionInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Decode reads a stream of JSON events, either a single object or one per
// line, and calls fn for each until EOF.
func Decode(r io.Reader, fn func(Event) error) error {
	dec := json.NewDecoder(r)
	for n := 0; ; n++ {
		var ev Event
		err := dec.Decode(&ev)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode event %d: %w", n, err)
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
}
