// Package notify turns coding-agent session events into desktop, terminal
// bell and push notifications.
package notify

import (
	"context"

	"github.com/connorads/webmux/internal/logger"
)

// Kind is what a notification is about.
type Kind int

const (
	KindIdle Kind = iota
	KindError
	KindAttention
)

func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindError:
		return "error"
	case KindAttention:
		return "attention"
	}
	return "unknown"
}

// Notification is what sinks receive.
type Notification struct {
	Kind      Kind
	Title     string
	Message   string
	Sound     string // macOS sound name
	SessionID string
	Label     string
}

// Sink delivers notifications. A sink ignores kinds it does not handle.
type Sink interface {
	Name() string
	Notify(ctx context.Context, n Notification) error
}

// Titles remembers session titles across invocations. store.Store
// implements it.
type Titles interface {
	SetSessionTitle(id, title string) error
	SessionTitle(id string) (string, error)
}

// Label names a session for humans.
func Label(id, title string) string {
	if id == "" {
		return "Unknown session"
	}
	short := id
	if r := []rune(id); len(r) > 8 {
		short = string(r[:8])
	}
	if title == "" {
		return "Session " + short
	}
	return title + " (" + short + ")"
}

// Dispatcher routes events to sinks.
type Dispatcher struct {
	App    string
	Titles Titles
	Sinks  []Sink
}

// Handle processes one event. Sink failures are logged and never stop the
// other sinks; only title bookkeeping errors are returned.
func (d *Dispatcher) Handle(ctx context.Context, ev Event) error {
	switch ev.Type {
	case SessionCreated, SessionUpdated:
		info := ev.Properties.Info
		if info == nil || info.ID == "" || d.Titles == nil {
			return nil
		}
		return d.Titles.SetSessionTitle(info.ID, info.Title)
	}

	n, ok := d.notification(ev)
	if !ok {
		return nil
	}
	log := logger.With("notify")
	for _, s := range d.Sinks {
		if err := s.Notify(ctx, n); err != nil {
			log.Warn("notification failed", "sink", s.Name(), "kind", n.Kind, "err", err)
		}
	}
	return nil
}

func (d *Dispatcher) notification(ev Event) (Notification, bool) {
	n := Notification{Title: d.App, SessionID: ev.Properties.SessionID}
	switch ev.Type {
	case SessionIdle:
		n.Kind, n.Sound = KindIdle, "Glass"
	case SessionError:
		n.Kind, n.Sound = KindError, "Basso"
	case PermissionAsked, QuestionAsked:
		n.Kind = KindAttention
	default:
		return Notification{}, false
	}
	n.Label = d.label(n.SessionID)
	switch n.Kind {
	case KindIdle:
		n.Message = "Session completed: " + n.Label
	case KindError:
		n.Message = "Session error: " + n.Label
	case KindAttention:
		n.Message = "Needs input: " + n.Label
	}
	return n, true
}

func (d *Dispatcher) label(id string) string {
	var title string
	if id != "" && d.Titles != nil {
		t, err := d.Titles.SessionTitle(id)
		if err != nil {
			logger.Warn("session title lookup failed", "session", id, "err", err)
		}
		title = t
	}
	return Label(id, title)
}
