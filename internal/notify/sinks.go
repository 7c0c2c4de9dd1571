package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gen2brain/beeep"
	"golang.org/x/term"

	"github.com/connorads/webmux/internal/ntfy"
)

// Desktop shows a system notification for finished and failed sessions.
type Desktop struct {
	notify func(title, message string, icon any) error
	alert  func(title, message string, icon any) error
}

func NewDesktop(app string) *Desktop {
	beeep.AppName = app
	return &Desktop{notify: beeep.Notify, alert: beeep.Alert}
}

func (d *Desktop) Name() string { return "desktop" }

func (d *Desktop) Notify(ctx context.Context, n Notification) error {
	switch n.Kind {
	case KindIdle:
		return d.notify(n.Title, n.Message, "")
	case KindError:
		// alert plays the platform's warning sound
		return d.alert(n.Title, n.Message, "")
	}
	return nil
}

// Bell rings the terminal bell on the controlling terminal, which is where
// tmux turns it into a window flag.
type Bell struct {
	open func() (io.WriteCloser, error)
}

// ErrNoTTY means there is no terminal to ring.
var ErrNoTTY = errors.New("no controlling terminal")

func NewBell() *Bell {
	return &Bell{open: openTTY}
}

func openTTY() (io.WriteCloser, error) {
	f, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTTY, err)
	}
	if !term.IsTerminal(int(f.Fd())) {
		f.Close()
		return nil, ErrNoTTY
	}
	return f, nil
}

func (b *Bell) Name() string { return "bell" }

func (b *Bell) Notify(ctx context.Context, n Notification) error {
	w, err := b.open()
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = io.WriteString(w, "\a")
	return err
}

// AttentionCooldown limits "needs input" pushes per session.
const AttentionCooldown = 30 * time.Second

// Cooldowns is the persisted rate limit behind attention pushes.
// store.Store implements it.
type Cooldowns interface {
	TryCooldown(key string, window time.Duration, now time.Time) (bool, error)
}

// Push forwards notifications to ntfy.
type Push struct {
	client    *ntfy.Client
	cooldowns Cooldowns
	now       func() time.Time
}

func NewPush(client *ntfy.Client, cooldowns Cooldowns) *Push {
	return &Push{client: client, cooldowns: cooldowns, now: time.Now}
}

func (p *Push) Name() string { return "ntfy" }

func (p *Push) Notify(ctx context.Context, n Notification) error {
	switch n.Kind {
	case KindIdle:
		return p.client.SendIdle(ctx, n.Title, n.Label)
	case KindError:
		return p.client.SendError(ctx, n.Title, n.Label)
	case KindAttention:
		if !p.client.Enabled(ntfy.EventAttention) {
			return nil
		}
		if p.cooldowns != nil && n.SessionID != "" {
			ok, err := p.cooldowns.TryCooldown("attention:"+n.SessionID, AttentionCooldown, p.now())
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
		return p.client.SendAttention(ctx, n.Title, n.Label)
	}
	return nil
}
