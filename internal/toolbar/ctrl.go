package toolbar

import (
	"github.com/connorads/webmux/internal/terminal"
)

// ControlCode maps a single ASCII letter to its C0 control character
// (c -> \x03). Anything else is returned unchanged with ok=false.
func ControlCode(s string) (string, bool) {
	if len(s) != 1 {
		return s, false
	}
	c := s[0]
	if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
		return string(rune(c & 0x1f)), true
	}
	return s, false
}

// Ctrl is the sticky Ctrl modifier. While active it intercepts the next
// single-character keystroke typed into the terminal.
type Ctrl struct {
	term     terminal.Terminal
	src      terminal.DataSource
	active   bool
	cancel   func()
	onChange func(active bool)
}

// NewCtrl returns an inactive modifier. src may be nil when the terminal
// cannot report keystrokes; only toolbar letters are modified then.
func NewCtrl(term terminal.Terminal, src terminal.DataSource, onChange func(bool)) *Ctrl {
	return &Ctrl{term: term, src: src, onChange: onChange}
}

func (c *Ctrl) Active() bool { return c.active }

func (c *Ctrl) Activate() {
	c.active = true
	if c.src != nil && c.cancel == nil {
		c.cancel = c.src.OnData(c.intercept)
	}
	c.changed()
}

func (c *Ctrl) Deactivate() {
	c.active = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.changed()
}

func (c *Ctrl) Toggle() {
	if c.active {
		c.Deactivate()
		return
	}
	c.Activate()
}

func (c *Ctrl) intercept(data string) bool {
	if !c.active || len([]rune(data)) != 1 {
		return false
	}
	c.Deactivate()
	code, ok := ControlCode(data)
	if !ok {
		return false
	}
	terminal.Send(c.term, code)
	return true
}

func (c *Ctrl) changed() {
	if c.onChange != nil {
		c.onChange(c.active)
	}
}
