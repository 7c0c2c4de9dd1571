// Package terminal defines the boundary between the overlay and the terminal
// page it decorates: the xterm instance, the visual viewport, haptics and the
// clipboard. The browser runtime implements these over syscall/js; tests use
// Fake.
package terminal

import "time"

// Terminal is the subset of xterm.js the overlay drives. It never parses
// output; it only injects input and reads or writes the font size.
type Terminal interface {
	// Input injects data as if the user typed it.
	Input(data string)
	Focus()
	FontSize() int
	SetFontSize(size int)
	// Resize asks the page to refit the terminal after a size change.
	Resize()
}

// DataSource is implemented by terminals that report user keystrokes before
// they are delivered. A listener returning true consumes the keystroke.
type DataSource interface {
	OnData(fn func(data string) (consumed bool)) (cancel func())
}

// Viewport reports whether the on-screen keyboard is showing.
type Viewport interface {
	KeyboardOpen() bool
}

// Haptics gives a short vibration tick.
type Haptics interface {
	Tick()
}

// Clipboard reads text asynchronously; done receives ok=false when reading
// is unsupported or denied.
type Clipboard interface {
	ReadText(done func(text string, ok bool))
}

// Timer is a pending scheduled callback.
type Timer interface {
	Stop()
}

// Scheduler runs callbacks on the UI event loop, alongside the DOM handlers,
// so callbacks never race with touch or click handling.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
}

// NoHaptics is used on devices without a vibration API.
type NoHaptics struct{}

func (NoHaptics) Tick() {}

// Send writes data to the terminal as user input.
func Send(t Terminal, data string) {
	t.Input(data)
}

// ConditionalFocus focuses the terminal only if the keyboard was already up,
// so tapping a button never pops the keyboard open.
func ConditionalFocus(t Terminal, kbWasOpen bool) {
	if kbWasOpen {
		t.Focus()
	}
}

// SetFontSize applies size and refits the terminal if it changed.
func SetFontSize(t Terminal, size int) bool {
	if size == t.FontSize() {
		return false
	}
	t.SetFontSize(size)
	t.Resize()
	return true
}
