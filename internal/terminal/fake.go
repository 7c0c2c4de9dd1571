package terminal

import "time"

// Fake is an in-memory Terminal, Viewport, Haptics and Clipboard for tests.
type Fake struct {
	Sent     []string
	Focused  int
	Size     int
	Resizes  int
	Ticks    int
	Keyboard bool

	ClipText string
	ClipOK   bool

	listeners map[int]func(string) bool
	nextID    int
}

// NewFake returns a Fake with the given font size.
func NewFake(size int) *Fake {
	return &Fake{Size: size, listeners: make(map[int]func(string) bool)}
}

func (f *Fake) Input(data string)    { f.Sent = append(f.Sent, data) }
func (f *Fake) Focus()               { f.Focused++ }
func (f *Fake) FontSize() int        { return f.Size }
func (f *Fake) SetFontSize(size int) { f.Size = size }
func (f *Fake) Resize()              { f.Resizes++ }
func (f *Fake) KeyboardOpen() bool   { return f.Keyboard }
func (f *Fake) Tick()                { f.Ticks++ }

func (f *Fake) ReadText(done func(string, bool)) {
	done(f.ClipText, f.ClipOK)
}

func (f *Fake) OnData(fn func(string) bool) func() {
	if f.listeners == nil {
		f.listeners = make(map[int]func(string) bool)
	}
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	return func() { delete(f.listeners, id) }
}

// Type simulates a keystroke from the physical or on-screen keyboard. Every
// OnData listener sees it first; it reaches the terminal unless one of them
// consumed it.
func (f *Fake) Type(data string) {
	consumed := false
	for _, fn := range f.listeners {
		if fn(data) {
			consumed = true
		}
	}
	if !consumed {
		f.Input(data)
	}
}

// Listeners returns the number of active OnData subscriptions.
func (f *Fake) Listeners() int { return len(f.listeners) }

// Last returns the most recent input, or "".
func (f *Fake) Last() string {
	if len(f.Sent) == 0 {
		return ""
	}
	return f.Sent[len(f.Sent)-1]
}

// Reset clears recorded input.
func (f *Fake) Reset() { f.Sent = nil }

// FakeScheduler is a manual clock for Scheduler users.
type FakeScheduler struct {
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	every   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() { t.stopped = true }

func (s *FakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	t := &fakeTimer{at: s.now + d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *FakeScheduler) Every(d time.Duration, fn func()) Timer {
	t := &fakeTimer{at: s.now + d, every: d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward, firing due callbacks in order.
func (s *FakeScheduler) Advance(d time.Duration) {
	end := s.now + d
	for {
		var next *fakeTimer
		for _, t := range s.timers {
			if t.stopped || t.at > end {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			break
		}
		s.now = next.at
		if next.every > 0 {
			next.at += next.every
		} else {
			next.stopped = true
		}
		next.fn()
	}
	s.now = end
	s.compact()
}

// Pending returns the number of live timers.
func (s *FakeScheduler) Pending() int {
	s.compact()
	return len(s.timers)
}

func (s *FakeScheduler) compact() {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	s.timers = live
}
