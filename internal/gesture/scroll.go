package gesture

import (
	"math"

	"github.com/connorads/webmux/internal/terminal"
)

// SGR mouse wheel reports at cell 1;1. tmux and most TUIs scroll on these.
const (
	WheelUp   = "\x1b[<64;1;1M"
	WheelDown = "\x1b[<65;1;1M"
)

// ScrollSeq returns the wheel sequence for a direction.
func ScrollSeq(up bool) string {
	if up {
		return WheelUp
	}
	return WheelDown
}

// ScrollHandler turns a vertical drag into discrete wheel events, one per
// sensitivity-worth of pixels.
type ScrollHandler struct {
	term        terminal.Terminal
	sensitivity float64
	fingers     int
	lock        *Lock
	drawerOpen  func() bool
	phase       Phase

	startY float64
	lastY  float64
	acc    float64
	// sittingOut is set once pinch holds the lock and cleared only when
	// every finger has lifted.
	sittingOut bool
}

// NewScroll tracks a single touch when fingers is 1, or the average Y of two
// touches when fingers is 2.
func NewScroll(term terminal.Terminal, sensitivity float64, fingers int, lock *Lock, drawerOpen func() bool) *ScrollHandler {
	if fingers != 2 {
		fingers = 1
	}
	return &ScrollHandler{
		term:        term,
		sensitivity: sensitivity,
		fingers:     fingers,
		lock:        lock,
		drawerOpen:  drawerOpen,
	}
}

func (s *ScrollHandler) Phase() Phase { return s.phase }

func (s *ScrollHandler) y(touches []Point) float64 {
	if s.fingers == 2 {
		return AverageY(touches[0], touches[1])
	}
	return touches[0].Y
}

// Start records the origin of a drag with the configured finger count. If
// scroll already owns the lock, only the reference point moves.
func (s *ScrollHandler) Start(ev TouchEvent) {
	if len(ev.Touches) != s.fingers || s.sittingOut {
		return
	}
	y := s.y(ev.Touches)
	s.lastY = y
	if s.phase == Owning {
		return
	}
	s.startY = y
	s.acc = 0
	s.phase = Tracking
}

// Move emits wheel events while scroll owns the lock and reports whether the
// default browser scroll should be suppressed.
func (s *ScrollHandler) Move(ev TouchEvent) bool {
	if len(ev.Touches) != s.fingers || s.phase == Idle || s.drawerOpen() {
		return false
	}
	y := s.y(ev.Touches)

	if s.phase == Tracking {
		if s.lock.Owner() != None {
			s.sitOut()
			return false
		}
		if math.Abs(y-s.startY) <= s.sensitivity || !s.lock.TryAcquire(Scroll) {
			return false
		}
		s.phase = Owning
	}
	if !s.lock.Held(Scroll) {
		s.sitOut()
		return false
	}

	s.acc += y - s.lastY
	s.lastY = y

	// finger moving up (negative delta) scrolls the content down
	for math.Abs(s.acc) >= s.sensitivity {
		up := s.acc > 0
		terminal.Send(s.term, ScrollSeq(up))
		if up {
			s.acc -= s.sensitivity
		} else {
			s.acc += s.sensitivity
		}
	}
	return true
}

// End releases the lock once the last finger lifts.
func (s *ScrollHandler) End(ev TouchEvent) {
	if len(ev.Touches) > 0 {
		return
	}
	if s.lock.Held(Scroll) {
		s.lock.Release()
	}
	s.phase = Idle
	s.acc = 0
	s.sittingOut = false
}

func (s *ScrollHandler) sitOut() {
	s.phase = Idle
	s.sittingOut = true
}
