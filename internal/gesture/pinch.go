package gesture

import (
	"math"

	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/terminal"
)

// pinchDeadband is how far the finger distance ratio must move from 1 before
// pinch tries to claim the lock. Tuned by hand; keep the literal.
const pinchDeadband = 0.05

// PinchHandler maps a two-finger spread to the terminal font size.
type PinchHandler struct {
	term  terminal.Terminal
	font  config.FontRange
	lock  *Lock
	phase Phase

	startDist float64
	baseSize  int
	// sittingOut is set once scroll holds the lock and cleared only when
	// every finger has lifted.
	sittingOut bool
}

func NewPinch(term terminal.Terminal, font config.FontRange, lock *Lock) *PinchHandler {
	return &PinchHandler{term: term, font: font, lock: lock}
}

// Phase reports the handler's state for the current contact.
func (p *PinchHandler) Phase() Phase { return p.phase }

// Start records the baseline when a second finger lands. The lock is not
// requested yet. A finger landing again while pinch owns the lock rebases
// the ratio and keeps ownership.
func (p *PinchHandler) Start(ev TouchEvent) {
	if len(ev.Touches) != 2 || p.sittingOut {
		return
	}
	p.startDist = Distance(ev.Touches[0], ev.Touches[1])
	p.baseSize = p.term.FontSize()
	if p.phase != Owning {
		p.phase = Tracking
	}
}

// Move resizes the font while pinch owns the lock. The return value says
// whether the browser's default pinch/scroll should be suppressed.
func (p *PinchHandler) Move(ev TouchEvent) bool {
	if len(ev.Touches) != 2 || p.phase == Idle || p.startDist == 0 {
		return false
	}
	ratio := Distance(ev.Touches[0], ev.Touches[1]) / p.startDist

	if p.phase == Tracking {
		if p.lock.Owner() != None {
			// scroll got there first; sit out the rest of this contact
			p.sitOut()
			return false
		}
		if math.Abs(ratio-1) <= pinchDeadband {
			return false
		}
		if !p.lock.TryAcquire(Pinch) {
			p.sitOut()
			return false
		}
		p.phase = Owning
	}
	if !p.lock.Held(Pinch) {
		p.sitOut()
		return false
	}

	size := ClampFontSize(int(math.Round(float64(p.baseSize)*ratio)), p.font)
	terminal.SetFontSize(p.term, size)
	return true
}

// End releases the lock once the last finger lifts. A partial lift keeps
// the lock; Move ignores the lone finger until a second one lands again.
func (p *PinchHandler) End(ev TouchEvent) {
	if len(ev.Touches) > 0 {
		return
	}
	if p.lock.Held(Pinch) {
		p.lock.Release()
	}
	p.phase = Idle
	p.startDist = 0
	p.sittingOut = false
}

func (p *PinchHandler) sitOut() {
	p.phase = Idle
	p.sittingOut = true
}
