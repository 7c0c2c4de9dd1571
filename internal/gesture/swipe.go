package gesture

import (
	"math"
	"time"

	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/terminal"
)

// Direction is the outcome of a swipe check.
type Direction int

const (
	NoSwipe Direction = iota
	SwipeLeft
	SwipeRight
)

func (d Direction) String() string {
	switch d {
	case SwipeLeft:
		return "left"
	case SwipeRight:
		return "right"
	default:
		return "none"
	}
}

// tmux previous/next window with the default prefix.
const (
	PrevWindow = "\x02p"
	NextWindow = "\x02n"
)

// IndicatorHideAfter is how long the swipe arrow stays visible.
const IndicatorHideAfter = 300 * time.Millisecond

// Indicator flashes an arrow after a recognised swipe.
type Indicator interface {
	Show(arrow string)
}

// IsValidSwipe classifies a finished single-finger contact. The 2x ratio
// rejects near-diagonal motion; keep the literal.
func IsValidSwipe(dx, dy float64, dt time.Duration, cfg config.SwipeConfig) Direction {
	absDx := math.Abs(dx)
	absDy := math.Abs(dy)
	if absDx > cfg.Threshold && dt < cfg.MaxDurationD() && absDx > absDy*2 {
		if dx > 0 {
			return SwipeRight
		}
		return SwipeLeft
	}
	return NoSwipe
}

// SwipeHandler sends prev/next window on a quick horizontal flick.
type SwipeHandler struct {
	term       terminal.Terminal
	cfg        config.SwipeConfig
	drawerOpen func() bool
	haptics    terminal.Haptics
	indicator  Indicator

	tracking  bool
	start     Point
	startTime time.Time
}

func NewSwipe(term terminal.Terminal, cfg config.SwipeConfig, drawerOpen func() bool, haptics terminal.Haptics, indicator Indicator) *SwipeHandler {
	if haptics == nil {
		haptics = terminal.NoHaptics{}
	}
	return &SwipeHandler{
		term:       term,
		cfg:        cfg,
		drawerOpen: drawerOpen,
		haptics:    haptics,
		indicator:  indicator,
	}
}

// Start records the origin of a one-finger contact. A second finger landing
// cancels the candidate swipe.
func (s *SwipeHandler) Start(ev TouchEvent) {
	if s.drawerOpen() || len(ev.Touches) != 1 {
		s.tracking = false
		return
	}
	s.tracking = true
	s.start = ev.Touches[0]
	s.startTime = ev.Time
}

// End classifies the contact and acts on it.
func (s *SwipeHandler) End(ev TouchEvent) Direction {
	if !s.tracking || s.drawerOpen() || len(ev.Changed) != 1 {
		return NoSwipe
	}
	s.tracking = false

	end := ev.Changed[0]
	dir := IsValidSwipe(end.X-s.start.X, end.Y-s.start.Y, ev.Time.Sub(s.startTime), s.cfg)
	switch dir {
	case SwipeRight:
		terminal.Send(s.term, PrevWindow)
		s.show("◀")
	case SwipeLeft:
		terminal.Send(s.term, NextWindow)
		s.show("▶")
	}
	return dir
}

// Cancel drops any candidate swipe.
func (s *SwipeHandler) Cancel() {
	s.tracking = false
}

func (s *SwipeHandler) show(arrow string) {
	if s.indicator != nil {
		s.indicator.Show(arrow)
	}
	s.haptics.Tick()
}
