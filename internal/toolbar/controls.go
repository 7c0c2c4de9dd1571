package toolbar

import (
	"time"

	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/gesture"
	"github.com/connorads/webmux/internal/terminal"
)

// FontStep is the size change per -/+ tap.
const FontStep = 2

// ChangeFontSize adds delta to the font size within r and reports whether
// the size changed.
func ChangeFontSize(term terminal.Terminal, delta int, r config.FontRange) bool {
	return terminal.SetFontSize(term, gesture.ClampFontSize(term.FontSize()+delta, r))
}

// FontControls backs the -/+ buttons.
type FontControls struct {
	term    terminal.Terminal
	font    config.FontRange
	haptics terminal.Haptics
}

func NewFontControls(term terminal.Terminal, font config.FontRange, haptics terminal.Haptics) *FontControls {
	if haptics == nil {
		haptics = terminal.NoHaptics{}
	}
	return &FontControls{term: term, font: font, haptics: haptics}
}

func (f *FontControls) Decrease() bool {
	f.haptics.Tick()
	return ChangeFontSize(f.term, -FontStep, f.font)
}

func (f *FontControls) Increase() bool {
	f.haptics.Tick()
	return ChangeFontSize(f.term, FontStep, f.font)
}

// Page keys. PgUp carries the tmux prefix to enter copy mode; PgDn is sent
// bare because copy mode is already active by then.
const (
	PageUpSeq   = "\x02\x1b[5~"
	PageDownSeq = "\x1b[6~"
)

const (
	LongPressDelay = 300 * time.Millisecond
	RepeatInterval = 100 * time.Millisecond
	FadeAfter      = 2 * time.Second
)

// FadeView shows or dims the page button group.
type FadeView interface {
	SetActive(active bool)
}

// PageButtons sends PgUp/PgDn, repeating while held.
type PageButtons struct {
	term  terminal.Terminal
	vp    terminal.Viewport
	sched terminal.Scheduler
	view  FadeView

	delay  terminal.Timer
	repeat terminal.Timer
	fade   terminal.Timer
}

func NewPageButtons(term terminal.Terminal, vp terminal.Viewport, sched terminal.Scheduler, view FadeView) *PageButtons {
	return &PageButtons{term: term, vp: vp, sched: sched, view: view}
}

// Press sends seq once and starts repeating it after LongPressDelay until
// Release.
func (p *PageButtons) Press(seq string) {
	p.Release()
	p.send(seq)
	p.delay = p.sched.AfterFunc(LongPressDelay, func() {
		p.delay = nil
		p.repeat = p.sched.Every(RepeatInterval, func() { p.send(seq) })
	})
	p.touch()
}

// Release stops any repeat in progress.
func (p *PageButtons) Release() {
	if p.delay != nil {
		p.delay.Stop()
		p.delay = nil
	}
	if p.repeat != nil {
		p.repeat.Stop()
		p.repeat = nil
	}
}

// Click is the pointer fallback: one send, no repeat.
func (p *PageButtons) Click(seq string) {
	p.send(seq)
	p.touch()
}

func (p *PageButtons) send(seq string) {
	kbWasOpen := p.vp != nil && p.vp.KeyboardOpen()
	terminal.Send(p.term, seq)
	terminal.ConditionalFocus(p.term, kbWasOpen)
}

func (p *PageButtons) touch() {
	if p.view != nil {
		p.view.SetActive(true)
	}
	if p.fade != nil {
		p.fade.Stop()
	}
	p.fade = p.sched.AfterFunc(FadeAfter, func() {
		p.fade = nil
		if p.view != nil {
			p.view.SetActive(false)
		}
	})
}
