// Package viewport sizes the page around the toolbar and the on-screen
// keyboard.
package viewport

import (
	"time"

	"github.com/connorads/webmux/internal/terminal"
)

const (
	// KeyboardThreshold is the gap between the layout and visual viewport
	// heights above which the on-screen keyboard is taken to be open.
	KeyboardThreshold = 150
	// ToolbarFallback is used before the toolbar has been laid out.
	ToolbarFallback = 90
	// OrientationDelay lets the browser settle after a rotation.
	OrientationDelay = 200 * time.Millisecond
)

// Metrics is a snapshot of window geometry in CSS pixels.
type Metrics struct {
	InnerWidth    float64
	InnerHeight   float64
	VisualHeight  float64
	HasVisual     bool // visualViewport is available
	ToolbarHeight float64
}

// Layout is what the page should look like for some Metrics.
type Layout struct {
	KeyboardOpen bool
	Compact      bool
	BodyHeight   float64
}

// KeyboardOpen is false on browsers without a visual viewport.
func KeyboardOpen(m Metrics) bool {
	return m.HasVisual && m.InnerHeight-m.VisualHeight > KeyboardThreshold
}

func Landscape(m Metrics) bool {
	return m.InnerWidth > m.InnerHeight
}

// Compute derives the layout. The compact toolbar only kicks in for a
// landscape keyboard, where vertical space is scarcest.
func Compute(m Metrics) Layout {
	kb := KeyboardOpen(m)
	vh := m.InnerHeight
	if m.HasVisual {
		vh = m.VisualHeight
	}
	tb := 0.0
	if !kb {
		tb = m.ToolbarHeight
		if tb == 0 {
			tb = ToolbarFallback
		}
	}
	return Layout{
		KeyboardOpen: kb,
		Compact:      kb && m.HasVisual && Landscape(m),
		BodyHeight:   vh - tb,
	}
}

// Source reads live metrics.
type Source interface {
	Metrics() Metrics
}

// Sink applies a layout to the page.
type Sink interface {
	Apply(l Layout)
}

// Manager coalesces resize bursts into one layout pass.
type Manager struct {
	src   Source
	sink  Sink
	term  terminal.Terminal
	sched terminal.Scheduler

	pending bool
	last    Layout
}

func NewManager(src Source, sink Sink, term terminal.Terminal, sched terminal.Scheduler) *Manager {
	return &Manager{src: src, sink: sink, term: term, sched: sched}
}

// KeyboardOpen reads the current metrics, so it is accurate even between
// layout passes.
func (m *Manager) KeyboardOpen() bool {
	return KeyboardOpen(m.src.Metrics())
}

// Last returns the most recently applied layout.
func (m *Manager) Last() Layout { return m.last }

// Schedule queues a layout pass unless one is already queued.
func (m *Manager) Schedule() {
	if m.pending {
		return
	}
	m.pending = true
	m.sched.AfterFunc(0, m.Update)
}

// OrientationChanged schedules a pass once the rotation has settled.
func (m *Manager) OrientationChanged() {
	m.sched.AfterFunc(OrientationDelay, m.Schedule)
}

// Update applies the layout now and refits the terminal.
func (m *Manager) Update() {
	m.pending = false
	m.last = Compute(m.src.Metrics())
	m.sink.Apply(m.last)
	m.term.Resize()
}
