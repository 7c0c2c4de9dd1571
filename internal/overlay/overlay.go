// Package overlay wires the mobile layer over a ttyd page: gestures, the
// toolbar, the command drawer and context detection. It owns no browser
// code; cmd/webmux-overlay binds it to the DOM.
package overlay

import (
	"fmt"
	"strings"

	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/drawer"
	"github.com/connorads/webmux/internal/gesture"
	"github.com/connorads/webmux/internal/logger"
	"github.com/connorads/webmux/internal/terminal"
	"github.com/connorads/webmux/internal/toolbar"
	"github.com/connorads/webmux/internal/viewport"
)

// Page is the document the overlay lives in.
type Page interface {
	Title() string
	SetTitle(title string)
	Hostname() string
	// Mobile reports a touch-capable device.
	Mobile() bool
}

// Styler is implemented by terminals whose theme and font family can be set.
type Styler interface {
	SetTheme(theme map[string]string)
	SetFontFamily(family string)
}

// Deps are the browser capabilities. Term, Page, Metrics, Layout and Sched
// are required; the rest may be nil.
type Deps struct {
	Term      terminal.Terminal
	Keys      terminal.DataSource
	Haptics   terminal.Haptics
	Clipboard terminal.Clipboard
	Sched     terminal.Scheduler
	Page      Page

	Metrics viewport.Source
	Layout  viewport.Sink

	DrawerView  drawer.View
	ToolbarView toolbar.View
	PageView    toolbar.FadeView
	Indicator   gesture.Indicator
}

type Overlay struct {
	cfg  *config.Config
	deps Deps

	lock   gesture.Lock
	pinch  *gesture.PinchHandler
	scroll *gesture.ScrollHandler
	swipe  *gesture.SwipeHandler

	Viewport *viewport.Manager
	Drawer   *drawer.Drawer
	Toolbar  *toolbar.Toolbar
	Fonts    *toolbar.FontControls
	Pages    *toolbar.PageButtons
	Detector *drawer.Detector

	help string
}

// New builds every component from cfg. Nothing touches the page until
// Start.
func New(cfg *config.Config, deps Deps) (*Overlay, error) {
	if deps.Term == nil || deps.Page == nil || deps.Metrics == nil || deps.Layout == nil || deps.Sched == nil {
		return nil, fmt.Errorf("overlay: missing required dependency")
	}
	if deps.Haptics == nil {
		deps.Haptics = terminal.NoHaptics{}
	}
	o := &Overlay{cfg: cfg, deps: deps}

	o.Viewport = viewport.NewManager(deps.Metrics, deps.Layout, deps.Term, deps.Sched)
	o.Drawer = drawer.New(cfg.Drawer.Contexts, deps.Term, o.Viewport, deps.Haptics, deps.DrawerView)
	o.Toolbar = toolbar.New(cfg, toolbar.Deps{
		Term:      deps.Term,
		Keys:      deps.Keys,
		Viewport:  o.Viewport,
		Haptics:   deps.Haptics,
		Clipboard: deps.Clipboard,
		Drawer:    o.Drawer,
		View:      deps.ToolbarView,
	})
	o.Drawer.OnContextChange(o.Toolbar.ApplyContext)
	o.Fonts = toolbar.NewFontControls(deps.Term, cfg.Font.SizeRange, deps.Haptics)
	o.Pages = toolbar.NewPageButtons(deps.Term, o.Viewport, deps.Sched, deps.PageView)
	o.Detector = drawer.NewDetector(cfg.Drawer.Contexts, deps.Page.Title, o.Drawer.SetContext)

	g := cfg.Gestures
	if g.Swipe.Enabled {
		o.swipe = gesture.NewSwipe(deps.Term, g.Swipe, o.Drawer.IsOpen, deps.Haptics, deps.Indicator)
	}
	if g.Pinch.Enabled {
		o.pinch = gesture.NewPinch(deps.Term, cfg.Font.SizeRange, &o.lock)
	}
	if g.Scroll.Enabled {
		o.scroll = gesture.NewScroll(deps.Term, g.Scroll.Sensitivity, g.Scroll.Fingers, &o.lock, o.Drawer.IsOpen)
	}

	help, err := toolbar.HelpHTML(cfg)
	if err != nil {
		return nil, err
	}
	o.help = help
	return o, nil
}

// ShortHost trims a hostname to its first label.
func ShortHost(host string) string {
	if i := strings.IndexByte(host, '.'); i >= 0 {
		return host[:i]
	}
	return host
}

// Start sets the page title and, on touch devices, applies the mobile
// look, renders the toolbar and runs the first detection. Desktop browsers
// only get the title and a refit.
func (o *Overlay) Start() {
	o.deps.Page.SetTitle("webmux · " + ShortHost(o.deps.Page.Hostname()))

	if !o.deps.Page.Mobile() {
		o.deps.Term.Resize()
		return
	}

	if s, ok := o.deps.Term.(Styler); ok {
		s.SetTheme(o.cfg.Theme.Map())
		s.SetFontFamily(o.cfg.Font.Family)
	}
	o.deps.Term.SetFontSize(o.cfg.Font.MobileSizeDefault)
	o.deps.Term.Resize()
	if o.cfg.Mobile.InitData != "" {
		terminal.Send(o.deps.Term, o.cfg.Mobile.InitData)
	}

	o.Toolbar.Render()
	o.Detector.Run()
	o.Viewport.Schedule()
	logger.Debug("overlay started", "contexts", len(o.cfg.Drawer.Contexts), "active", o.Drawer.Active())
}

// Help returns the rendered help overlay body.
func (o *Overlay) Help() string { return o.help }

// Lock exposes the gesture lock owner for diagnostics.
func (o *Overlay) Lock() gesture.Owner { return o.lock.Owner() }

// TitleChanged re-runs detection after the document title mutates.
func (o *Overlay) TitleChanged() {
	o.Detector.Run()
}

// Signal applies an out-of-band context id.
func (o *Overlay) Signal(context string) {
	o.Detector.Signal(context)
}

// TouchStart feeds every enabled gesture.
func (o *Overlay) TouchStart(ev gesture.TouchEvent) {
	if o.swipe != nil {
		o.swipe.Start(ev)
	}
	if o.pinch != nil {
		o.pinch.Start(ev)
	}
	if o.scroll != nil {
		o.scroll.Start(ev)
	}
}

// TouchMove reports whether the browser default should be prevented.
func (o *Overlay) TouchMove(ev gesture.TouchEvent) bool {
	prevent := false
	if o.pinch != nil && o.pinch.Move(ev) {
		prevent = true
	}
	if o.scroll != nil && o.scroll.Move(ev) {
		prevent = true
	}
	return prevent
}

// TouchEnd forwards a lift. Pinch and scroll keep the lock until ev carries
// no remaining touches.
func (o *Overlay) TouchEnd(ev gesture.TouchEvent) {
	if o.swipe != nil {
		o.swipe.End(ev)
	}
	if o.pinch != nil {
		o.pinch.End(ev)
	}
	if o.scroll != nil {
		o.scroll.End(ev)
	}
}

// TouchCancel abandons the whole contact, whatever touches the browser
// still reports.
func (o *Overlay) TouchCancel(gesture.TouchEvent) {
	if o.swipe != nil {
		o.swipe.Cancel()
	}
	if o.pinch != nil {
		o.pinch.End(gesture.TouchEvent{})
	}
	if o.scroll != nil {
		o.scroll.End(gesture.TouchEvent{})
	}
}
