//go:build js && wasm

// Command webmux-overlay is the in-browser half of webmux. It is compiled to
// wasm, inlined into ttyd's index.html by `webmux build`, and attaches to
// the page once ttyd has created window.term.
package main

import (
	"context"
	"encoding/json"
	"os"
	"syscall/js"
	"time"

	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/logger"
	"github.com/connorads/webmux/internal/overlay"
	"github.com/connorads/webmux/internal/ws"
)

// app is set once the terminal exists. DOM callbacks only fire after that.
var app *overlay.Overlay

func main() {
	logger.InitWriter("info", "", os.Stdout)

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("webmux: bad config, using defaults", "err", err)
		cfg = config.Default()
	}

	term := waitFor("term", 100*time.Millisecond)
	if err := start(cfg, term); err != nil {
		logger.Error("webmux: overlay failed to start", "err", err)
		return
	}
	select {}
}

// loadConfig reads the JSON the loader left in globalThis.webmuxConfig and
// lays it over the defaults.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	raw := js.Global().Get("webmuxConfig")
	if !defined(raw) {
		return cfg, nil
	}
	data := raw.String()
	if raw.Type() != js.TypeString {
		data = js.Global().Get("JSON").Call("stringify", raw).String()
	}
	if err := json.Unmarshal([]byte(data), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func waitFor(global string, every time.Duration) js.Value {
	for {
		if v := window.Get(global); defined(v) {
			return v
		}
		time.Sleep(every)
	}
}

func start(cfg *config.Config, termValue js.Value) error {
	term := &xterm{term: termValue}
	sched := scheduler{}
	pg := page{}

	tbView := newToolbarView()
	drView := newDrawerView()
	pageButtons := el("div", "wt-scroll-buttons", "")
	ind := &indicator{root: el("div", "wt-swipe-indicator", ""), sched: sched}

	o, err := overlay.New(cfg, overlay.Deps{
		Term:        term,
		Keys:        term,
		Haptics:     vibrator{},
		Clipboard:   clipboard{},
		Sched:       sched,
		Page:        pg,
		Metrics:     metrics{toolbar: tbView.root},
		Layout:      layout{toolbar: tbView.root},
		DrawerView:  drView,
		ToolbarView: tbView,
		PageView:    fadeGroup{root: pageButtons},
		Indicator:   ind,
	})
	if err != nil {
		return err
	}
	app = o

	if fonts := document.Get("fonts"); defined(fonts) {
		fonts.Get("ready").Call("then", js.FuncOf(func(js.Value, []js.Value) any {
			term.Resize()
			return nil
		}))
	}

	if !pg.Mobile() {
		app.Start()
		return nil
	}

	body := document.Get("body")
	fontControls, help := controls(term, pageButtons)
	for _, e := range []js.Value{drView.backdrop, drView.sheet, tbView.root, fontControls, help, pageButtons, ind.root} {
		body.Call("appendChild", e)
	}

	app.Start()
	for _, g := range tbView.floating {
		body.Call("appendChild", g)
	}

	attachGestures(sched)
	observeTitle()
	watchViewport()
	go subscribe(sched)
	return nil
}

// attachGestures binds touch input on xterm's screen element, which ttyd
// may create after window.term.
func attachGestures(sched scheduler) {
	screen := document.Call("querySelector", ".xterm-screen")
	if !defined(screen) {
		sched.AfterFunc(200*time.Millisecond, func() { attachGestures(sched) })
		return
	}
	listen(screen, "touchstart", true, func(ev js.Value) { app.TouchStart(touchEvent(ev)) })
	listen(screen, "touchmove", false, func(ev js.Value) {
		if app.TouchMove(touchEvent(ev)) {
			ev.Call("preventDefault")
		}
	})
	listen(screen, "touchend", true, func(ev js.Value) { app.TouchEnd(touchEvent(ev)) })
	listen(screen, "touchcancel", true, func(ev js.Value) { app.TouchCancel(touchEvent(ev)) })
}

func observeTitle() {
	title := document.Call("querySelector", "title")
	if !defined(title) {
		return
	}
	observer := window.Get("MutationObserver").New(js.FuncOf(func(js.Value, []js.Value) any {
		app.TitleChanged()
		return nil
	}))
	opts := window.Get("Object").New()
	opts.Set("childList", true)
	opts.Set("characterData", true)
	opts.Set("subtree", true)
	observer.Call("observe", title, opts)
}

func watchViewport() {
	schedule := func(js.Value) { app.Viewport.Schedule() }
	if vv := window.Get("visualViewport"); defined(vv) {
		listen(vv, "resize", true, schedule)
		listen(vv, "scroll", true, schedule)
	}
	listen(window, "resize", true, schedule)
	listen(window, "orientationchange", true, func(js.Value) { app.Viewport.OrientationChanged() })
}

// subscribe follows webmux serve's signal channel. Messages are handed to
// the event loop so they never interleave with a touch handler. Without
// serve in front of ttyd the dial just keeps failing quietly.
func subscribe(sched scheduler) {
	sub := &ws.Subscriber{
		URL: signalURL(),
		OnContext: func(id string) {
			sched.AfterFunc(0, func() { app.Signal(id) })
		},
		OnReload: func() {
			sched.AfterFunc(0, func() { window.Get("location").Call("reload") })
		},
		Backoff: ws.NewBackoff(time.Second, 30*time.Second),
	}
	sub.Run(context.Background())
}
