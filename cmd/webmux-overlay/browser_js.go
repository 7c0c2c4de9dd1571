//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"
	"time"

	"github.com/connorads/webmux/internal/gesture"
	"github.com/connorads/webmux/internal/terminal"
	"github.com/connorads/webmux/internal/viewport"
)

var (
	window   = js.Global()
	document = js.Global().Get("document")
)

func defined(v js.Value) bool {
	return !v.IsUndefined() && !v.IsNull()
}

// xterm is window.term as set up by ttyd.
type xterm struct {
	term      js.Value
	listeners map[int]func(string) bool
	nextID    int
	hooked    bool
}

func (t *xterm) Input(data string) { t.term.Call("input", data, true) }
func (t *xterm) Focus()            { t.term.Call("focus") }
func (t *xterm) FontSize() int     { return t.term.Get("options").Get("fontSize").Int() }

func (t *xterm) SetFontSize(size int) {
	t.term.Get("options").Set("fontSize", size)
}

// Resize nudges ttyd's fit addon, which listens for window resize.
func (t *xterm) Resize() {
	window.Call("dispatchEvent", window.Get("Event").New("resize"))
}

func (t *xterm) SetTheme(theme map[string]string) {
	obj := window.Get("Object").New()
	for k, v := range theme {
		obj.Set(k, v)
	}
	t.term.Get("options").Set("theme", obj)
}

func (t *xterm) SetFontFamily(family string) {
	t.term.Get("options").Set("fontFamily", family)
}

func (t *xterm) OnData(fn func(string) bool) func() {
	if t.listeners == nil {
		t.listeners = make(map[int]func(string) bool)
	}
	if !t.hooked {
		t.hooked = true
		t.term.Call("attachCustomKeyEventHandler", js.FuncOf(t.keyEvent))
		t.term.Call("onData", js.FuncOf(t.dataEvent))
	}
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	return func() { delete(t.listeners, id) }
}

// keyEvent sees hardware keys before xterm does; returning false swallows
// the key.
func (t *xterm) keyEvent(_ js.Value, args []js.Value) any {
	ev := args[0]
	if ev.Get("type").String() != "keydown" || ev.Get("ctrlKey").Bool() || ev.Get("altKey").Bool() || ev.Get("metaKey").Bool() {
		return true
	}
	key := ev.Get("key").String()
	if len([]rune(key)) != 1 {
		return true
	}
	consumed := false
	for _, fn := range t.listeners {
		if fn(key) {
			consumed = true
		}
	}
	if consumed {
		ev.Call("preventDefault")
	}
	return !consumed
}

// dataEvent catches soft keyboards, which deliver text without a keydown.
// The key has already reached ttyd by then; the control code follows it.
func (t *xterm) dataEvent(_ js.Value, args []js.Value) any {
	data := args[0].String()
	if len([]rune(data)) != 1 {
		return nil
	}
	for _, fn := range t.listeners {
		fn(data)
	}
	return nil
}

type vibrator struct{}

func (vibrator) Tick() {
	nav := window.Get("navigator")
	if nav.Get("vibrate").Type() == js.TypeFunction {
		nav.Call("vibrate", 10)
	}
}

type clipboard struct{}

func (clipboard) ReadText(done func(string, bool)) {
	cb := window.Get("navigator").Get("clipboard")
	if !defined(cb) || cb.Get("readText").Type() != js.TypeFunction {
		done("", false)
		return
	}
	var ok, fail js.Func
	release := func() {
		ok.Release()
		fail.Release()
	}
	ok = js.FuncOf(func(_ js.Value, args []js.Value) any {
		defer release()
		done(args[0].String(), true)
		return nil
	})
	fail = js.FuncOf(func(js.Value, []js.Value) any {
		defer release()
		done("", false)
		return nil
	})
	cb.Call("readText").Call("then", ok, fail)
}

// scheduler runs callbacks through setTimeout/setInterval so they share the
// event loop with DOM handlers.
type scheduler struct{}

type jsTimer struct {
	id       js.Value
	fn       js.Func
	interval bool
	stopped  bool
}

func (t *jsTimer) Stop() {
	if t.stopped {
		return
	}
	t.stopped = true
	if t.interval {
		window.Call("clearInterval", t.id)
	} else {
		window.Call("clearTimeout", t.id)
	}
	t.fn.Release()
}

func (scheduler) AfterFunc(d time.Duration, fn func()) terminal.Timer {
	t := &jsTimer{}
	t.fn = js.FuncOf(func(js.Value, []js.Value) any {
		if t.stopped {
			return nil
		}
		t.stopped = true
		fn()
		t.fn.Release()
		return nil
	})
	t.id = window.Call("setTimeout", t.fn, d.Milliseconds())
	return t
}

func (scheduler) Every(d time.Duration, fn func()) terminal.Timer {
	t := &jsTimer{interval: true}
	t.fn = js.FuncOf(func(js.Value, []js.Value) any {
		if !t.stopped {
			fn()
		}
		return nil
	})
	t.id = window.Call("setInterval", t.fn, d.Milliseconds())
	return t
}

type page struct{}

func (page) Title() string         { return document.Get("title").String() }
func (page) SetTitle(title string) { document.Set("title", title) }
func (page) Hostname() string      { return window.Get("location").Get("hostname").String() }

func (page) Mobile() bool {
	if window.Get("Reflect").Call("has", window, "ontouchstart").Bool() {
		return true
	}
	return window.Get("navigator").Get("maxTouchPoints").Int() > 0
}

// signalURL points at webmux serve on the same origin.
func signalURL() string {
	loc := window.Get("location")
	scheme := "ws:"
	if loc.Get("protocol").String() == "https:" {
		scheme = "wss:"
	}
	return scheme + "//" + loc.Get("host").String() + "/webmux/signal"
}

type metrics struct {
	toolbar js.Value
}

func (m metrics) Metrics() viewport.Metrics {
	out := viewport.Metrics{
		InnerWidth:    window.Get("innerWidth").Float(),
		InnerHeight:   window.Get("innerHeight").Float(),
		ToolbarHeight: m.toolbar.Get("offsetHeight").Float(),
	}
	if vv := window.Get("visualViewport"); defined(vv) {
		out.HasVisual = true
		out.VisualHeight = vv.Get("height").Float()
	}
	return out
}

type layout struct {
	toolbar js.Value
}

func (l layout) Apply(lay viewport.Layout) {
	style := document.Get("body").Get("style")
	style.Call("setProperty", "min-height", "0", "important")
	style.Call("setProperty", "height", fmt.Sprintf("%gpx", lay.BodyHeight), "important")
	l.toolbar.Get("classList").Call("toggle", "wt-kb-open", lay.Compact)
}

func points(list js.Value) []gesture.Point {
	if !defined(list) {
		return nil
	}
	n := list.Get("length").Int()
	out := make([]gesture.Point, 0, n)
	for i := 0; i < n; i++ {
		t := list.Call("item", i)
		out = append(out, gesture.Point{X: t.Get("clientX").Float(), Y: t.Get("clientY").Float()})
	}
	return out
}

func touchEvent(ev js.Value) gesture.TouchEvent {
	return gesture.TouchEvent{
		Touches: points(ev.Get("touches")),
		Changed: points(ev.Get("changedTouches")),
		Time:    time.Now(),
	}
}

// listen attaches a handler for the page lifetime.
func listen(target js.Value, event string, passive bool, fn func(ev js.Value)) {
	opts := window.Get("Object").New()
	opts.Set("passive", passive)
	target.Call("addEventListener", event, js.FuncOf(func(_ js.Value, args []js.Value) any {
		fn(args[0])
		return nil
	}), opts)
}
