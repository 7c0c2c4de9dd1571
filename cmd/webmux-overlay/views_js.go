//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/gesture"
	"github.com/connorads/webmux/internal/terminal"
	"github.com/connorads/webmux/internal/toolbar"
)

func el(tag, id, class string) js.Value {
	e := document.Call("createElement", tag)
	if id != "" {
		e.Set("id", id)
	}
	if class != "" {
		e.Set("className", class)
	}
	return e
}

// handlers tracks click funcs for one re-renderable container.
type handlers []js.Func

func (h *handlers) release() {
	for _, f := range *h {
		f.Release()
	}
	*h = nil
}

func (h *handlers) button(parent js.Value, label, aria string, onClick func()) js.Value {
	b := el("button", "", "")
	b.Set("textContent", label)
	if aria != "" {
		b.Call("setAttribute", "aria-label", aria)
	}
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		args[0].Call("preventDefault")
		onClick()
		return nil
	})
	*h = append(*h, f)
	b.Call("addEventListener", "click", f)
	parent.Call("appendChild", b)
	return b
}

func empty(e js.Value) {
	e.Set("innerHTML", "")
}

type toolbarView struct {
	root     js.Value
	rows     map[int]js.Value
	rowFuncs map[int]*handlers
	floating []js.Value
}

func newToolbarView() *toolbarView {
	v := &toolbarView{
		root:     el("div", "wt-toolbar", ""),
		rows:     map[int]js.Value{},
		rowFuncs: map[int]*handlers{},
	}
	for _, r := range []int{1, 2} {
		row := el("div", "", "wt-row")
		v.root.Call("appendChild", row)
		v.rows[r] = row
		v.rowFuncs[r] = &handlers{}
	}
	return v
}

func (v *toolbarView) RenderRow(row int, buttons []config.Button) {
	container, ok := v.rows[row]
	if !ok {
		return
	}
	h := v.rowFuncs[row]
	h.release()
	empty(container)
	for i, b := range buttons {
		btn := h.button(container, b.Label, b.Description, func() { app.Toolbar.PressAt(row, i) })
		if b.Action.Type == config.ActionCtrlModifier {
			btn.Call("setAttribute", "data-ctrl", "")
		}
	}
}

func (v *toolbarView) RenderFloating(g config.FloatingGroup) {
	group := el("div", "wt-floating-"+g.Position, "wt-floating")
	var h handlers
	for i, b := range g.Buttons {
		btn := h.button(group, b.Label, b.Description, func() { app.Toolbar.PressFloating(g.Position, i) })
		if b.Action.Type == config.ActionCtrlModifier {
			btn.Call("setAttribute", "data-ctrl", "")
		}
	}
	v.floating = append(v.floating, group)
}

func (v *toolbarView) SetCtrlActive(active bool) {
	nodes := document.Call("querySelectorAll", "[data-ctrl]")
	for i := 0; i < nodes.Get("length").Int(); i++ {
		nodes.Call("item", i).Get("classList").Call("toggle", "wt-ctrl-active", active)
	}
}

type drawerView struct {
	backdrop js.Value
	sheet    js.Value
	handle   js.Value
	tabs     js.Value
	grid     js.Value

	tabFuncs handlers
	cmdFuncs handlers
}

func newDrawerView() *drawerView {
	v := &drawerView{
		backdrop: el("div", "wt-backdrop", ""),
		sheet:    el("div", "wt-drawer", ""),
		handle:   el("div", "wt-drawer-handle", ""),
		tabs:     el("div", "wt-drawer-tabs", ""),
		grid:     el("div", "wt-drawer-grid", ""),
	}
	v.sheet.Call("appendChild", v.handle)
	v.sheet.Call("appendChild", v.tabs)
	v.sheet.Call("appendChild", v.grid)

	listen(v.backdrop, "click", true, func(js.Value) { app.Drawer.Dismiss() })
	listen(v.handle, "touchstart", true, func(ev js.Value) {
		if ts := points(ev.Get("touches")); len(ts) > 0 {
			app.Drawer.DragStart(ts[0].Y)
		}
	})
	listen(v.handle, "touchmove", true, func(ev js.Value) {
		if ts := points(ev.Get("touches")); len(ts) > 0 {
			app.Drawer.DragMove(ts[0].Y)
		}
	})
	listen(v.handle, "touchend", true, func(ev js.Value) {
		if ts := points(ev.Get("changedTouches")); len(ts) > 0 {
			app.Drawer.DragEnd(ts[0].Y)
		}
	})
	return v
}

func (v *drawerView) SetOpen(open bool) {
	display := "none"
	if open {
		display = "block"
	}
	v.backdrop.Get("style").Set("display", display)
	v.sheet.Get("classList").Call("toggle", "open", open)
}

func (v *drawerView) RenderTabs(tabs []config.DrawerContext, active string) {
	v.tabFuncs.release()
	empty(v.tabs)
	for _, ctx := range tabs {
		id := ctx.ID
		b := v.tabFuncs.button(v.tabs, ctx.Label, "", func() {
			vibrator{}.Tick()
			app.Drawer.SelectContext(id)
		})
		b.Get("classList").Call("toggle", "active", id == active)
	}
}

func (v *drawerView) RenderCommands(ctx config.DrawerContext) {
	v.cmdFuncs.release()
	empty(v.grid)
	for i, cmd := range ctx.Commands {
		v.cmdFuncs.button(v.grid, cmd.Label, "", func() { app.Drawer.ActivateIndex(i) })
	}
}

func (v *drawerView) SetDragOffset(px float64) {
	transform := ""
	if px > 0 {
		transform = fmt.Sprintf("translateY(%gpx)", px)
	}
	v.sheet.Get("style").Set("transform", transform)
}

type indicator struct {
	root  js.Value
	sched terminal.Scheduler
	hide  terminal.Timer
}

func (i *indicator) Show(arrow string) {
	i.root.Set("textContent", arrow)
	i.root.Get("classList").Call("add", "show")
	if i.hide != nil {
		i.hide.Stop()
	}
	i.hide = i.sched.AfterFunc(gesture.IndicatorHideAfter, func() {
		i.root.Get("classList").Call("remove", "show")
	})
}

type fadeGroup struct {
	root js.Value
}

func (f fadeGroup) SetActive(active bool) {
	f.root.Get("classList").Call("toggle", "wt-active", active)
}

// controls builds the font buttons, the help overlay and the page buttons.
func controls(term terminal.Terminal, pageButtons js.Value) (fontControls, help js.Value) {
	var h handlers
	fontControls = el("div", "wt-font-controls", "")
	help = el("div", "wt-help", "")

	h.button(fontControls, "−", "Decrease font size", func() { app.Fonts.Decrease() })
	h.button(fontControls, "+", "Increase font size", func() { app.Fonts.Increase() })
	h.button(fontControls, "?", "Help", func() {
		vibrator{}.Tick()
		help.Set("innerHTML", app.Help())
		help.Get("style").Set("display", "block")
	})

	listen(help, "click", true, func(ev js.Value) {
		target := ev.Get("target")
		if !target.Equal(help) && !target.Get("classList").Call("contains", "wt-help-close").Bool() {
			return
		}
		vibrator{}.Tick()
		help.Get("style").Set("display", "none")
		term.Focus()
	})

	for _, p := range []struct{ label, aria, seq string }{
		{"▲", "Page Up", toolbar.PageUpSeq},
		{"▼", "Page Down", toolbar.PageDownSeq},
	} {
		seq := p.seq
		b := el("button", "", "")
		b.Set("textContent", p.label)
		b.Call("setAttribute", "aria-label", p.aria)
		listen(b, "touchstart", false, func(ev js.Value) {
			ev.Call("preventDefault")
			app.Pages.Press(seq)
		})
		listen(b, "touchend", true, func(js.Value) { app.Pages.Release() })
		listen(b, "touchcancel", true, func(js.Value) { app.Pages.Release() })
		listen(b, "click", true, func(js.Value) { app.Pages.Click(seq) })
		pageButtons.Call("appendChild", b)
	}
	return fontControls, help
}
