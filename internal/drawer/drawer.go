package drawer

import (
	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/terminal"
)

// DismissDistance is how far the handle must be dragged down to close.
const DismissDistance = 60

// View renders drawer state. The browser runtime implements it on the DOM.
type View interface {
	SetOpen(open bool)
	RenderTabs(tabs []config.DrawerContext, active string)
	RenderCommands(ctx config.DrawerContext)
	// SetDragOffset translates the sheet while the handle is dragged; 0 snaps back.
	SetDragOffset(px float64)
}

// Drawer tracks two independent things: whether the sheet is open, and which
// context's commands it shows. detected is what the title or signal last
// said; active is what the user is looking at.
type Drawer struct {
	contexts []config.DrawerContext
	term     terminal.Terminal
	vp       terminal.Viewport
	haptics  terminal.Haptics
	view     View

	open     bool
	detected string
	active   string

	dragging   bool
	dragStartY float64

	listeners []func(config.DrawerContext)
}

// New builds a closed drawer showing the first context. A nil view is
// allowed.
func New(contexts []config.DrawerContext, term terminal.Terminal, vp terminal.Viewport, haptics terminal.Haptics, view View) *Drawer {
	if haptics == nil {
		haptics = terminal.NoHaptics{}
	}
	d := &Drawer{
		contexts: contexts,
		term:     term,
		vp:       vp,
		haptics:  haptics,
		view:     view,
	}
	if len(contexts) > 0 {
		d.detected = contexts[0].ID
		d.active = contexts[0].ID
	}
	d.renderTabs()
	d.renderCommands()
	return d
}

// OnContextChange registers fn to run whenever the active context changes.
func (d *Drawer) OnContextChange(fn func(config.DrawerContext)) {
	d.listeners = append(d.listeners, fn)
}

func (d *Drawer) IsOpen() bool     { return d.open }
func (d *Drawer) Active() string   { return d.active }
func (d *Drawer) Detected() string { return d.detected }

// ActiveContext returns the context whose commands are shown.
func (d *Drawer) ActiveContext() (config.DrawerContext, bool) {
	return d.lookup(d.active)
}

// Tabs lists the general contexts plus the detected one, in config order.
func (d *Drawer) Tabs() []config.DrawerContext {
	var tabs []config.DrawerContext
	for _, ctx := range d.contexts {
		if ctx.General || ctx.ID == d.detected {
			tabs = append(tabs, ctx)
		}
	}
	return tabs
}

// SetContext records an auto-detected context and shows it.
func (d *Drawer) SetContext(id string) {
	if _, ok := d.lookup(id); !ok {
		return
	}
	d.detected = id
	d.setActive(id)
	d.renderTabs()
}

// SelectContext switches the shown commands without touching detection.
func (d *Drawer) SelectContext(id string) {
	if _, ok := d.lookup(id); !ok {
		return
	}
	d.setActive(id)
	d.renderTabs()
}

func (d *Drawer) Open() {
	d.open = true
	if d.view != nil {
		d.view.SetOpen(true)
	}
}

func (d *Drawer) Close() {
	d.open = false
	d.dragging = false
	if d.view != nil {
		d.view.SetDragOffset(0)
		d.view.SetOpen(false)
	}
}

func (d *Drawer) Toggle() {
	if d.open {
		d.Close()
		return
	}
	d.Open()
}

// OpenTo shows context id and opens the drawer. An unknown id just opens it.
func (d *Drawer) OpenTo(id string) {
	d.SetContext(id)
	d.Open()
}

// Activate runs a drawer command: close, send, and refocus only if the
// keyboard was already up.
func (d *Drawer) Activate(cmd config.DrawerCommand) {
	kbWasOpen := d.keyboardOpen()
	d.haptics.Tick()
	d.Close()
	terminal.Send(d.term, cmd.Seq)
	terminal.ConditionalFocus(d.term, kbWasOpen)
}

// ActivateIndex runs the i'th command of the active context.
func (d *Drawer) ActivateIndex(i int) bool {
	ctx, ok := d.ActiveContext()
	if !ok || i < 0 || i >= len(ctx.Commands) {
		return false
	}
	d.Activate(ctx.Commands[i])
	return true
}

// Dismiss handles a backdrop tap.
func (d *Drawer) Dismiss() {
	kbWasOpen := d.keyboardOpen()
	d.haptics.Tick()
	d.Close()
	terminal.ConditionalFocus(d.term, kbWasOpen)
}

// DragStart begins a handle drag at y.
func (d *Drawer) DragStart(y float64) {
	d.dragging = true
	d.dragStartY = y
}

// DragMove follows the finger downwards only.
func (d *Drawer) DragMove(y float64) {
	if !d.dragging {
		return
	}
	if dy := y - d.dragStartY; dy > 0 && d.view != nil {
		d.view.SetDragOffset(dy)
	}
}

// DragEnd closes the drawer if the handle travelled far enough and reports
// whether it did.
func (d *Drawer) DragEnd(y float64) bool {
	if !d.dragging {
		return false
	}
	d.dragging = false
	kbWasOpen := d.keyboardOpen()
	if d.view != nil {
		d.view.SetDragOffset(0)
	}
	if y-d.dragStartY <= DismissDistance {
		return false
	}
	d.Close()
	terminal.ConditionalFocus(d.term, kbWasOpen)
	return true
}

func (d *Drawer) setActive(id string) {
	changed := id != d.active
	d.active = id
	d.renderCommands()
	if !changed {
		return
	}
	ctx, _ := d.lookup(id)
	for _, fn := range d.listeners {
		fn(ctx)
	}
}

func (d *Drawer) renderTabs() {
	if d.view != nil {
		d.view.RenderTabs(d.Tabs(), d.active)
	}
}

func (d *Drawer) renderCommands() {
	if d.view == nil {
		return
	}
	if ctx, ok := d.ActiveContext(); ok {
		d.view.RenderCommands(ctx)
	}
}

func (d *Drawer) lookup(id string) (config.DrawerContext, bool) {
	for _, ctx := range d.contexts {
		if ctx.ID == id {
			return ctx, true
		}
	}
	return config.DrawerContext{}, false
}

func (d *Drawer) keyboardOpen() bool {
	return d.vp != nil && d.vp.KeyboardOpen()
}
