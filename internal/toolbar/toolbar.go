// Package toolbar implements the on-screen key rows, floating button groups
// and the small font and paging controls that sit above the terminal.
package toolbar

import (
	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/logger"
	"github.com/connorads/webmux/internal/terminal"
)

// Drawer is the part of the command drawer buttons can drive.
type Drawer interface {
	Toggle()
	OpenTo(id string)
}

// View renders toolbar state.
type View interface {
	RenderRow(row int, buttons []config.Button)
	RenderFloating(group config.FloatingGroup)
	SetCtrlActive(active bool)
}

// Deps are the browser capabilities a toolbar uses. Clipboard, Haptics and
// View may be nil.
type Deps struct {
	Term      terminal.Terminal
	Keys      terminal.DataSource
	Viewport  terminal.Viewport
	Haptics   terminal.Haptics
	Clipboard terminal.Clipboard
	Drawer    Drawer
	View      View
}

type Toolbar struct {
	row1     []config.Button
	row2     []config.Button
	fallback []config.Button
	floating []config.FloatingGroup

	deps Deps
	ctrl *Ctrl
}

func New(cfg *config.Config, deps Deps) *Toolbar {
	if deps.Haptics == nil {
		deps.Haptics = terminal.NoHaptics{}
	}
	t := &Toolbar{
		row1:     cfg.Toolbar.Row1,
		row2:     cfg.Toolbar.Row2,
		fallback: cfg.Toolbar.Row2,
		floating: cfg.FloatingButtons,
		deps:     deps,
	}
	t.ctrl = NewCtrl(deps.Term, deps.Keys, func(active bool) {
		if deps.View != nil {
			deps.View.SetCtrlActive(active)
		}
	})
	return t
}

func (t *Toolbar) Row1() []config.Button { return t.row1 }
func (t *Toolbar) Row2() []config.Button { return t.row2 }
func (t *Toolbar) Ctrl() *Ctrl           { return t.ctrl }

// Render draws both rows and every floating group.
func (t *Toolbar) Render() {
	if t.deps.View == nil {
		return
	}
	t.deps.View.RenderRow(1, t.row1)
	t.deps.View.RenderRow(2, t.row2)
	for _, g := range t.floating {
		t.deps.View.RenderFloating(g)
	}
}

// ApplyContext swaps row 2 for the context's own buttons, or back to the
// configured row when it has none.
func (t *Toolbar) ApplyContext(ctx config.DrawerContext) {
	next := t.fallback
	if len(ctx.ToolbarButtons) > 0 {
		next = ctx.ToolbarButtons
	}
	t.row2 = next
	if t.deps.View != nil {
		t.deps.View.RenderRow(2, t.row2)
	}
}

// Press runs a button's action. The keyboard state is sampled before
// anything else so focus can be restored only if it was already up.
func (t *Toolbar) Press(b config.Button) {
	kbWasOpen := t.deps.Viewport != nil && t.deps.Viewport.KeyboardOpen()
	t.deps.Haptics.Tick()

	switch b.Action.Type {
	case config.ActionSend:
		data := b.Action.Data
		if t.ctrl.Active() {
			t.ctrl.Deactivate()
			data, _ = ControlCode(data)
		}
		terminal.Send(t.deps.Term, data)
		terminal.ConditionalFocus(t.deps.Term, kbWasOpen)

	case config.ActionCtrlModifier:
		t.ctrl.Toggle()
		terminal.ConditionalFocus(t.deps.Term, kbWasOpen)

	case config.ActionPaste:
		if t.deps.Clipboard == nil {
			terminal.ConditionalFocus(t.deps.Term, kbWasOpen)
			return
		}
		t.deps.Clipboard.ReadText(func(text string, ok bool) {
			if ok && text != "" {
				terminal.Send(t.deps.Term, text)
			}
			terminal.ConditionalFocus(t.deps.Term, kbWasOpen)
		})

	case config.ActionDrawerToggle:
		if t.deps.Drawer != nil {
			t.deps.Drawer.Toggle()
		}

	case config.ActionDrawerOpen:
		if t.deps.Drawer != nil {
			t.deps.Drawer.OpenTo(b.Action.ContextID)
		}

	default:
		logger.Debug("toolbar: unknown action", "type", b.Action.Type, "label", b.Label)
	}
}

// PressAt presses the i'th button of a row (1 or 2).
func (t *Toolbar) PressAt(row, i int) bool {
	buttons := t.row1
	if row == 2 {
		buttons = t.row2
	}
	if i < 0 || i >= len(buttons) {
		return false
	}
	t.Press(buttons[i])
	return true
}

// PressFloating presses button i of the group at position.
func (t *Toolbar) PressFloating(position string, i int) bool {
	for _, g := range t.floating {
		if g.Position != position {
			continue
		}
		if i < 0 || i >= len(g.Buttons) {
			return false
		}
		t.Press(g.Buttons[i])
		return true
	}
	return false
}
