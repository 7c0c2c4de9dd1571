package toolbar

import (
	"strings"
	"testing"
	"time"

	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/terminal"
)

type fakeDrawer struct {
	toggles int
	openTo  []string
}

func (d *fakeDrawer) Toggle()          { d.toggles++ }
func (d *fakeDrawer) OpenTo(id string) { d.openTo = append(d.openTo, id) }

type fakeView struct {
	rows     map[int][]string
	floating []string
	ctrl     bool
}

func (v *fakeView) RenderRow(row int, buttons []config.Button) {
	if v.rows == nil {
		v.rows = map[int][]string{}
	}
	var labels []string
	for _, b := range buttons {
		labels = append(labels, b.Label)
	}
	v.rows[row] = labels
}

func (v *fakeView) RenderFloating(g config.FloatingGroup) { v.floating = append(v.floating, g.Position) }
func (v *fakeView) SetCtrlActive(active bool)             { v.ctrl = active }

func newTestToolbar(cfg *config.Config) (*Toolbar, *terminal.Fake, *fakeDrawer, *fakeView) {
	if cfg == nil {
		cfg = config.Default()
	}
	term := terminal.NewFake(16)
	drawer := &fakeDrawer{}
	view := &fakeView{}
	tb := New(cfg, Deps{
		Term:      term,
		Keys:      term,
		Viewport:  term,
		Haptics:   term,
		Clipboard: term,
		Drawer:    drawer,
		View:      view,
	})
	return tb, term, drawer, view
}

func button(t *testing.T, tb *Toolbar, label string) config.Button {
	t.Helper()
	for _, b := range append(tb.Row1(), tb.Row2()...) {
		if b.Label == label {
			return b
		}
	}
	t.Fatalf("no button %q", label)
	return config.Button{}
}

func TestControlCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"c", "\x03", true},
		{"C", "\x03", true},
		{"a", "\x01", true},
		{"z", "\x1a", true},
		{"1", "1", false},
		{"[", "[", false},
		{"ab", "ab", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ControlCode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ControlCode(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDefaultRows(t *testing.T) {
	tb, _, _, view := newTestToolbar(nil)
	if len(tb.Row1()) != 10 {
		t.Errorf("row1 has %d buttons, want 10", len(tb.Row1()))
	}
	if len(tb.Row2()) != 5 {
		t.Errorf("row2 has %d buttons, want 5", len(tb.Row2()))
	}
	tb.Render()
	if len(view.rows[1]) != 10 || len(view.rows[2]) != 5 {
		t.Errorf("rendered rows: %v", view.rows)
	}
}

func TestStickyCtrlWithTypedLetter(t *testing.T) {
	tb, term, _, view := newTestToolbar(nil)
	tb.Press(button(t, tb, "Ctrl"))
	if !tb.Ctrl().Active() || !view.ctrl {
		t.Fatal("ctrl should be active")
	}

	term.Type("c")
	if len(term.Sent) != 1 || term.Sent[0] != "\x03" {
		t.Errorf("sent %q, want [\\x03]", term.Sent)
	}
	if tb.Ctrl().Active() || view.ctrl {
		t.Error("ctrl should deactivate after one key")
	}
	if term.Listeners() != 0 {
		t.Errorf("%d listeners left behind", term.Listeners())
	}

	term.Type("c")
	if term.Last() != "c" {
		t.Errorf("second keystroke sent %q, want plain c", term.Last())
	}
}

func TestStickyCtrlNonLetterJustDeactivates(t *testing.T) {
	tb, term, _, _ := newTestToolbar(nil)
	tb.Press(button(t, tb, "Ctrl"))
	term.Type("1")
	if term.Last() != "1" {
		t.Errorf("sent %q, want 1", term.Last())
	}
	if tb.Ctrl().Active() {
		t.Error("ctrl still active")
	}
}

func TestStickyCtrlWithToolbarLetter(t *testing.T) {
	tb, term, _, _ := newTestToolbar(nil)
	tb.Press(button(t, tb, "Ctrl"))
	tb.Press(button(t, tb, "q"))
	if term.Last() != "\x11" {
		t.Errorf("sent %q, want C-q", term.Last())
	}
	if tb.Ctrl().Active() {
		t.Error("ctrl still active")
	}

	// non-letter data is sent unchanged
	tb.Press(button(t, tb, "Ctrl"))
	tb.Press(button(t, tb, "Esc"))
	if term.Last() != "\x1b" {
		t.Errorf("sent %q, want Esc", term.Last())
	}
}

func TestCtrlToggleOff(t *testing.T) {
	tb, term, _, _ := newTestToolbar(nil)
	ctrl := button(t, tb, "Ctrl")
	tb.Press(ctrl)
	tb.Press(ctrl)
	if tb.Ctrl().Active() {
		t.Error("second press should deactivate")
	}
	term.Type("c")
	if term.Last() != "c" {
		t.Errorf("sent %q after toggle off", term.Last())
	}
}

func TestPressFocusesOnlyWithKeyboard(t *testing.T) {
	tb, term, _, _ := newTestToolbar(nil)
	tb.Press(button(t, tb, "Tab"))
	if term.Focused != 0 {
		t.Error("focused with keyboard hidden")
	}
	term.Keyboard = true
	tb.Press(button(t, tb, "Tab"))
	if term.Focused != 1 {
		t.Errorf("focused %d times", term.Focused)
	}
	if term.Ticks != 2 {
		t.Errorf("ticks = %d, want 2", term.Ticks)
	}
}

func TestPaste(t *testing.T) {
	tb, term, _, _ := newTestToolbar(nil)
	term.Keyboard = true

	term.ClipText, term.ClipOK = "hello", true
	tb.Press(button(t, tb, "Paste"))
	if term.Last() != "hello" {
		t.Errorf("pasted %q", term.Last())
	}

	term.Reset()
	term.ClipText, term.ClipOK = "", false
	tb.Press(button(t, tb, "Paste"))
	if len(term.Sent) != 0 {
		t.Errorf("failed read sent %q", term.Sent)
	}
	if term.Focused != 2 {
		t.Errorf("focused %d times, want 2", term.Focused)
	}
}

func TestDrawerActions(t *testing.T) {
	tb, _, drawer, _ := newTestToolbar(nil)
	tb.Press(button(t, tb, "☰ More"))
	tb.Press(config.Button{Label: "git", Action: config.OpenDrawer("lazygit")})
	if drawer.toggles != 1 {
		t.Errorf("toggles = %d", drawer.toggles)
	}
	if len(drawer.openTo) != 1 || drawer.openTo[0] != "lazygit" {
		t.Errorf("openTo = %v", drawer.openTo)
	}
}

func TestApplyContextSwapsRow2(t *testing.T) {
	tb, _, _, view := newTestToolbar(nil)

	tb.ApplyContext(config.ClaudeContext())
	if tb.Row2()[0].Label != "Mode" {
		t.Errorf("row2[0] = %q, want Mode", tb.Row2()[0].Label)
	}
	if view.rows[2][0] != "Mode" {
		t.Errorf("rendered row2 = %v", view.rows[2])
	}

	tb.ApplyContext(config.TmuxContext())
	if tb.Row2()[0].Label != "q" {
		t.Errorf("row2[0] = %q after tmux, want q", tb.Row2()[0].Label)
	}
}

func TestFloatingGroups(t *testing.T) {
	cfg := config.Default()
	cfg.FloatingButtons = []config.FloatingGroup{{
		Position: "top-left",
		Buttons:  []config.Button{{Label: "Zoom", Action: config.Send("\x02z")}},
	}}
	tb, term, _, view := newTestToolbar(cfg)
	tb.Render()
	if len(view.floating) != 1 || view.floating[0] != "top-left" {
		t.Errorf("floating = %v", view.floating)
	}
	if !tb.PressFloating("top-left", 0) || term.Last() != "\x02z" {
		t.Errorf("floating press sent %q", term.Last())
	}
	if tb.PressFloating("bottom-right", 0) || tb.PressFloating("top-left", 3) {
		t.Error("missing floating button pressed")
	}
}

func TestChangeFontSize(t *testing.T) {
	term := terminal.NewFake(30)
	fc := NewFontControls(term, config.FontRange{Min: 8, Max: 32}, term)

	if !fc.Increase() || term.Size != 32 {
		t.Fatalf("size = %d, want 32", term.Size)
	}
	if fc.Increase() {
		t.Error("increase at max reported a change")
	}
	if term.Resizes != 1 {
		t.Errorf("resizes = %d, want 1", term.Resizes)
	}
	fc.Decrease()
	if term.Size != 30 {
		t.Errorf("size = %d, want 30", term.Size)
	}
	if term.Ticks != 3 {
		t.Errorf("ticks = %d", term.Ticks)
	}
}

type fadeView struct{ active bool }

func (f *fadeView) SetActive(active bool) { f.active = active }

func TestPageButtonsRepeat(t *testing.T) {
	term := terminal.NewFake(16)
	var sched terminal.FakeScheduler
	fade := &fadeView{}
	p := NewPageButtons(term, term, &sched, fade)

	p.Press(PageUpSeq)
	if len(term.Sent) != 1 || !fade.active {
		t.Fatalf("press: sent %d active %v", len(term.Sent), fade.active)
	}
	sched.Advance(299 * time.Millisecond)
	if len(term.Sent) != 1 {
		t.Fatalf("repeat started early: %d", len(term.Sent))
	}
	// 300ms delay, then a send every 100ms
	sched.Advance(301 * time.Millisecond)
	if len(term.Sent) != 4 {
		t.Fatalf("sent %d after 600ms, want 4", len(term.Sent))
	}
	p.Release()
	sched.Advance(time.Second)
	if len(term.Sent) != 4 {
		t.Errorf("repeat continued after release: %d", len(term.Sent))
	}
	for _, s := range term.Sent {
		if s != PageUpSeq {
			t.Errorf("sent %q", s)
		}
	}

	sched.Advance(FadeAfter)
	if fade.active {
		t.Error("group did not fade")
	}
}

func TestPageButtonsClick(t *testing.T) {
	term := terminal.NewFake(16)
	var sched terminal.FakeScheduler
	p := NewPageButtons(term, term, &sched, nil)

	p.Click(PageDownSeq)
	sched.Advance(time.Second)
	if len(term.Sent) != 1 || term.Last() != PageDownSeq {
		t.Errorf("click sent %q", term.Sent)
	}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		seq  string
		want string
	}{
		{"\x02c", "C-b c"},
		{"\x02\x1b[5~", "C-b PgUp"},
		{"\x1b[6~", "PgDn"},
		{"/compact\r", "/compact Enter"},
		{"\x02 ", "C-b Space"},
		{"\x1b", "Esc"},
		{"\x1b[Z", "S-Tab"},
		{"\x03", "C-c"},
	}
	for _, tt := range tests {
		if got := Keys(tt.seq); got != tt.want {
			t.Errorf("Keys(%q) = %q, want %q", tt.seq, got, tt.want)
		}
	}
}

func TestHelpHTML(t *testing.T) {
	html, err := HelpHTML(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Sticky Ctrl",
		"lazygit drawer",
		"C-b c",
		"Swipe right",
		"Paste from clipboard",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("help missing %q", want)
		}
	}
	if strings.Contains(html, "Pinch") {
		t.Error("pinch is disabled by default but listed")
	}
}
