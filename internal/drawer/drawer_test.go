package drawer

import (
	"testing"

	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/terminal"
)

func testContexts() []config.DrawerContext {
	return []config.DrawerContext{
		config.TmuxContext(),
		config.LazygitContext(),
		config.ClaudeContext(),
	}
}

func TestMatch(t *testing.T) {
	contexts := testContexts()
	tests := []struct {
		title string
		want  string
	}{
		{"claude code - project", "claude"},
		{"bash - terminal", "tmux"},
		{"CLAUDE Code", "claude"},
		{"", "tmux"},
		{"lazygit ~/src/webmux", "lazygit"},
		// first match in config order wins
		{"lazygit launched from claude", "lazygit"},
	}
	for _, tt := range tests {
		if got := Match(tt.title, contexts); got != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestMatchNoContexts(t *testing.T) {
	if got := Match("claude", nil); got != "" {
		t.Errorf("Match with no contexts = %q, want empty", got)
	}
}

func TestDetector(t *testing.T) {
	title := "claude code"
	var got []string
	d := NewDetector(testContexts(), func() string { return title }, func(id string) {
		got = append(got, id)
	})

	d.Run()
	d.Signal("lazygit")
	d.Signal("")
	d.Signal("vim")
	title = "zsh"
	d.Run()

	want := []string{"claude", "lazygit", "claude", "claude", "tmux"}
	if len(got) != len(want) {
		t.Fatalf("set calls = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDetectorInertWithoutContexts(t *testing.T) {
	calls := 0
	d := NewDetector(nil, func() string { return "claude" }, func(string) { calls++ })
	d.Run()
	d.Signal("claude")
	if calls != 0 {
		t.Errorf("set called %d times with no contexts", calls)
	}
}

type fakeView struct {
	open     bool
	tabs     []string
	active   string
	commands string
	offset   float64
	renders  int
}

func (v *fakeView) SetOpen(open bool) { v.open = open }

func (v *fakeView) RenderTabs(tabs []config.DrawerContext, active string) {
	v.tabs = v.tabs[:0]
	for _, t := range tabs {
		v.tabs = append(v.tabs, t.ID)
	}
	v.active = active
}

func (v *fakeView) RenderCommands(ctx config.DrawerContext) {
	v.commands = ctx.ID
	v.renders++
}

func (v *fakeView) SetDragOffset(px float64) { v.offset = px }

func newTestDrawer() (*Drawer, *terminal.Fake, *fakeView) {
	term := terminal.NewFake(16)
	view := &fakeView{}
	return New(testContexts(), term, term, term, view), term, view
}

func TestNewShowsFirstContext(t *testing.T) {
	d, _, view := newTestDrawer()
	if d.IsOpen() {
		t.Error("drawer should start closed")
	}
	if d.Active() != "tmux" || d.Detected() != "tmux" {
		t.Errorf("active=%q detected=%q, want tmux", d.Active(), d.Detected())
	}
	if view.commands != "tmux" {
		t.Errorf("rendered %q, want tmux", view.commands)
	}
	if len(view.tabs) != 1 || view.tabs[0] != "tmux" {
		t.Errorf("tabs = %v, want [tmux]", view.tabs)
	}
}

func TestSetContextUpdatesTabs(t *testing.T) {
	d, _, view := newTestDrawer()
	d.SetContext("claude")

	if d.Active() != "claude" || d.Detected() != "claude" {
		t.Errorf("active=%q detected=%q", d.Active(), d.Detected())
	}
	if len(view.tabs) != 2 || view.tabs[0] != "tmux" || view.tabs[1] != "claude" {
		t.Errorf("tabs = %v, want [tmux claude]", view.tabs)
	}
	if view.commands != "claude" {
		t.Errorf("commands = %q", view.commands)
	}
}

func TestSelectContextKeepsDetection(t *testing.T) {
	d, _, view := newTestDrawer()
	d.SetContext("lazygit")
	d.SelectContext("tmux")

	if d.Active() != "tmux" {
		t.Errorf("active = %q, want tmux", d.Active())
	}
	if d.Detected() != "lazygit" {
		t.Errorf("detected = %q, want lazygit", d.Detected())
	}
	if len(view.tabs) != 2 || view.tabs[1] != "lazygit" {
		t.Errorf("tabs = %v, want [tmux lazygit]", view.tabs)
	}
	if view.active != "tmux" {
		t.Errorf("highlighted tab = %q", view.active)
	}
}

func TestUnknownContextIgnored(t *testing.T) {
	d, _, _ := newTestDrawer()
	d.SetContext("claude")
	d.SetContext("vim")
	d.SelectContext("vim")
	if d.Active() != "claude" || d.Detected() != "claude" {
		t.Errorf("active=%q detected=%q after unknown id", d.Active(), d.Detected())
	}
}

func TestOpenCloseToggle(t *testing.T) {
	d, _, view := newTestDrawer()

	d.Toggle()
	if !d.IsOpen() || !view.open {
		t.Fatal("toggle should open")
	}
	d.Toggle()
	if d.IsOpen() || view.open {
		t.Fatal("toggle should close")
	}

	d.OpenTo("lazygit")
	if !d.IsOpen() || d.Active() != "lazygit" {
		t.Errorf("OpenTo: open=%v active=%q", d.IsOpen(), d.Active())
	}

	// visibility and context are independent
	d.Close()
	if d.Active() != "lazygit" {
		t.Errorf("close changed active to %q", d.Active())
	}
}

func TestActivateCommand(t *testing.T) {
	tests := []struct {
		name      string
		keyboard  bool
		wantFocus int
	}{
		{"keyboard hidden stays hidden", false, 0},
		{"keyboard shown keeps focus", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, term, _ := newTestDrawer()
			term.Keyboard = tt.keyboard
			d.Open()

			if !d.ActivateIndex(0) {
				t.Fatal("ActivateIndex(0) = false")
			}
			if d.IsOpen() {
				t.Error("drawer should close after a command")
			}
			if term.Last() != "\x02c" {
				t.Errorf("sent %q, want new window", term.Last())
			}
			if term.Ticks != 1 {
				t.Errorf("ticks = %d", term.Ticks)
			}
			if term.Focused != tt.wantFocus {
				t.Errorf("focused %d times, want %d", term.Focused, tt.wantFocus)
			}
		})
	}
}

func TestActivateIndexOutOfRange(t *testing.T) {
	d, term, _ := newTestDrawer()
	if d.ActivateIndex(99) || d.ActivateIndex(-1) {
		t.Error("out of range index should fail")
	}
	if len(term.Sent) != 0 {
		t.Errorf("sent %q", term.Sent)
	}
}

func TestDismiss(t *testing.T) {
	d, term, _ := newTestDrawer()
	term.Keyboard = true
	d.Open()
	d.Dismiss()
	if d.IsOpen() {
		t.Error("backdrop tap should close")
	}
	if term.Focused != 1 || len(term.Sent) != 0 {
		t.Errorf("focused=%d sent=%q", term.Focused, term.Sent)
	}
}

func TestHandleDrag(t *testing.T) {
	d, _, view := newTestDrawer()
	d.Open()

	d.DragStart(100)
	d.DragMove(90)
	if view.offset != 0 {
		t.Errorf("upward drag moved sheet to %v", view.offset)
	}
	d.DragMove(140)
	if view.offset != 40 {
		t.Errorf("offset = %v, want 40", view.offset)
	}
	if d.DragEnd(150) {
		t.Error("50px drag should snap back")
	}
	if !d.IsOpen() || view.offset != 0 {
		t.Errorf("open=%v offset=%v after snap back", d.IsOpen(), view.offset)
	}

	d.DragStart(100)
	if !d.DragEnd(161) {
		t.Error("61px drag should dismiss")
	}
	if d.IsOpen() {
		t.Error("drawer still open after dismiss")
	}
}

func TestContextChangeListener(t *testing.T) {
	d, _, _ := newTestDrawer()
	var seen []string
	d.OnContextChange(func(ctx config.DrawerContext) { seen = append(seen, ctx.ID) })

	d.SetContext("claude")
	d.SetContext("claude")
	d.SelectContext("tmux")

	if len(seen) != 2 || seen[0] != "claude" || seen[1] != "tmux" {
		t.Errorf("listener saw %v, want [claude tmux]", seen)
	}
}
