package overlay

import (
	"testing"
	"time"

	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/gesture"
	"github.com/connorads/webmux/internal/terminal"
	"github.com/connorads/webmux/internal/viewport"
)

type fakePage struct {
	title  string
	host   string
	mobile bool
}

func (p *fakePage) Title() string         { return p.title }
func (p *fakePage) SetTitle(title string) { p.title = title }
func (p *fakePage) Hostname() string      { return p.host }
func (p *fakePage) Mobile() bool          { return p.mobile }

type styledTerm struct {
	*terminal.Fake
	theme  map[string]string
	family string
}

func (s *styledTerm) SetTheme(theme map[string]string) { s.theme = theme }
func (s *styledTerm) SetFontFamily(family string)      { s.family = family }

type fakeMetrics struct{ m viewport.Metrics }

func (f *fakeMetrics) Metrics() viewport.Metrics { return f.m }

type fakeLayout struct{ last viewport.Layout }

func (f *fakeLayout) Apply(l viewport.Layout) { f.last = l }

type harness struct {
	o      *Overlay
	term   *styledTerm
	page   *fakePage
	sched  *terminal.FakeScheduler
	layout *fakeLayout
}

func newHarness(t *testing.T, cfg *config.Config, mobile bool) *harness {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	h := &harness{
		term:   &styledTerm{Fake: terminal.NewFake(12)},
		page:   &fakePage{host: "devbox.tail1234.ts.net", mobile: mobile},
		sched:  &terminal.FakeScheduler{},
		layout: &fakeLayout{},
	}
	o, err := New(cfg, Deps{
		Term:      h.term,
		Keys:      h.term,
		Haptics:   h.term,
		Clipboard: h.term,
		Sched:     h.sched,
		Page:      h.page,
		Metrics:   &fakeMetrics{m: viewport.Metrics{InnerWidth: 390, InnerHeight: 844, VisualHeight: 844, HasVisual: true, ToolbarHeight: 88}},
		Layout:    h.layout,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.o = o
	return h
}

func TestNewRequiresDeps(t *testing.T) {
	if _, err := New(config.Default(), Deps{}); err == nil {
		t.Fatal("expected error without deps")
	}
}

func TestShortHost(t *testing.T) {
	tests := map[string]string{
		"devbox.tail1234.ts.net": "devbox",
		"localhost":              "localhost",
		"":                       "",
	}
	for in, want := range tests {
		if got := ShortHost(in); got != want {
			t.Errorf("ShortHost(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStartMobile(t *testing.T) {
	cfg := config.Default()
	cfg.Mobile.InitData = "tmux attach\r"
	h := newHarness(t, cfg, true)
	h.o.Start()

	if h.page.title != "webmux · devbox" {
		t.Errorf("title = %q", h.page.title)
	}
	if h.term.Size != cfg.Font.MobileSizeDefault {
		t.Errorf("font size = %d, want %d", h.term.Size, cfg.Font.MobileSizeDefault)
	}
	if h.term.family != cfg.Font.Family {
		t.Errorf("font family = %q", h.term.family)
	}
	if h.term.theme["background"] != cfg.Theme.Background {
		t.Errorf("theme background = %q", h.term.theme["background"])
	}
	if h.term.Last() != "tmux attach\r" {
		t.Errorf("init data = %q", h.term.Last())
	}
	if h.o.Drawer.Active() != "tmux" {
		t.Errorf("active = %q, want tmux", h.o.Drawer.Active())
	}

	h.sched.Advance(time.Millisecond)
	if h.layout.last.BodyHeight != 844-88 {
		t.Errorf("body height = %v", h.layout.last.BodyHeight)
	}
	if h.o.Help() == "" {
		t.Error("help not rendered")
	}
}

func TestStartDesktop(t *testing.T) {
	h := newHarness(t, nil, false)
	h.o.Start()
	if h.page.title != "webmux · devbox" {
		t.Errorf("title = %q", h.page.title)
	}
	if h.term.Size != 12 || len(h.term.Sent) != 0 || h.term.theme != nil {
		t.Errorf("desktop got mobile setup: size=%d sent=%q", h.term.Size, h.term.Sent)
	}
	if h.term.Resizes != 1 {
		t.Errorf("resizes = %d, want 1", h.term.Resizes)
	}
}

func TestTitleAndSignalDetection(t *testing.T) {
	h := newHarness(t, nil, true)
	h.o.Start()

	h.page.title = "claude code - webmux"
	h.o.TitleChanged()
	if h.o.Drawer.Active() != "claude" {
		t.Fatalf("active = %q, want claude", h.o.Drawer.Active())
	}
	if h.o.Toolbar.Row2()[0].Label != "Mode" {
		t.Errorf("row2 not swapped: %q", h.o.Toolbar.Row2()[0].Label)
	}

	h.o.Signal("lazygit")
	if h.o.Drawer.Active() != "lazygit" {
		t.Errorf("active = %q after signal", h.o.Drawer.Active())
	}

	h.o.Signal("")
	if h.o.Drawer.Active() != "claude" {
		t.Errorf("active = %q after empty signal, want title match", h.o.Drawer.Active())
	}
}

func touch(ts time.Time, p ...float64) gesture.TouchEvent {
	ev := gesture.TouchEvent{Time: ts}
	for i := 0; i+1 < len(p); i += 2 {
		ev.Touches = append(ev.Touches, gesture.Point{X: p[i], Y: p[i+1]})
	}
	return ev
}

func TestSwipeThroughOverlay(t *testing.T) {
	h := newHarness(t, nil, true)
	t0 := time.Unix(100, 0)

	h.o.TouchStart(touch(t0, 50, 400))
	end := gesture.TouchEvent{Changed: []gesture.Point{{X: 200, Y: 405}}, Time: t0.Add(120 * time.Millisecond)}
	h.o.TouchEnd(end)
	if h.term.Last() != gesture.PrevWindow {
		t.Errorf("sent %q, want prev window", h.term.Last())
	}
}

func TestScrollThroughOverlay(t *testing.T) {
	h := newHarness(t, nil, true)
	t0 := time.Unix(100, 0)

	h.o.TouchStart(touch(t0, 100, 400))
	if !h.o.TouchMove(touch(t0, 100, 280)) {
		t.Error("owned scroll should prevent default")
	}
	if len(h.term.Sent) != 3 {
		t.Errorf("sent %d wheel events, want 3", len(h.term.Sent))
	}
	if h.o.Lock() != gesture.Scroll {
		t.Errorf("lock = %v", h.o.Lock())
	}
	h.o.TouchEnd(gesture.TouchEvent{Changed: []gesture.Point{{X: 100, Y: 280}}, Time: t0.Add(time.Second)})
	if h.o.Lock() != gesture.None {
		t.Errorf("lock = %v after end", h.o.Lock())
	}
}

func TestGesturesIgnoredWhileDrawerOpen(t *testing.T) {
	h := newHarness(t, nil, true)
	h.o.Drawer.Open()
	t0 := time.Unix(100, 0)

	h.o.TouchStart(touch(t0, 50, 400))
	h.o.TouchMove(touch(t0, 50, 200))
	h.o.TouchEnd(gesture.TouchEvent{Changed: []gesture.Point{{X: 250, Y: 400}}, Time: t0.Add(100 * time.Millisecond)})
	if len(h.term.Sent) != 0 {
		t.Errorf("sent %q with drawer open", h.term.Sent)
	}
}

func TestPinchThroughOverlay(t *testing.T) {
	cfg := config.Default()
	cfg.Gestures.Pinch.Enabled = true
	h := newHarness(t, cfg, true)
	h.o.Start()
	t0 := time.Unix(100, 0)

	h.o.TouchStart(touch(t0, 100, 400))
	h.o.TouchStart(touch(t0, 100, 400, 200, 400))
	if !h.o.TouchMove(touch(t0, 100, 400, 220, 400)) {
		t.Error("owned pinch should prevent default")
	}
	if h.term.Size != 19 {
		t.Errorf("size = %d, want 19", h.term.Size)
	}
	h.o.TouchCancel(gesture.TouchEvent{})
	if h.o.Lock() != gesture.None {
		t.Errorf("lock = %v after cancel", h.o.Lock())
	}
}

func TestPartialLiftKeepsPinchLock(t *testing.T) {
	cfg := config.Default()
	cfg.Gestures.Pinch.Enabled = true
	cfg.Gestures.Scroll.Fingers = 2
	h := newHarness(t, cfg, true)
	h.o.Start()
	h.term.Reset()
	t0 := time.Unix(100, 0)

	h.o.TouchStart(touch(t0, 100, 400, 200, 400))
	h.o.TouchMove(touch(t0, 100, 400, 220, 400))
	if h.o.Lock() != gesture.Pinch {
		t.Fatalf("lock = %v, want pinch", h.o.Lock())
	}
	size := h.term.Size

	h.o.TouchEnd(touch(t0, 100, 400))
	if h.o.Lock() != gesture.Pinch {
		t.Fatalf("lock = %v after one finger lifted, want pinch", h.o.Lock())
	}

	h.o.TouchStart(touch(t0, 100, 400, 220, 400))
	h.o.TouchMove(touch(t0, 100, 300, 220, 300))
	if len(h.term.Sent) != 0 {
		t.Errorf("scroll sent %q during pinch's contact", h.term.Sent)
	}
	if h.o.Lock() != gesture.Pinch || h.term.Size != size {
		t.Errorf("lock = %v size = %d, want pinch %d", h.o.Lock(), h.term.Size, size)
	}

	h.o.TouchEnd(touch(t0))
	if h.o.Lock() != gesture.None {
		t.Errorf("lock = %v after all fingers lifted", h.o.Lock())
	}
}
