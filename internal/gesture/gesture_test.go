package gesture

import (
	"strings"
	"testing"
	"time"

	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/terminal"
)

func pts(p ...float64) []Point {
	var out []Point
	for i := 0; i+1 < len(p); i += 2 {
		out = append(out, Point{X: p[i], Y: p[i+1]})
	}
	return out
}

func TestLockExclusive(t *testing.T) {
	var l Lock
	if l.Owner() != None {
		t.Fatalf("new lock owner = %v", l.Owner())
	}
	if !l.TryAcquire(Pinch) {
		t.Fatal("first acquire should succeed")
	}
	if l.TryAcquire(Scroll) {
		t.Error("second acquire should fail while held")
	}
	if l.TryAcquire(Pinch) {
		t.Error("re-acquire by owner should also fail")
	}
	if !l.Held(Pinch) || l.Held(Scroll) {
		t.Errorf("Held: pinch=%v scroll=%v", l.Held(Pinch), l.Held(Scroll))
	}
	l.Release()
	if l.Owner() != None {
		t.Errorf("owner after release = %v", l.Owner())
	}
	l.Release()
	if !l.TryAcquire(Scroll) {
		t.Error("acquire after release should succeed")
	}
	if l.Held(None) {
		t.Error("None is never held")
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(Point{0, 0}, Point{3, 4}); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
	a, b := Point{12.5, -3}, Point{-7, 40}
	if Distance(a, b) != Distance(b, a) {
		t.Error("Distance is not symmetric")
	}
	if Distance(a, a) != 0 {
		t.Error("Distance to self should be 0")
	}
}

func TestClampFontSize(t *testing.T) {
	r := config.FontRange{Min: 8, Max: 32}
	tests := []struct {
		in, want int
	}{
		{4, 8},
		{8, 8},
		{16, 16},
		{32, 32},
		{50, 32},
		{-1, 8},
	}
	for _, tt := range tests {
		if got := ClampFontSize(tt.in, r); got != tt.want {
			t.Errorf("ClampFontSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIsValidSwipe(t *testing.T) {
	cfg := config.SwipeConfig{Enabled: true, Threshold: 80, MaxDuration: 400}
	ms := time.Millisecond
	tests := []struct {
		name   string
		dx, dy float64
		dt     time.Duration
		want   Direction
	}{
		{"right", 100, 10, 200 * ms, SwipeRight},
		{"right instant", 100, 0, 0, SwipeRight},
		{"left", -100, 10, 200 * ms, SwipeLeft},
		{"short", 50, 10, 200 * ms, NoSwipe},
		{"slow", 100, 10, 500 * ms, NoSwipe},
		{"too diagonal", 100, 80, 200 * ms, NoSwipe},
		{"exactly 2x dy", 100, 50, 200 * ms, NoSwipe},
		{"at threshold", 80, 0, 100 * ms, NoSwipe},
		{"just past threshold", 81, 0, 100 * ms, SwipeRight},
		{"too slow", 200, 0, 400 * ms, NoSwipe},
		{"just fast enough", 200, 0, 399 * ms, SwipeRight},
		{"vertical", 0, 200, 100 * ms, NoSwipe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidSwipe(tt.dx, tt.dy, tt.dt, cfg); got != tt.want {
				t.Errorf("IsValidSwipe(%v, %v, %v) = %v, want %v", tt.dx, tt.dy, tt.dt, got, tt.want)
			}
		})
	}
}

func TestIsValidSwipeSymmetric(t *testing.T) {
	cfg := config.SwipeConfig{Threshold: 80, MaxDuration: 400}
	for _, dx := range []float64{50, 81, 120, 300} {
		for _, dy := range []float64{0, 20, 60, 200} {
			r := IsValidSwipe(dx, dy, 100*time.Millisecond, cfg)
			l := IsValidSwipe(-dx, dy, 100*time.Millisecond, cfg)
			if (r == SwipeRight) != (l == SwipeLeft) {
				t.Errorf("dx=%v dy=%v: right=%v left=%v", dx, dy, r, l)
			}
		}
	}
}

type fakeIndicator struct{ shown []string }

func (f *fakeIndicator) Show(arrow string) { f.shown = append(f.shown, arrow) }

func TestSwipeHandler(t *testing.T) {
	cfg := config.SwipeConfig{Enabled: true, Threshold: 80, MaxDuration: 400}
	t0 := time.Unix(1000, 0)

	tests := []struct {
		name   string
		from   Point
		to     Point
		dt     time.Duration
		drawer bool
		want   string
		arrow  string
	}{
		{"right sends prev", Point{50, 300}, Point{200, 310}, 150 * time.Millisecond, false, PrevWindow, "◀"},
		{"left sends next", Point{300, 300}, Point{100, 290}, 150 * time.Millisecond, false, NextWindow, "▶"},
		{"slow ignored", Point{50, 300}, Point{200, 300}, time.Second, false, "", ""},
		{"drawer open ignored", Point{50, 300}, Point{200, 300}, 100 * time.Millisecond, true, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := terminal.NewFake(16)
			ind := &fakeIndicator{}
			s := NewSwipe(term, cfg, func() bool { return tt.drawer }, term, ind)

			s.Start(TouchEvent{Touches: []Point{tt.from}, Time: t0})
			s.End(TouchEvent{Changed: []Point{tt.to}, Time: t0.Add(tt.dt)})

			if term.Last() != tt.want {
				t.Errorf("sent %q, want %q", term.Last(), tt.want)
			}
			if tt.arrow == "" {
				if len(ind.shown) != 0 || term.Ticks != 0 {
					t.Errorf("indicator %v ticks %d, want none", ind.shown, term.Ticks)
				}
				return
			}
			if len(ind.shown) != 1 || ind.shown[0] != tt.arrow {
				t.Errorf("indicator = %v, want [%s]", ind.shown, tt.arrow)
			}
			if term.Ticks != 1 {
				t.Errorf("ticks = %d, want 1", term.Ticks)
			}
		})
	}
}

func TestSwipeCancelledBySecondFinger(t *testing.T) {
	cfg := config.SwipeConfig{Threshold: 80, MaxDuration: 400}
	term := terminal.NewFake(16)
	s := NewSwipe(term, cfg, func() bool { return false }, nil, nil)
	t0 := time.Unix(0, 0)

	s.Start(TouchEvent{Touches: pts(50, 300), Time: t0})
	s.Start(TouchEvent{Touches: pts(50, 300, 150, 300), Time: t0})
	s.End(TouchEvent{Changed: pts(250, 300), Time: t0.Add(100 * time.Millisecond)})

	if len(term.Sent) != 0 {
		t.Errorf("sent %q after two-finger contact", term.Sent)
	}
}

func TestPinchResizesFont(t *testing.T) {
	term := terminal.NewFake(16)
	var lock Lock
	p := NewPinch(term, config.FontRange{Min: 8, Max: 32}, &lock)

	p.Start(TouchEvent{Touches: pts(100, 300, 200, 300)})
	if p.Phase() != Tracking || lock.Owner() != None {
		t.Fatalf("after start: phase %v owner %v", p.Phase(), lock.Owner())
	}

	// inside the deadband: no lock, no resize
	if p.Move(TouchEvent{Touches: pts(100, 300, 204, 300)}) {
		t.Error("move inside deadband should not prevent default")
	}
	if lock.Owner() != None || term.Size != 16 {
		t.Fatalf("deadband move: owner %v size %d", lock.Owner(), term.Size)
	}

	// ratio 1.2
	if !p.Move(TouchEvent{Touches: pts(100, 300, 220, 300)}) {
		t.Error("owning move should prevent default")
	}
	if lock.Owner() != Pinch {
		t.Fatalf("owner = %v, want pinch", lock.Owner())
	}
	if term.Size != 19 {
		t.Errorf("size = %d, want 19", term.Size)
	}
	if term.Resizes != 1 {
		t.Errorf("resizes = %d, want 1", term.Resizes)
	}

	// huge spread clamps at max
	p.Move(TouchEvent{Touches: pts(0, 300, 1000, 300)})
	if term.Size != 32 {
		t.Errorf("size = %d, want 32", term.Size)
	}

	p.End(TouchEvent{})
	if lock.Owner() != None {
		t.Errorf("owner after end = %v", lock.Owner())
	}
	if p.Phase() != Idle {
		t.Errorf("phase after end = %v", p.Phase())
	}
}

func TestPinchShrinkClampsAtMin(t *testing.T) {
	term := terminal.NewFake(10)
	var lock Lock
	p := NewPinch(term, config.FontRange{Min: 8, Max: 32}, &lock)

	p.Start(TouchEvent{Touches: pts(0, 0, 200, 0)})
	p.Move(TouchEvent{Touches: pts(0, 0, 20, 0)})
	if term.Size != 8 {
		t.Errorf("size = %d, want 8", term.Size)
	}
}

func TestScrollEmitsOnePerSensitivity(t *testing.T) {
	term := terminal.NewFake(16)
	var lock Lock
	s := NewScroll(term, 40, 1, &lock, func() bool { return false })

	s.Start(TouchEvent{Touches: pts(100, 300)})
	if s.Move(TouchEvent{Touches: pts(100, 290)}) {
		t.Error("sub-threshold move should not prevent default")
	}
	if lock.Owner() != None {
		t.Fatalf("owner = %v before threshold", lock.Owner())
	}
	if !s.Move(TouchEvent{Touches: pts(100, 180)}) {
		t.Error("owning move should prevent default")
	}
	if lock.Owner() != Scroll {
		t.Fatalf("owner = %v, want scroll", lock.Owner())
	}
	if len(term.Sent) != 3 {
		t.Fatalf("sent %d events, want 3: %q", len(term.Sent), term.Sent)
	}
	for _, seq := range term.Sent {
		if seq != WheelDown {
			t.Errorf("sent %q, want wheel down", seq)
		}
	}

	term.Reset()
	s.Move(TouchEvent{Touches: pts(100, 230)})
	if strings.Join(term.Sent, "") != WheelUp {
		t.Errorf("reverse drag sent %q, want one wheel up", term.Sent)
	}

	s.End(TouchEvent{})
	if lock.Owner() != None {
		t.Errorf("owner after end = %v", lock.Owner())
	}
}

func TestScrollRemainderCarries(t *testing.T) {
	term := terminal.NewFake(16)
	var lock Lock
	s := NewScroll(term, 40, 1, &lock, func() bool { return false })

	s.Start(TouchEvent{Touches: pts(0, 0)})
	s.Move(TouchEvent{Touches: pts(0, 50)}) // acquire, one up, 10 left over
	s.Move(TouchEvent{Touches: pts(0, 75)}) // 35 pending
	if len(term.Sent) != 1 {
		t.Fatalf("sent %d, want 1", len(term.Sent))
	}
	s.Move(TouchEvent{Touches: pts(0, 80)}) // 40 pending
	if len(term.Sent) != 2 || term.Last() != WheelUp {
		t.Errorf("sent %q, want two wheel ups", term.Sent)
	}
}

func TestScrollIgnoredWhileDrawerOpen(t *testing.T) {
	term := terminal.NewFake(16)
	var lock Lock
	open := true
	s := NewScroll(term, 40, 1, &lock, func() bool { return open })

	s.Start(TouchEvent{Touches: pts(0, 0)})
	if s.Move(TouchEvent{Touches: pts(0, 200)}) {
		t.Error("move with drawer open should not prevent default")
	}
	if len(term.Sent) != 0 || lock.Owner() != None {
		t.Errorf("sent %q owner %v with drawer open", term.Sent, lock.Owner())
	}
}

func TestTwoFingerScrollUsesAverage(t *testing.T) {
	term := terminal.NewFake(16)
	var lock Lock
	s := NewScroll(term, 40, 2, &lock, func() bool { return false })

	s.Start(TouchEvent{Touches: pts(0, 100)})
	if s.Phase() != Idle {
		t.Fatal("one finger should not start a two-finger scroll")
	}
	s.Start(TouchEvent{Touches: pts(0, 100, 100, 100)})
	s.Move(TouchEvent{Touches: pts(0, 100, 100, 200)}) // average +50
	if len(term.Sent) != 1 || term.Last() != WheelUp {
		t.Errorf("sent %q, want one wheel up", term.Sent)
	}
}

func TestScrollWinsLockOverPinch(t *testing.T) {
	term := terminal.NewFake(16)
	var lock Lock
	p := NewPinch(term, config.FontRange{Min: 8, Max: 32}, &lock)
	s := NewScroll(term, 40, 2, &lock, func() bool { return false })

	start := TouchEvent{Touches: pts(100, 300, 200, 300)}
	p.Start(start)
	s.Start(start)

	// both fingers slide up together; spread unchanged
	move := TouchEvent{Touches: pts(100, 250, 200, 250)}
	s.Move(move)
	p.Move(move)
	if lock.Owner() != Scroll {
		t.Fatalf("owner = %v, want scroll", lock.Owner())
	}

	// now they spread; pinch must stay out
	move = TouchEvent{Touches: pts(50, 250, 250, 250)}
	s.Move(move)
	if p.Move(move) {
		t.Error("losing pinch should not prevent default")
	}
	if term.Size != 16 {
		t.Errorf("font changed to %d while scroll owned the lock", term.Size)
	}

	s.End(TouchEvent{})
	p.End(TouchEvent{})
	if lock.Owner() != None {
		t.Errorf("owner after end = %v", lock.Owner())
	}
}

func TestPinchWinsLockOverScroll(t *testing.T) {
	term := terminal.NewFake(16)
	var lock Lock
	p := NewPinch(term, config.FontRange{Min: 8, Max: 32}, &lock)
	s := NewScroll(term, 40, 2, &lock, func() bool { return false })

	start := TouchEvent{Touches: pts(100, 300, 200, 300)}
	p.Start(start)
	s.Start(start)

	move := TouchEvent{Touches: pts(80, 300, 220, 300)}
	p.Move(move)
	s.Move(move)
	if lock.Owner() != Pinch {
		t.Fatalf("owner = %v, want pinch", lock.Owner())
	}

	// drift down far enough to trip scroll's threshold
	move = TouchEvent{Touches: pts(80, 400, 220, 400)}
	p.Move(move)
	if s.Move(move) {
		t.Error("losing scroll should not prevent default")
	}
	if len(term.Sent) != 0 {
		t.Errorf("scroll emitted %q while pinch owned the lock", term.Sent)
	}
}

func TestLockHeldAcrossPartialLift(t *testing.T) {
	term := terminal.NewFake(16)
	var lock Lock
	p := NewPinch(term, config.FontRange{Min: 8, Max: 32}, &lock)
	s := NewScroll(term, 40, 2, &lock, func() bool { return false })
	step := func(ev TouchEvent) {
		p.Move(ev)
		s.Move(ev)
	}

	start := TouchEvent{Touches: pts(100, 300, 200, 300)}
	p.Start(start)
	s.Start(start)
	step(TouchEvent{Touches: pts(90, 300, 210, 300)})
	if lock.Owner() != Pinch {
		t.Fatalf("owner = %v, want pinch", lock.Owner())
	}

	// one finger lifts, the other stays down
	lift := TouchEvent{Touches: pts(90, 300)}
	p.End(lift)
	s.End(lift)
	if lock.Owner() != Pinch {
		t.Fatalf("owner after partial lift = %v, want pinch", lock.Owner())
	}

	// it lands again and both fingers drag well past scroll's threshold
	reland := TouchEvent{Touches: pts(90, 300, 210, 300)}
	p.Start(reland)
	s.Start(reland)
	step(TouchEvent{Touches: pts(90, 200, 210, 200)})
	if len(term.Sent) != 0 {
		t.Errorf("scroll emitted %q inside pinch's contact", term.Sent)
	}
	if lock.Owner() != Pinch {
		t.Errorf("owner = %v, want pinch", lock.Owner())
	}
	size := term.Size

	// pinch rebased on the re-land: same spread keeps the size
	step(TouchEvent{Touches: pts(90, 200, 210, 200)})
	if term.Size != size {
		t.Errorf("size jumped from %d to %d after re-land", size, term.Size)
	}

	all := TouchEvent{}
	p.End(all)
	s.End(all)
	if lock.Owner() != None {
		t.Fatalf("owner after full lift = %v", lock.Owner())
	}

	// next contact: scroll is eligible again
	start = TouchEvent{Touches: pts(100, 300, 200, 300)}
	p.Start(start)
	s.Start(start)
	step(TouchEvent{Touches: pts(100, 380, 200, 380)})
	if lock.Owner() != Scroll || len(term.Sent) != 2 {
		t.Errorf("fresh contact: owner = %v, sent %q", lock.Owner(), term.Sent)
	}
}
