package gesture

import (
	"math"
	"time"

	"github.com/connorads/webmux/internal/config"
)

// Point is a touch position in CSS pixels.
type Point struct {
	X, Y float64
}

// TouchEvent is one touchstart/move/end/cancel sample. Touches holds the
// fingers still down; Changed holds the fingers that triggered the event.
type TouchEvent struct {
	Touches []Point
	Changed []Point
	Time    time.Time
}

// Phase is where a lock-contending handler is in its contact.
type Phase int

const (
	Idle Phase = iota
	Tracking
	Owning
)

func (p Phase) String() string {
	switch p {
	case Tracking:
		return "tracking"
	case Owning:
		return "owning"
	default:
		return "idle"
	}
}

// Distance is the euclidean distance between two touches.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// AverageY is the vertical midpoint of two touches.
func AverageY(a, b Point) float64 {
	return (a.Y + b.Y) / 2
}

// ClampFontSize limits size to the inclusive range.
func ClampFontSize(size int, r config.FontRange) int {
	return max(r.Min, min(r.Max, size))
}
