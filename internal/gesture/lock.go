// Package gesture turns raw touch samples into terminal actions. Pinch and
// scroll both want two-finger or vertical-drag input, so they share a Lock;
// whichever crosses its threshold first owns the contact until every finger
// lifts. Swipe is single-finger and needs no lock.
package gesture

// Owner identifies which gesture holds the lock.
type Owner int

const (
	None Owner = iota
	Pinch
	Scroll
)

func (o Owner) String() string {
	switch o {
	case Pinch:
		return "pinch"
	case Scroll:
		return "scroll"
	default:
		return "none"
	}
}

// Lock is a non-blocking mutual-exclusion slot. It is only touched from the
// UI event loop, so no atomics are needed.
type Lock struct {
	owner Owner
}

// TryAcquire claims the lock for o iff nobody owns it.
func (l *Lock) TryAcquire(o Owner) bool {
	if l.owner != None {
		return false
	}
	l.owner = o
	return true
}

// Release resets the lock regardless of the current owner.
func (l *Lock) Release() {
	l.owner = None
}

// Owner returns the current owner.
func (l *Lock) Owner() Owner {
	return l.owner
}

// Held reports whether o currently owns the lock.
func (l *Lock) Held(o Owner) bool {
	return o != None && l.owner == o
}
