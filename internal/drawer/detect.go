// Package drawer holds the command drawer state and the detector that picks
// the drawer context from the terminal title or an out-of-band signal.
package drawer

import (
	"strings"

	"github.com/connorads/webmux/internal/config"
)

// Match returns the id of the first context whose title patterns occur in
// title, case-insensitively. With no match it returns the first context's
// id, and "" when there are no contexts.
func Match(title string, contexts []config.DrawerContext) string {
	if len(contexts) == 0 {
		return ""
	}
	title = strings.ToLower(title)
	for _, ctx := range contexts {
		for _, p := range ctx.TitlePatterns {
			if strings.Contains(title, strings.ToLower(p)) {
				return ctx.ID
			}
		}
	}
	return contexts[0].ID
}

// Detector feeds detected context ids into a setter.
type Detector struct {
	contexts []config.DrawerContext
	title    func() string
	set      func(id string)
}

// NewDetector wires title to set. title is read on every Run.
func NewDetector(contexts []config.DrawerContext, title func() string, set func(id string)) *Detector {
	return &Detector{contexts: contexts, title: title, set: set}
}

// Run matches the current title. It is called once at start and again on
// every title mutation.
func (d *Detector) Run() {
	if id := Match(d.title(), d.contexts); id != "" {
		d.set(id)
	}
}

// Signal applies an explicit context id. An empty or unknown id falls back to
// title matching.
func (d *Detector) Signal(id string) {
	if id != "" && d.known(id) {
		d.set(id)
		return
	}
	d.Run()
}

func (d *Detector) known(id string) bool {
	for _, ctx := range d.contexts {
		if ctx.ID == id {
			return true
		}
	}
	return false
}
