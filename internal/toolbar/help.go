package toolbar

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/connorads/webmux/internal/config"
)

//go:embed templates
var templateFS embed.FS

var csiNames = []struct{ seq, name string }{
	{"\x1b[A", "Up"},
	{"\x1b[B", "Down"},
	{"\x1b[C", "Right"},
	{"\x1b[D", "Left"},
	{"\x1b[Z", "S-Tab"},
	{"\x1b[5~", "PgUp"},
	{"\x1b[6~", "PgDn"},
}

func csiName(s string) (string, int) {
	for _, k := range csiNames {
		if strings.HasPrefix(s, k.seq) {
			return k.name, len(k.seq)
		}
	}
	return "", 0
}

// Keys renders a key sequence the way tmux writes bindings: "\x02c" is
// "C-b c", "/clear\r" is "/clear Enter".
func Keys(seq string) string {
	var out []string
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			out = append(out, lit.String())
			lit.Reset()
		}
	}
	for i := 0; i < len(seq); i++ {
		c := seq[i]
		switch {
		case c == 0x1b:
			flush()
			if name, n := csiName(seq[i:]); n > 0 {
				out = append(out, name)
				i += n - 1
				continue
			}
			out = append(out, "Esc")
		case c == '\r':
			flush()
			out = append(out, "Enter")
		case c == '\t':
			flush()
			out = append(out, "Tab")
		case c == ' ':
			flush()
			out = append(out, "Space")
		case c >= 0x01 && c <= 0x1a:
			flush()
			out = append(out, "C-"+string(rune('a'+c-1)))
		case c < 0x20 || c == 0x7f:
			flush()
			out = append(out, fmt.Sprintf("0x%02x", c))
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return strings.Join(out, " ")
}

// Describe says what a button does, preferring its own description.
func Describe(b config.Button) string {
	if b.Description != "" {
		return b.Description
	}
	switch b.Action.Type {
	case config.ActionSend:
		return "Send " + Keys(b.Action.Data)
	case config.ActionCtrlModifier:
		return "Sticky Ctrl: next key is sent as Ctrl+key"
	case config.ActionPaste:
		return "Paste from clipboard"
	case config.ActionDrawerToggle:
		return "Open the command drawer"
	case config.ActionDrawerOpen:
		return "Open the " + b.Action.ContextID + " drawer"
	}
	return ""
}

var helpTmpl = template.Must(template.New("help.html").Funcs(template.FuncMap{
	"describe": Describe,
	"keys":     Keys,
}).ParseFS(templateFS, "templates/help.html"))

type gestureHelp struct {
	Name   string
	Effect string
}

type helpData struct {
	Row1     []config.Button
	Row2     []config.Button
	Contexts []config.DrawerContext
	Floating []config.FloatingGroup
	Gestures []gestureHelp
}

// HelpHTML renders the help overlay body for cfg.
func HelpHTML(cfg *config.Config) (string, error) {
	data := helpData{
		Row1:     cfg.Toolbar.Row1,
		Row2:     cfg.Toolbar.Row2,
		Contexts: cfg.Drawer.Contexts,
		Floating: cfg.FloatingButtons,
	}
	g := cfg.Gestures
	if g.Swipe.Enabled {
		data.Gestures = append(data.Gestures,
			gestureHelp{"Swipe right", "Previous tmux window"},
			gestureHelp{"Swipe left", "Next tmux window"},
		)
	}
	if g.Pinch.Enabled {
		data.Gestures = append(data.Gestures, gestureHelp{"Pinch in/out", "Decrease/increase font size"})
	}
	if g.Scroll.Enabled {
		name := "Drag up/down"
		if g.Scroll.Fingers == 2 {
			name = "Two-finger drag"
		}
		data.Gestures = append(data.Gestures, gestureHelp{name, "Scroll (mouse wheel)"})
	}

	var buf bytes.Buffer
	if err := helpTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render help: %w", err)
	}
	return buf.String(), nil
}
