package config

import (
	"time"
)

const (
	DefaultListen   = "127.0.0.1:7682"
	DefaultUpstream = "http://127.0.0.1:7681"
	DefaultUsageURL = "https://chatgpt.com/backend-api/wham/usage"
)

// DefaultRow1 is the modifier and navigation row.
func DefaultRow1() []Button {
	return []Button{
		{Label: "Esc", Action: Send("\x1b")},
		{Label: "Ctrl", Action: Action{Type: ActionCtrlModifier}},
		{Label: "Tab", Action: Send("\t")},
		{Label: "S-Tab", Action: Send("\x1b[Z")},
		{Label: "←", Action: Send("\x1b[D")},
		{Label: "↑", Action: Send("\x1b[A")},
		{Label: "↓", Action: Send("\x1b[B")},
		{Label: "→", Action: Send("\x1b[C")},
		{Label: "C-c", Action: Send("\x03")},
		{Label: "⏎", Action: Send("\r")},
	}
}

// DefaultRow2 is the fallback second row, replaced by a context's toolbar
// buttons when it defines them.
func DefaultRow2() []Button {
	return []Button{
		{Label: "q", Action: Send("q")},
		{Label: "C-d", Action: Send("\x04")},
		{Label: "☰ More", Action: Action{Type: ActionDrawerToggle}},
		{Label: "Paste", Action: Action{Type: ActionPaste}},
		{Label: "Space", Action: Send(" ")},
	}
}

// TmuxCommands assume the default C-b prefix.
func TmuxCommands() []DrawerCommand {
	return []DrawerCommand{
		{Label: "+ Win", Seq: "\x02c"},
		{Label: "Split |", Seq: "\x02|"},
		{Label: "Split —", Seq: "\x02-"},
		{Label: "Zoom", Seq: "\x02z"},
		{Label: "Sessions", Seq: "\x02S"},
		{Label: "Windows", Seq: "\x02W"},
		{Label: "Git", Seq: "\x02g"},
		{Label: "Files", Seq: "\x02y"},
		{Label: "Links", Seq: "\x02u"},
		{Label: "PgUp", Seq: "\x02\x1b[5~"},
		// no prefix: already in copy mode after PgUp
		{Label: "PgDn", Seq: "\x1b[6~"},
		{Label: "Copy", Seq: "\x02 "},
		{Label: "Help", Seq: "\x02?"},
		{Label: "Kill", Seq: "\x02x"},
	}
}

func LazygitCommands() []DrawerCommand {
	return []DrawerCommand{
		{Label: "Stage", Seq: " "},
		{Label: "All", Seq: "a"},
		{Label: "Commit", Seq: "c"},
		{Label: "Push", Seq: "P"},
		{Label: "Pull", Seq: "p"},
		{Label: "Fetch", Seq: "f"},
		{Label: "↵", Seq: "\r"},
		{Label: "Undo", Seq: "z"},
		{Label: "Amend", Seq: "A"},
		{Label: "Menu", Seq: "x"},
		{Label: "Files", Seq: "2"},
		{Label: "Branch", Seq: "3"},
		{Label: "Quit", Seq: "q"},
	}
}

func ClaudeCommands() []DrawerCommand {
	return []DrawerCommand{
		{Label: "Mode", Seq: "\x1b[Z"},
		{Label: "Yes", Seq: "y"},
		{Label: "No", Seq: "n"},
		{Label: "/compact", Seq: "/compact\r"},
		{Label: "/clear", Seq: "/clear\r"},
		{Label: "/help", Seq: "/help\r"},
	}
}

func TmuxContext() DrawerContext {
	return DrawerContext{
		ID:       "tmux",
		Label:    "tmux",
		Commands: TmuxCommands(),
		General:  true,
	}
}

func LazygitContext() DrawerContext {
	return DrawerContext{
		ID:            "lazygit",
		Label:         "lazygit",
		Commands:      LazygitCommands(),
		TitlePatterns: []string{"lazygit"},
		ToolbarButtons: []Button{
			{Label: "Stage", Action: Send(" ")},
			{Label: "Commit", Action: Send("c")},
			{Label: "Push", Action: Send("P")},
			{Label: "☰ More", Action: Action{Type: ActionDrawerToggle}},
			{Label: "Quit", Action: Send("q")},
		},
	}
}

func ClaudeContext() DrawerContext {
	return DrawerContext{
		ID:            "claude",
		Label:         "claude",
		Commands:      ClaudeCommands(),
		TitlePatterns: []string{"claude"},
		ToolbarButtons: []Button{
			{Label: "Mode", Action: Send("\x1b[Z")},
			{Label: "Yes", Action: Send("y")},
			{Label: "No", Action: Send("n")},
			{Label: "☰ More", Action: Action{Type: ActionDrawerToggle}},
			{Label: "Paste", Action: Action{Type: ActionPaste}},
		},
	}
}

// Default returns a fresh copy of the complete default configuration.
func Default() *Config {
	return &Config{
		Theme: CatppuccinMocha,
		Font: FontConfig{
			Family:            "JetBrainsMono NFM, monospace",
			CDNURL:            "https://cdn.jsdelivr.net/gh/mshaugh/nerdfont-webfonts@latest/build/jetbrainsmono-nfm.css",
			MobileSizeDefault: 16,
			SizeRange:         FontRange{Min: 8, Max: 32},
		},
		Toolbar: ToolbarConfig{Row1: DefaultRow1(), Row2: DefaultRow2()},
		Drawer: DrawerConfig{
			Contexts: []DrawerContext{TmuxContext(), LazygitContext(), ClaudeContext()},
		},
		Gestures: GestureConfig{
			Swipe:  SwipeConfig{Enabled: true, Threshold: 80, MaxDuration: 400},
			Pinch:  PinchConfig{Enabled: false},
			Scroll: ScrollConfig{Enabled: true, Sensitivity: 40, Fingers: 1},
		},
		Serve: ServeConfig{
			Listen:      DefaultListen,
			Upstream:    DefaultUpstream,
			SignalRate:  5,
			SignalBurst: 10,
		},
		Notify: NotifyConfig{
			App:        "OpenCode",
			Desktop:    true,
			Bell:       true,
			NtfyEvents: "idle,error,attention",
		},
		Usage: UsageConfig{
			AuthPath: "~/.local/share/opencode/auth.json",
			URL:      DefaultUsageURL,
			Timeout:  10 * time.Second,
			CacheTTL: 60 * time.Second,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
