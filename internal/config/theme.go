package config

import "encoding/json"

// Theme holds xterm.js theme colours. JSON names match xterm's ITheme.
type Theme struct {
	Background          string `yaml:"background" json:"background"`
	Foreground          string `yaml:"foreground" json:"foreground"`
	Cursor              string `yaml:"cursor" json:"cursor"`
	CursorAccent        string `yaml:"cursor_accent" json:"cursorAccent"`
	SelectionBackground string `yaml:"selection_background" json:"selectionBackground"`
	Black               string `yaml:"black" json:"black"`
	Red                 string `yaml:"red" json:"red"`
	Green               string `yaml:"green" json:"green"`
	Yellow              string `yaml:"yellow" json:"yellow"`
	Blue                string `yaml:"blue" json:"blue"`
	Magenta             string `yaml:"magenta" json:"magenta"`
	Cyan                string `yaml:"cyan" json:"cyan"`
	White               string `yaml:"white" json:"white"`
	BrightBlack         string `yaml:"bright_black" json:"brightBlack"`
	BrightRed           string `yaml:"bright_red" json:"brightRed"`
	BrightGreen         string `yaml:"bright_green" json:"brightGreen"`
	BrightYellow        string `yaml:"bright_yellow" json:"brightYellow"`
	BrightBlue          string `yaml:"bright_blue" json:"brightBlue"`
	BrightMagenta       string `yaml:"bright_magenta" json:"brightMagenta"`
	BrightCyan          string `yaml:"bright_cyan" json:"brightCyan"`
	BrightWhite         string `yaml:"bright_white" json:"brightWhite"`
}

// CatppuccinMocha is the default theme.
var CatppuccinMocha = Theme{
	Background:          "#1e1e2e",
	Foreground:          "#cdd6f4",
	Cursor:              "#f5e0dc",
	CursorAccent:        "#1e1e2e",
	SelectionBackground: "#585b70",
	Black:               "#45475a",
	Red:                 "#f38ba8",
	Green:               "#a6e3a1",
	Yellow:              "#f9e2af",
	Blue:                "#89b4fa",
	Magenta:             "#f5c2e7",
	Cyan:                "#94e2d5",
	White:               "#bac2de",
	BrightBlack:         "#585b70",
	BrightRed:           "#f38ba8",
	BrightGreen:         "#a6e3a1",
	BrightYellow:        "#f9e2af",
	BrightBlue:          "#89b4fa",
	BrightMagenta:       "#f5c2e7",
	BrightCyan:          "#94e2d5",
	BrightWhite:         "#a6adc8",
}

// Map returns the theme as an xterm option bag.
func (t Theme) Map() map[string]string {
	data, _ := json.Marshal(t)
	m := make(map[string]string)
	json.Unmarshal(data, &m)
	return m
}

// ThemeJSON serialises the theme for ttyd's `-t theme=...` flag.
func (c *Config) ThemeJSON() (string, error) {
	data, err := json.Marshal(c.Theme)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
