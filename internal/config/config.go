package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full webmux configuration. The overlay sections (theme through
// floating_buttons) are shipped to the browser as JSON; the rest is used by
// the CLI only.
type Config struct {
	Theme           Theme           `yaml:"theme" json:"theme"`
	Font            FontConfig      `yaml:"font" json:"font"`
	Toolbar         ToolbarConfig   `yaml:"toolbar" json:"toolbar"`
	Drawer          DrawerConfig    `yaml:"drawer" json:"drawer"`
	Gestures        GestureConfig   `yaml:"gestures" json:"gestures"`
	Mobile          MobileConfig    `yaml:"mobile" json:"mobile"`
	FloatingButtons []FloatingGroup `yaml:"floating_buttons,omitempty" json:"floatingButtons,omitempty"`

	Serve   ServeConfig   `yaml:"serve" json:"-"`
	Notify  NotifyConfig  `yaml:"notify" json:"-"`
	Usage   UsageConfig   `yaml:"usage" json:"-"`
	Logging LoggingConfig `yaml:"logging" json:"-"`
}

type FontConfig struct {
	Family            string    `yaml:"family" json:"family"`
	CDNURL            string    `yaml:"cdn_url" json:"cdnUrl"`
	MobileSizeDefault int       `yaml:"mobile_size_default" json:"mobileSizeDefault"`
	SizeRange         FontRange `yaml:"size_range" json:"sizeRange"`
}

// FontRange is an inclusive [min, max] font size range, written as a two
// element sequence in both YAML and JSON.
type FontRange struct {
	Min int
	Max int
}

func (r *FontRange) UnmarshalYAML(value *yaml.Node) error {
	var pair []int
	if err := value.Decode(&pair); err != nil {
		return fmt.Errorf("size_range must be [min, max]: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("size_range must have exactly 2 elements, got %d", len(pair))
	}
	r.Min, r.Max = pair[0], pair[1]
	return nil
}

func (r FontRange) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.SequenceNode,
		Style: yaml.FlowStyle,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(r.Min)},
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(r.Max)},
		},
	}, nil
}

func (r FontRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{r.Min, r.Max})
}

func (r *FontRange) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	r.Min, r.Max = pair[0], pair[1]
	return nil
}

type ToolbarConfig struct {
	Row1 []Button `yaml:"row1" json:"row1"`
	Row2 []Button `yaml:"row2" json:"row2"`
}

// DrawerCommand is one button in the drawer grid.
type DrawerCommand struct {
	Label string `yaml:"label" json:"label"`
	Seq   string `yaml:"seq" json:"seq"`
}

// DrawerContext is a named group of commands with optional title-based
// auto-detection. General contexts always get a tab.
type DrawerContext struct {
	ID             string          `yaml:"id" json:"id"`
	Label          string          `yaml:"label" json:"label"`
	Commands       []DrawerCommand `yaml:"commands" json:"commands"`
	TitlePatterns  []string        `yaml:"title_patterns,omitempty" json:"titlePatterns,omitempty"`
	ToolbarButtons []Button        `yaml:"toolbar_buttons,omitempty" json:"toolbarButtons,omitempty"`
	General        bool            `yaml:"general,omitempty" json:"general,omitempty"`
}

type DrawerConfig struct {
	Contexts []DrawerContext `yaml:"contexts" json:"contexts"`
}

// Context returns the context with the given id.
func (d DrawerConfig) Context(id string) (DrawerContext, bool) {
	for _, c := range d.Contexts {
		if c.ID == id {
			return c, true
		}
	}
	return DrawerContext{}, false
}

type SwipeConfig struct {
	Enabled     bool    `yaml:"enabled" json:"enabled"`
	Threshold   float64 `yaml:"threshold" json:"threshold"`
	MaxDuration int     `yaml:"max_duration" json:"maxDuration"` // milliseconds
}

// MaxDurationD returns MaxDuration as a time.Duration.
func (s SwipeConfig) MaxDurationD() time.Duration {
	return time.Duration(s.MaxDuration) * time.Millisecond
}

type PinchConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

type ScrollConfig struct {
	Enabled     bool    `yaml:"enabled" json:"enabled"`
	Sensitivity float64 `yaml:"sensitivity" json:"sensitivity"`
	Fingers     int     `yaml:"fingers" json:"fingers"` // 1 or 2
}

type GestureConfig struct {
	Swipe  SwipeConfig  `yaml:"swipe" json:"swipe"`
	Pinch  PinchConfig  `yaml:"pinch" json:"pinch"`
	Scroll ScrollConfig `yaml:"scroll" json:"scroll"`
}

type MobileConfig struct {
	InitData string `yaml:"init_data,omitempty" json:"initData,omitempty"` // sent once on mobile load
}

// FloatingGroup is a cluster of buttons pinned to a screen corner.
type FloatingGroup struct {
	Position string   `yaml:"position" json:"position"`
	Buttons  []Button `yaml:"buttons" json:"buttons"`
}

var floatingPositions = map[string]bool{
	"top-left": true, "top-right": true, "bottom-left": true, "bottom-right": true,
}

type ServeConfig struct {
	Listen      string  `yaml:"listen"`
	Upstream    string  `yaml:"upstream"`     // ttyd base URL
	SignalRate  float64 `yaml:"signal_rate"`  // signals per second
	SignalBurst int     `yaml:"signal_burst"` // burst size
}

type NotifyConfig struct {
	App        string `yaml:"app"`
	Desktop    bool   `yaml:"desktop"`
	Bell       bool   `yaml:"bell"`
	NtfyTopic  string `yaml:"ntfy_topic,omitempty"`
	NtfyToken  string `yaml:"ntfy_token,omitempty"`
	NtfyEvents string `yaml:"ntfy_events,omitempty"` // comma-separated: idle,error,attention
}

type UsageConfig struct {
	AuthPath string        `yaml:"auth_path"`
	URL      string        `yaml:"url"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from path on top of the defaults. Nested mappings
// merge into the defaults; sequences replace them wholesale. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := Parse(data, cfg); err != nil {
			return nil, err
		}
	}

	if topic := os.Getenv("WEBMUX_NTFY_TOPIC"); topic != "" {
		cfg.Notify.NtfyTopic = topic
	}
	if token := os.Getenv("WEBMUX_NTFY_TOKEN"); token != "" {
		cfg.Notify.NtfyToken = token
	}
	if upstream := os.Getenv("WEBMUX_UPSTREAM"); upstream != "" {
		cfg.Serve.Upstream = upstream
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML overrides into cfg.
func Parse(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// Save writes cfg as YAML, creating the parent directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// OverlayJSON is the payload embedded into the page for the browser runtime.
func (c *Config) OverlayJSON() ([]byte, error) {
	return json.Marshal(c)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Font.SizeRange.Min <= 0 {
		return fmt.Errorf("font.size_range min must be positive")
	}
	if c.Font.SizeRange.Min > c.Font.SizeRange.Max {
		return fmt.Errorf("font.size_range min %d exceeds max %d", c.Font.SizeRange.Min, c.Font.SizeRange.Max)
	}
	if s := c.Font.MobileSizeDefault; s < c.Font.SizeRange.Min || s > c.Font.SizeRange.Max {
		return fmt.Errorf("font.mobile_size_default %d outside size_range", s)
	}
	if c.Gestures.Swipe.Threshold <= 0 {
		return fmt.Errorf("gestures.swipe.threshold must be positive")
	}
	if c.Gestures.Swipe.MaxDuration <= 0 {
		return fmt.Errorf("gestures.swipe.max_duration must be positive")
	}
	if c.Gestures.Scroll.Sensitivity <= 0 {
		return fmt.Errorf("gestures.scroll.sensitivity must be positive")
	}
	if f := c.Gestures.Scroll.Fingers; f != 1 && f != 2 {
		return fmt.Errorf("gestures.scroll.fingers must be 1 or 2, got %d", f)
	}

	ids := make(map[string]bool)
	for i, ctx := range c.Drawer.Contexts {
		if ctx.ID == "" {
			return fmt.Errorf("drawer.contexts[%d]: id is required", i)
		}
		if ids[ctx.ID] {
			return fmt.Errorf("drawer.contexts[%d]: duplicate id %q", i, ctx.ID)
		}
		ids[ctx.ID] = true
	}
	for _, ctx := range c.Drawer.Contexts {
		for j, cmd := range ctx.Commands {
			if cmd.Label == "" || cmd.Seq == "" {
				return fmt.Errorf("drawer context %q command %d needs label and seq", ctx.ID, j)
			}
		}
		if err := validateButtons("drawer context "+ctx.ID+" toolbar_buttons", ctx.ToolbarButtons, ids); err != nil {
			return err
		}
	}

	if err := validateButtons("toolbar.row1", c.Toolbar.Row1, ids); err != nil {
		return err
	}
	if err := validateButtons("toolbar.row2", c.Toolbar.Row2, ids); err != nil {
		return err
	}
	for i, g := range c.FloatingButtons {
		if !floatingPositions[g.Position] {
			return fmt.Errorf("floating_buttons[%d]: unknown position %q", i, g.Position)
		}
		if err := validateButtons(fmt.Sprintf("floating_buttons[%d]", i), g.Buttons, ids); err != nil {
			return err
		}
	}
	return nil
}
