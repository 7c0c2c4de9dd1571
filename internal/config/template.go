package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrExists is returned by WriteTemplate when the target already exists.
var ErrExists = errors.New("config file already exists")

// Template is the commented starter config written by `webmux init`.
const Template = `# webmux configuration. Every key is optional; omitted keys keep their
# defaults. Mappings merge into the defaults, lists replace them.

# font:
#   family: "JetBrainsMono NFM, monospace"
#   mobile_size_default: 16
#   size_range: [8, 32]

# toolbar:
#   row1:
#     - {label: Esc, action: {type: send, data: "\x1b"}}
#     - {label: Ctrl, action: {type: ctrl-modifier}}

# drawer:
#   contexts:
#     - id: tmux
#       label: tmux
#       general: true
#       commands:
#         - {label: "+ Win", seq: "\x02c"}
#     - id: claude
#       label: claude
#       title_patterns: [claude]
#       commands:
#         - {label: Yes, seq: "y"}

# gestures:
#   swipe: {enabled: true, threshold: 80, max_duration: 400}
#   pinch: {enabled: false}
#   scroll: {enabled: true, sensitivity: 40, fingers: 1}

# mobile:
#   init_data: "\x02z"   # zoom the current pane on mobile load

# floating_buttons:
#   - position: top-left
#     buttons:
#       - {id: zoom, label: Zoom, description: Toggle pane zoom, action: {type: send, data: "\x02z"}}

# serve:
#   listen: 127.0.0.1:7682
#   upstream: http://127.0.0.1:7681

# notify:
#   desktop: true
#   bell: true
#   ntfy_topic: ""

# usage:
#   cache_ttl: 60s
`

// WriteTemplate writes Template to path unless a file is already there.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", path, ErrExists)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(Template), 0644)
}
