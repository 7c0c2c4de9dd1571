// Package bundle compiles the browser overlay and splices it into ttyd's
// index.html.
package bundle

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/logger"
)

//go:embed styles/base.css
var baseCSS string

// OverlayPackage is the wasm entry point.
const OverlayPackage = "github.com/connorads/webmux/cmd/webmux-overlay"

// ErrNoHead means the page has nowhere to put the overlay.
var ErrNoHead = errors.New("index html has no </head>")

// Bundle is the overlay ready for injection.
type Bundle struct {
	JS  string
	CSS string
}

// Builder produces a Bundle. The zero value compiles OverlayPackage with
// the go tool on PATH from the current directory.
type Builder struct {
	GoBin        string
	Dir          string
	Package      string
	WasmPath     string // prebuilt overlay; skips compilation
	WasmExecPath string // defaults to the toolchain's wasm_exec.js
}

func (b Builder) goBin() string {
	if b.GoBin != "" {
		return b.GoBin
	}
	return "go"
}

// Build compiles (or reads) the overlay and assembles it with cfg.
func (b Builder) Build(ctx context.Context, cfg *config.Config) (*Bundle, error) {
	wasm, err := b.wasm(ctx)
	if err != nil {
		return nil, err
	}
	support, err := b.wasmExec(ctx)
	if err != nil {
		return nil, err
	}
	return Assemble(wasm, support, cfg)
}

func (b Builder) wasm(ctx context.Context) ([]byte, error) {
	if b.WasmPath != "" {
		data, err := os.ReadFile(b.WasmPath)
		if err != nil {
			return nil, fmt.Errorf("read overlay wasm: %w", err)
		}
		return data, nil
	}

	tmp, err := os.MkdirTemp("", "webmux-build-")
	if err != nil {
		return nil, fmt.Errorf("create build dir: %w", err)
	}
	defer os.RemoveAll(tmp)
	out := filepath.Join(tmp, "overlay.wasm")

	pkg := b.Package
	if pkg == "" {
		pkg = OverlayPackage
	}
	cmd := exec.CommandContext(ctx, b.goBin(), "build", "-trimpath", "-ldflags=-s -w", "-o", out, pkg)
	cmd.Dir = b.Dir
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	logger.Debug("compiling overlay", "pkg", pkg, "dir", b.Dir)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("go build overlay: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read overlay wasm: %w", err)
	}
	return data, nil
}

func (b Builder) wasmExec(ctx context.Context) (string, error) {
	if b.WasmExecPath != "" {
		data, err := os.ReadFile(b.WasmExecPath)
		if err != nil {
			return "", fmt.Errorf("read wasm_exec.js: %w", err)
		}
		return string(data), nil
	}
	out, err := exec.CommandContext(ctx, b.goBin(), "env", "GOROOT").Output()
	if err != nil {
		return "", fmt.Errorf("go env GOROOT: %w", err)
	}
	root := strings.TrimSpace(string(out))
	// lib/wasm since Go 1.24, misc/wasm before
	for _, rel := range []string{"lib/wasm/wasm_exec.js", "misc/wasm/wasm_exec.js"} {
		data, err := os.ReadFile(filepath.Join(root, rel))
		if err == nil {
			return string(data), nil
		}
	}
	return "", fmt.Errorf("wasm_exec.js not found under %s", root)
}

// Assemble builds the loader script: the Go wasm runtime support, the
// overlay config as globalThis.webmuxConfig and the inlined wasm.
func Assemble(wasm []byte, wasmExec string, cfg *config.Config) (*Bundle, error) {
	if len(wasm) == 0 {
		return nil, errors.New("empty overlay wasm")
	}
	cfgJSON, err := cfg.OverlayJSON()
	if err != nil {
		return nil, fmt.Errorf("encode overlay config: %w", err)
	}

	var js strings.Builder
	js.WriteString("(function(){\n")
	fmt.Fprintf(&js, "globalThis.webmuxConfig = %s;\n", cfgJSON)
	js.WriteString(wasmExec)
	js.WriteString("\nconst b64 = \"")
	js.WriteString(base64.StdEncoding.EncodeToString(wasm))
	js.WriteString("\";\n")
	js.WriteString(`const bytes = Uint8Array.from(atob(b64), (c) => c.charCodeAt(0));
const go = new Go();
WebAssembly.instantiate(bytes, go.importObject)
	.then((r) => go.run(r.instance))
	.catch((e) => console.error("webmux:", e));
})();
`)
	return &Bundle{JS: js.String(), CSS: ThemeCSS(cfg.Theme) + baseCSS}, nil
}

// ThemeCSS maps the terminal theme onto the overlay's CSS variables.
func ThemeCSS(t config.Theme) string {
	return fmt.Sprintf(":root{--wt-bg:%s;--wt-fg:%s;--wt-btn:%s;--wt-btn-active:%s;--wt-muted:%s}\n",
		t.Background, t.Foreground, t.Black, t.Blue, t.BrightBlack)
}

// Inject inserts the font stylesheet, viewport meta, styles and script
// just before the first </head>.
func Inject(page string, b *Bundle, cfg *config.Config) (string, error) {
	i := strings.Index(page, "</head>")
	if i < 0 {
		return "", ErrNoHead
	}
	var sb strings.Builder
	sb.Grow(len(page) + len(b.JS) + len(b.CSS) + 512)
	sb.WriteString(page[:i])
	if cfg.Font.CDNURL != "" {
		fmt.Fprintf(&sb, "<link rel=\"preload\" href=\"%s\" as=\"style\" onload=\"this.rel='stylesheet'\">\n", html.EscapeString(cfg.Font.CDNURL))
	}
	sb.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0, viewport-fit=cover">` + "\n")
	sb.WriteString("<style>" + b.CSS + "</style>\n")
	sb.WriteString(`<script type="module">` + b.JS + "</script>\n")
	sb.WriteString(page[i:])
	return sb.String(), nil
}
