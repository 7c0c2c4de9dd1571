package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/connorads/webmux/internal/bundle"
	"github.com/connorads/webmux/internal/logger"
	"github.com/connorads/webmux/internal/ttyd"
)

// builderFlags are shared by the commands that need the overlay bundle.
type builderFlags struct {
	wasm     string
	wasmExec string
	srcDir   string
}

func (f *builderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.wasm, "wasm", "", "use a prebuilt overlay wasm instead of compiling")
	cmd.Flags().StringVar(&f.wasmExec, "wasm-exec", "", "path to wasm_exec.js (default: from the Go toolchain)")
	cmd.Flags().StringVar(&f.srcDir, "src", "", "webmux source directory to compile the overlay from")
}

func (f *builderFlags) builder() bundle.Builder {
	return bundle.Builder{Dir: f.srcDir, WasmPath: f.wasm, WasmExecPath: f.wasmExec}
}

func buildCmd(g *globals) *cobra.Command {
	var output, index string
	var bf builderFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Fetch ttyd's index.html and write it with the overlay injected",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			b, err := bf.builder().Build(ctx, cfg)
			if err != nil {
				return err
			}

			var page string
			if index != "" {
				data, err := os.ReadFile(index)
				if err != nil {
					return fmt.Errorf("read index: %w", err)
				}
				page = string(data)
			} else {
				logger.Info("fetching index.html from ttyd")
				if page, err = ttyd.FetchIndex(ctx); err != nil {
					return err
				}
			}

			out, err := bundle.Inject(page, b, cfg)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return err
			}
			if err := os.WriteFile(output, []byte(out), 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d KiB)\n", output, len(out)>>10)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "dist/index.html", "output file")
	cmd.Flags().StringVar(&index, "index", "", "start from this index.html instead of fetching one from ttyd")
	bf.register(cmd)
	return cmd
}

var errInteractiveStdin = errors.New("inject reads index.html from stdin; pipe it in, e.g. `curl -s localhost:7681 | webmux inject`")

func injectCmd(g *globals) *cobra.Command {
	var bf builderFlags

	cmd := &cobra.Command{
		Use:   "inject",
		Short: "Inject the overlay into an index.html read from stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				return errInteractiveStdin
			}
			cfg, _, err := g.load()
			if err != nil {
				return err
			}
			page, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			b, err := bf.builder().Build(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			out, err := bundle.Inject(string(page), b, cfg)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
	bf.register(cmd)
	return cmd
}
