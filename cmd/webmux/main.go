// Command webmux builds and serves a mobile-friendly ttyd page for tmux.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/logger"
)

var version = "0.1.0"

// globals holds the persistent flags.
type globals struct {
	configPath string
	logLevel   string
	logFile    string
}

func (g *globals) path() (string, error) {
	if g.configPath != "" {
		return config.ExpandHome(g.configPath), nil
	}
	return config.DefaultConfigPath()
}

// load reads the config and sets up logging from it, letting flags win.
func (g *globals) load() (*config.Config, string, error) {
	path, err := g.path()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	level, file := cfg.Logging.Level, cfg.Logging.File
	if g.logLevel != "" {
		level = g.logLevel
	}
	if g.logFile != "" {
		file = g.logFile
	}
	if err := logger.Init(level, config.ExpandHome(file)); err != nil {
		return nil, "", fmt.Errorf("init logger: %w", err)
	}
	return cfg, path, nil
}

func newRoot() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "webmux",
		Short:         "Touch-friendly tmux in the browser via ttyd",
		Long:          "Builds a ttyd index.html with a mobile overlay (toolbar, command drawer, gestures) and optionally serves it in front of ttyd.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default ~/.config/webmux/config.yaml)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&g.logFile, "log-file", "", "also write logs to this file")

	root.AddCommand(
		buildCmd(g),
		injectCmd(g),
		initCmd(g),
		serveCmd(g),
		signalCmd(g),
		notifyCmd(g),
		usageCmd(g),
		ttydArgsCmd(g),
	)
	return root
}

func main() {
	if err := newRoot().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
