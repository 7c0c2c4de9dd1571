package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/connorads/webmux/internal/serve"
)

func signalCmd(g *globals) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "signal [context-id]",
		Short: "Switch every open overlay's drawer to a context",
		Long: `Tells a running "webmux serve" to switch drawer context, e.g. from a tmux
hook or a shell wrapper around lazygit. Without an id the overlays re-match
the terminal title.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}
			var id string
			if len(args) == 1 {
				id = args[0]
				if _, ok := cfg.Drawer.Context(id); !ok {
					return fmt.Errorf("unknown drawer context %q", id)
				}
			}
			if addr == "" {
				addr = cfg.Serve.Listen
			}
			base := addr
			if _, _, err := net.SplitHostPort(addr); err == nil {
				base = "http://" + addr
			}

			res, err := serve.SendSignal(cmd.Context(), base, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "delivered to %d overlay(s)\n", res.Delivered)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "webmux serve address or URL (default from config)")
	return cmd
}
