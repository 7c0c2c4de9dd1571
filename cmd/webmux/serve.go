package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/connorads/webmux/internal/serve"
)

func serveCmd(g *globals) *cobra.Command {
	var listen, upstream string
	var noWatch bool
	var bf builderFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve ttyd with the overlay injected and a context signal channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := g.load()
			if err != nil {
				return err
			}
			if upstream != "" {
				cfg.Serve.Upstream = upstream
			}
			if listen == "" {
				listen = cfg.Serve.Listen
			}

			srv, err := serve.New(cfg, bf.builder())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			watch := path
			if noWatch {
				watch = ""
			}
			return srv.Run(ctx, listen, watch)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, 127.0.0.1:7682)")
	cmd.Flags().StringVar(&upstream, "upstream", "", "ttyd base URL (default from config, http://127.0.0.1:7681)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload when the config file changes")
	bf.register(cmd)
	return cmd
}
