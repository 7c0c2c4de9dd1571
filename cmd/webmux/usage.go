package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/logger"
	"github.com/connorads/webmux/internal/usage"
)

func usageCmd(g *globals) *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show Codex quota usage for the logged-in OpenAI account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}
			c := &usage.Checker{
				AuthPath: config.ExpandHome(cfg.Usage.AuthPath),
				Client:   usage.NewClient(cfg.Usage.URL, cfg.Usage.Timeout),
				TTL:      cfg.Usage.CacheTTL,
			}
			if !noCache {
				st, err := openStore()
				if err != nil {
					logger.Warn("usage cache unavailable", "err", err)
				} else {
					defer st.Close()
					c.Cache = st
				}
			}
			out, err := c.Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "always query the API")
	return cmd
}
