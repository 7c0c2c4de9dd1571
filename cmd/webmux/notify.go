package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/connorads/webmux/internal/config"
	"github.com/connorads/webmux/internal/notify"
	"github.com/connorads/webmux/internal/ntfy"
	"github.com/connorads/webmux/internal/store"
)

func openStore() (*store.Store, error) {
	path, err := config.StatePath()
	if err != nil {
		return nil, err
	}
	return store.Open(path)
}

func dispatcher(cfg *config.Config, st *store.Store) *notify.Dispatcher {
	d := &notify.Dispatcher{App: cfg.Notify.App, Titles: st}
	if cfg.Notify.Desktop {
		d.Sinks = append(d.Sinks, notify.NewDesktop(cfg.Notify.App))
	}
	if cfg.Notify.Bell {
		d.Sinks = append(d.Sinks, notify.NewBell())
	}
	if cfg.Notify.NtfyTopic != "" {
		client := ntfy.New(cfg.Notify.NtfyTopic, cfg.Notify.NtfyToken, cfg.Notify.NtfyEvents)
		d.Sinks = append(d.Sinks, notify.NewPush(client, st))
	}
	return d
}

func notifyCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Turn session events on stdin into notifications",
		Long: `Reads coding-agent session events as JSON from stdin, one object or one per
line, and raises desktop notifications, a terminal bell and optional ntfy
pushes for finished, failed and waiting sessions. Session titles are
remembered between invocations so each event can be a separate process.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return fmt.Errorf("open state: %w", err)
			}
			defer st.Close()

			d := dispatcher(cfg, st)
			ctx := cmd.Context()
			return notify.Decode(cmd.InOrStdin(), func(ev notify.Event) error {
				return d.Handle(ctx, ev)
			})
		},
	}
	cmd.AddCommand(notifyTestCmd(g))
	return cmd
}

func notifyTestCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send a test ntfy push",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}
			if cfg.Notify.NtfyTopic == "" {
				return fmt.Errorf("notify.ntfy_topic is not set (or export WEBMUX_NTFY_TOPIC)")
			}
			client := ntfy.New(cfg.Notify.NtfyTopic, cfg.Notify.NtfyToken, cfg.Notify.NtfyEvents)
			if err := client.SendTest(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "sent")
			return nil
		},
	}
}
