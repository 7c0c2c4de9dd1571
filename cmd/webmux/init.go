package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/connorads/webmux/internal/config"
)

func initCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a commented starter config",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := g.path()
			if err != nil {
				return err
			}
			if err := config.WriteTemplate(path); err != nil {
				if errors.Is(err, config.ErrExists) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s already exists, leaving it alone\n", path)
					return nil
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}
