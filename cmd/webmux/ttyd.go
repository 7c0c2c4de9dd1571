package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/connorads/webmux/internal/ttyd"
)

func ttydArgsCmd(g *globals) *cobra.Command {
	var index string
	var shell bool

	cmd := &cobra.Command{
		Use:   "ttyd-args",
		Short: "Print the ttyd flags for the built page, theme and font",
		Example: `  eval "ttyd $(webmux ttyd-args --shell --index dist/index.html) tmux new -A -s main"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}
			flags, err := ttyd.Args(cfg, index)
			if err != nil {
				return err
			}
			if shell {
				for i, f := range flags {
					flags[i] = shellQuote(f)
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(flags, " "))
				return nil
			}
			for _, f := range flags {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&index, "index", "", "built index.html to serve")
	cmd.Flags().BoolVar(&shell, "shell", false, "print one shell-quoted line instead of one flag per line")
	return cmd
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`!*?[]{}()<>|&;#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
