package cmd

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/msalah0e/filemap/internal/config"
	"github.com/msalah0e/filemap/internal/ui"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage filemap configuration",
		Long: `Configuration is read from ` + "`$XDG_CONFIG_HOME/filemap/config.toml`" + ` and then
from the nearest ` + config.ProjectFile + ` in the working directory or a parent.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write the default global config if there is none",
			Run: func(cmd *cobra.Command, args []string) {
				if err := config.EnsureExists(); err != nil {
					fail("Failed to write config: %v", err)
				}
				ui.Good.Printf("  %s %s\n", ui.StatusIcon(true), config.Path())
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Subtle.Sprintf("# global: %s", config.Path()))
				if err := toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg); err != nil {
					fail("Failed to encode config: %v", err)
				}
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the global config file path",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), config.Path())
			},
		},
	)

	return cmd
}
