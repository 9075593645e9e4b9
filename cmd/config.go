package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corpeningc/unconflict/internal/config"
)

func newConfigCmd() *cobra.Command {
	var showPath bool

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the default configuration",
		Long: `Prints the built-in configuration as TOML. Save it as the user config file
(see --path) or as .unconflict.toml in a project directory and edit as needed.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if showPath {
				fmt.Fprintln(cmd.OutOrStdout(), config.UserFilePath())
				return
			}
			fmt.Fprint(cmd.OutOrStdout(), config.DefaultsTOML())
		},
	}

	configCmd.Flags().BoolVar(&showPath, "path", false, "Print where the user configuration file is read from")

	return configCmd
}
