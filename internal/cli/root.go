// Package cli команды утилиты rentflowctl.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/rentflow/internal/config"
)

// RootCmd корневая команда.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rentflowctl",
		Short:         "RentFlow maintenance tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "path to config file (default $CONFIG_PATH)")

	root.AddCommand(
		RunCmd(),
		MigrateCmd(),
		TokenCmd(),
	)
	return root
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return config.Load(path)
}
