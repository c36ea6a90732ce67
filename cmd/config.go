package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/formdom/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the configuration file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), configFilePath())
		return err
	},
}

var configFormatCmd = &cobra.Command{
	Use:   "format FORMAT",
	Short: "Set the default output format (table, json or markdown)",
	Long: `Persist output.format in the configuration file. Other settings and
comments in the file are kept.`,
	Example: `  formdom config format json`,
	Args:    requireArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFilePath()
		if err := config.SaveOutputFormat(path, args[0]); err != nil {
			return usageError(err)
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "output.format = %s (%s)\n", args[0], path)
		return err
	},
}

var configStoreCmd = &cobra.Command{
	Use:     "store PATH",
	Short:   "Set the snapshot database location",
	Example: `  formdom config store ./.formdom/snapshots.db`,
	Args:    requireArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFilePath()
		if err := config.SaveStorePath(path, args[0]); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "store.path = %s (%s)\n", args[0], path)
		return err
	},
}

func init() {
	configCmd.AddCommand(configPathCmd, configFormatCmd, configStoreCmd)
	rootCmd.AddCommand(configCmd)
}
