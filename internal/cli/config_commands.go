package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and change CLI configuration",
		Long: `View and change the CLI configuration file.

Environment variables (NOTES_API_BASE_URL, NOTES_API_TIMEOUT, ...) override
values from the file.`,
	}

	cmd.AddCommand(newConfigViewCommand())
	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigPathCommand())

	return cmd
}

func newConfigViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getCliContext(cmd).Config

			return render(cmd, cfg, func(w io.Writer) {
				for _, key := range configKeys {
					value, _ := getConfigValue(cfg, key)
					if key == "sentry.dsn" && value != "" {
						value = "(set)"
					}
					fmt.Fprintf(w, "%s\t%s\n", key, value)
				}
			})
		},
	}
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := getConfigValue(getCliContext(cmd).Config, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one configuration value and save the file",
		Long: `Change one configuration value and save the file.

Examples:
  notesctl config set api.base_url https://notes.example.com/api
  notesctl config set api.timeout 30s`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx := getCliContext(cmd)

			if err := setConfigValue(cliCtx.Config, args[0], args[1]); err != nil {
				return err
			}
			if err := SaveConfig(cliCtx.ConfigPath, cliCtx.Config); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", args[0], cliCtx.ConfigPath)
			return nil
		},
	}
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), getCliContext(cmd).ConfigPath)
			return nil
		},
	}
}
