package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eshaffer321/notes-go/internal/config"
	"github.com/eshaffer321/notes-go/pkg/notes"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const cliContextKey contextKey = "cliContext"

// CliContext holds shared CLI state for one invocation
type CliContext struct {
	ConfigPath string
	Config     *config.Config
	Client     *notes.Client
	Logger     *zap.Logger
	Output     string
}

// NewRootCommand creates the root cobra command
func NewRootCommand() *cobra.Command {
	var (
		cliCtx     CliContext
		configPath string
		logLevel   string
	)

	rootCmd := &cobra.Command{
		Use:           "notesctl",
		Short:         "CLI for the notes API",
		Long:          `A command line interface for managing notes and tasks through the notes REST API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newZapLogger(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
			cliCtx.Logger = logger
			logger.Debug("CLI started", zap.String("command", cmd.CommandPath()))

			if configPath == "" {
				configPath, err = DefaultConfigPath()
				if err != nil {
					return err
				}
			}
			cliCtx.ConfigPath = configPath

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cliCtx.Config = cfg

			// config commands never talk to the API
			if isConfigCommand(cmd) {
				cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey, &cliCtx))
				return nil
			}

			client, err := notes.NewClientFromConfig(cmd.Context(), cfg, &notes.ClientOptions{
				Logger: newClientLogger(logger),
				OnSessionExpired: func(context.Context) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Session expired. Please run 'notesctl auth login' again.")
				},
			})
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}
			cliCtx.Client = client

			cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey, &cliCtx))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cliCtx.Client != nil {
				cliCtx.Client.Close()
			}
			if cliCtx.Logger != nil {
				_ = cliCtx.Logger.Sync()
			}
			return nil
		},
	}

	rootCmd.AddCommand(newAuthCommand())
	rootCmd.AddCommand(newNotesCommand())
	rootCmd.AddCommand(newTasksCommand())
	rootCmd.AddCommand(newCategoriesCommand())
	rootCmd.AddCommand(newSubjectsCommand())
	rootCmd.AddCommand(newConfigCommand())

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file path (default ~/.config/notesctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&cliCtx.Output, "output", "o", outputTable,
		"Output format (table, json)")

	return rootCmd
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" {
			return true
		}
	}
	return false
}

// getCliContext extracts the CLI context from the command context
func getCliContext(cmd *cobra.Command) *CliContext {
	return cmd.Context().Value(cliContextKey).(*CliContext)
}
