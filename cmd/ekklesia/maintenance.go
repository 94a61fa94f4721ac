package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/ekklesia/internal/cache"
	"github.com/terraincognita07/ekklesia/internal/cli"
	"github.com/terraincognita07/ekklesia/internal/config"
)

func newResetPasswordCommand() *cobra.Command {
	var prompt bool
	command := &cobra.Command{
		Use:   "reset-password <username>",
		Short: "Set a new password for an account and sign out its sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadStorage()
			if err != nil {
				return err
			}
			database, err := openDatabase(cfg)
			if err != nil {
				return fmt.Errorf("database init failed: %w", err)
			}
			defer closeDatabase(database)

			options := cli.ResetPasswordOptions{Out: cmd.OutOrStdout()}
			if prompt {
				options.ReadPassword = cli.TerminalPasswordReader(os.Stdin, cmd.ErrOrStderr())
			}
			return cli.RunResetPasswordCommand(commandContext(cmd), database, args[0], options)
		},
	}
	command.Flags().BoolVar(&prompt, "prompt", false, "ask for the new password instead of generating one")
	return command
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot.json>",
		Short: "Replace the membership directory with a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadStorage()
			if err != nil {
				return err
			}
			database, err := openDatabase(cfg)
			if err != nil {
				return fmt.Errorf("database init failed: %w", err)
			}
			defer closeDatabase(database)

			options := cli.ImportOptions{Out: cmd.OutOrStdout()}
			if client := openRedis(cfg); client != nil {
				defer client.Close()
				statistics := cache.NewRedisStatisticsCache(client, cfg.StatsCacheTTL, nil)
				options.AfterImport = func(ctx context.Context) error {
					return statistics.Invalidate(ctx)
				}
			}
			return cli.RunImportCommand(commandContext(cmd), database, args[0], options)
		},
	}
}
