package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m3rciful/finbot/bots/finance/app"
	"github.com/m3rciful/finbot/bots/finance/config"
	"github.com/m3rciful/finbot/bots/finance/storage"
	"github.com/m3rciful/finbot/core/bootstrap"
	"github.com/m3rciful/finbot/core/buildinfo"
	corecmd "github.com/m3rciful/finbot/core/cmd"
	"github.com/m3rciful/finbot/core/database"
	"github.com/m3rciful/finbot/core/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "finbot",
		Short:   "Telegram personal finance assistant",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config (default $CONFIG_PATH or ./config.yaml)")

	rootCmd.AddCommand(
		newRunCommand(&configPath),
		newMigrateCommand(&configPath),
	)
	return rootCmd
}

func newRunCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Apply migrations and run the bot until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return corecmd.Run(corecmd.Options{
				ConfigPath: *configPath,
				LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
					cfg, err := config.Load(path)
					if err != nil {
						return nil, err
					}
					return cfg, nil
				},
				Bootstrap: func(c corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
					cfg := c.(*config.Config)
					res, err := bootstrap.Run(bootstrap.Options{
						Config:        cfg.CoreConfig(),
						Database:      cfg.Database,
						Migrations:    storage.Migrations,
						MigrationsDir: storage.MigrationsDir,
					})
					if err != nil {
						return nil, err
					}
					return app.New(cfg, res.DB), nil
				},
			})
		},
	}
}

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(corecmd.ResolveConfigPath(*configPath, ""))
			if err != nil {
				return err
			}
			if err := logger.InitLogger(cfg.CoreConfig()); err != nil {
				return fmt.Errorf("logger init: %w", err)
			}
			defer logger.Shutdown()
			return database.RunMigrations(cfg.Database, storage.Migrations, storage.MigrationsDir)
		},
	}
}
