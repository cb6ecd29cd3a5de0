package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sentrix/internal/infrastructure/configloader"
	"sentrix/internal/pkg/logger"
)

var version = "dev"

// app holds state shared by the subcommands after PersistentPreRunE.
type app struct {
	configPath string
	cfg        *configloader.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "sentrix",
		Short: "Wallet balance and transaction reconciliation backend",
		Long: `Sentrix tracks one wallet per account, resolves its native balance and fiat value,
and keeps a deduplicated local copy of its on-chain transactions.

Example:
  sentrix migrate
  sentrix serve
  sentrix sync --account 8f14e45f-ceea-467f-a0e6-5d3b1c2f7a10 --wallet <wallet-id>`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to the YAML config (default $CONFIG_PATH or "+configloader.DefaultPath+")")

	root.AddCommand(newServeCmd(a), newMigrateCmd(a), newSyncCmd(a))
	return root
}

func (a *app) init() error {
	cfg, err := configloader.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := logger.Init(logger.Options{Level: cfg.Logging.Level, Development: cfg.Logging.Development}); err != nil {
		logger.Warn("Invalid log level, using info", "level", cfg.Logging.Level, "error", err)
	}
	a.cfg = cfg
	return nil
}
