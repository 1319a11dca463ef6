package main

import (
	"salarycheck/internal/config"
	"salarycheck/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// env is what every subcommand needs before touching the network.
type env struct {
	cfg *config.Config
	log *zap.SugaredLogger
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "salarycheck",
		Short:         "Remind payroll reviewers of pending reconciliation items",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newRunCmd(), newRefreshCmd())
	return cmd
}

// loadEnv reads and validates configuration and builds the logger. Any error
// here ends the process before a network call is made.
func loadEnv() (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log}, nil
}
