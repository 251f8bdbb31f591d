// Package cli implements the taskpilot command line: running the API
// server, training priority models, and ranking tasks from the terminal.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"taskpilot/internal/config"
	"taskpilot/internal/logging"
	"taskpilot/internal/scoring"
	"taskpilot/internal/storage"
)

// NewRootCmd builds the taskpilot command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taskpilot",
		Short:         "Task management backend with learned prioritization",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newTrainCmd())
	root.AddCommand(newRankCmd())
	return root
}

// bootstrap loads configuration and opens the store and scoring service
// shared by every subcommand.
func bootstrap(ctx context.Context) (*config.Config, *storage.SQLStore, *scoring.Service, logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	logger := logging.New(logging.ParseLevel(cfg.Logging.Level))

	store, err := storage.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, storage.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return cfg, store, scoring.NewService(store, logger), logger, nil
}
