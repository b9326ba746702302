package main

import (
	"context"
	"fmt"
	"log/slog"

	"okr-tracker-api/internal/config"
	"okr-tracker-api/internal/database"
	"okr-tracker-api/internal/logging"
	"okr-tracker-api/internal/store"

	"github.com/spf13/cobra"
)

// app is what every subcommand needs before it can run.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "okr-server",
		Short:         "OKR tracking API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			a.cfg = cfg
			a.logger = logging.New(cfg.LogLevel, cfg.LogFormat)
			slog.SetDefault(a.logger)
			return nil
		},
	}

	root.AddCommand(
		newServeCmd(a),
		newSeedCmd(a),
		newImportCmd(a),
	)
	return root
}

// openStore connects the configured database and realigns its id
// sequences with the rows already present.
func (a *app) openStore(ctx context.Context) (*store.GormStore, error) {
	err := database.InitDB(database.Options{
		Driver:   a.cfg.DatabaseDriver,
		DSN:      a.cfg.DatabaseDSN,
		LogLevel: logging.ParseLevel(a.cfg.LogLevel),
		Logger:   a.logger,
	})
	if err != nil {
		return nil, err
	}
	st := store.NewGormStore(database.GetDB())
	if err := st.ResyncSequences(ctx); err != nil {
		return nil, fmt.Errorf("resyncing id sequences: %w", err)
	}
	return st, nil
}
