package main

import (
	"log/slog"
	"time"

	"okr-tracker-api/internal/service"

	"github.com/spf13/cobra"
)

func newSeedCmd(a *app) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the demo accounts when the database is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			if year == 0 {
				year = time.Now().Year()
			}
			wrote, err := service.Seed(ctx, st, year)
			if err != nil {
				return err
			}
			if !wrote {
				a.logger.Info("database already has employees, nothing seeded")
				return nil
			}
			a.logger.Info("seeded demo data",
				slog.String("manager", service.SeedManagerEmail),
				slog.String("employee", service.SeedEmployeeEmail),
			)
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "year of the corporate objective (default: current year)")
	return cmd
}
