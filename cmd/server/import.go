package main

import (
	"fmt"
	"log/slog"
	"os"

	"okr-tracker-api/internal/importer"

	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Load employees, areas, objectives and tasks from a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening workbook: %w", err)
			}
			defer f.Close()

			report, err := importer.ImportWorkbook(ctx, f, st)
			if report != nil {
				for sheet, n := range report.Imported {
					a.logger.Info("imported rows", slog.String("sheet", sheet), slog.Int("rows", n))
				}
				for _, rowErr := range report.Errors {
					a.logger.Warn("row rejected",
						slog.String("sheet", rowErr.Sheet),
						slog.Int("row", rowErr.Row),
						slog.String("error", rowErr.Message),
					)
				}
			}
			return err
		},
	}
}
