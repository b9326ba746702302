package service

import (
	"context"
	"io"
	"log/slog"

	"okr-tracker-api/internal/importer"
	"okr-tracker-api/internal/realtime"
)

// Import loads a workbook into the store. Managers only. Rows written before
// a failure stay written, so the cache is dropped either way.
func (s *Service) Import(ctx context.Context, actor Actor, r io.Reader) (*importer.Report, error) {
	if !actor.IsManager() {
		return nil, ErrForbidden
	}
	report, err := importer.ImportWorkbook(ctx, r, s.store)
	if report != nil && report.Total() > 0 {
		s.changed(ctx, "workbook", "import", realtime.Event{Type: realtime.DataImported}, nil)
	}
	if err != nil {
		s.logger.Error("import failed", slog.String("error", err.Error()))
		return report, err
	}
	return report, nil
}
