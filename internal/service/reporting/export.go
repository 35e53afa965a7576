package reporting

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/spreadsheet"
)

// TableWriter replaces the content of a named tab of an external spreadsheet.
type TableWriter interface {
	WriteTable(ctx context.Context, sheet string, header []string, rows [][]interface{}) error
}

// Backup renders both collections into an .xlsx workbook.
func (s *Service) Backup(ctx context.Context) (*bytes.Buffer, error) {
	records, employees, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	buf, err := spreadsheet.Backup(records, employees)
	if err != nil {
		return nil, fmt.Errorf("render backup: %w", err)
	}
	s.logger.Info("backup generated", zap.Int("operational", len(records)), zap.Int("employees", len(employees)))
	return buf, nil
}

// ExportSheets writes both collections to their tabs of the configured
// spreadsheet. w is nil when Google Sheets is not configured.
func (s *Service) ExportSheets(ctx context.Context, w TableWriter) error {
	if w == nil {
		return models.ErrSheetsDisabled
	}

	records, employees, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}

	opRows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		opRows = append(opRows, rec.Values())
	}
	if err := w.WriteTable(ctx, spreadsheet.SheetOperational, models.OperationalExportColumns, opRows); err != nil {
		return models.Persistence("export operational data to google sheets", err)
	}

	empRows := make([][]interface{}, 0, len(employees))
	for _, emp := range employees {
		empRows = append(empRows, emp.Values())
	}
	if err := w.WriteTable(ctx, spreadsheet.SheetEmployees, models.EmployeeExportColumns(), empRows); err != nil {
		return models.Persistence("export employees to google sheets", err)
	}

	s.logger.Info("google sheets export completed", zap.Int("operational", len(records)), zap.Int("employees", len(employees)))
	return nil
}
