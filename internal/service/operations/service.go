package operations

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/bbag/minedash/internal/domain/models"
	"github.com/bbag/minedash/internal/reconcile"
	"github.com/bbag/minedash/internal/repository"
	"github.com/bbag/minedash/internal/spreadsheet"
)

// TableReader reads a named tab of an external spreadsheet.
type TableReader interface {
	ReadTable(ctx context.Context, sheet string) (models.Table, error)
}

// Service manages daily production logs: every write goes through the
// reconciler before it reaches the store.
type Service struct {
	store      repository.OperationalStore
	reconciler *reconcile.Reconciler
	sheets     TableReader
	logger     *zap.Logger
}

// NewService wires the operational records service. sheets may be nil when
// Google Sheets is not configured.
func NewService(store repository.OperationalStore, reconciler *reconcile.Reconciler, sheets TableReader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, reconciler: reconciler, sheets: sheets, logger: logger}
}

// List returns every record, newest first.
func (s *Service) List(ctx context.Context) ([]models.OperationalRecord, error) {
	records, err := s.store.ListOperational(ctx)
	if err != nil {
		return nil, models.Persistence("list operational data", err)
	}
	return records, nil
}

// Create reconciles a manually entered row and stores it.
func (s *Service) Create(ctx context.Context, row models.Row) (models.OperationalRecord, error) {
	rec, err := s.reconciler.Operational(row)
	if err != nil {
		return models.OperationalRecord{}, err
	}

	stored, err := s.store.InsertOperational(ctx, []models.OperationalRecord{rec})
	if err != nil {
		return models.OperationalRecord{}, models.Persistence("insert operational data", err)
	}
	if len(stored) == 0 {
		return rec, nil
	}

	s.logger.Info("operational record created", zap.String("date", stored[0].Date))
	return stored[0], nil
}

// Update recomputes the record stored under date from row.
func (s *Service) Update(ctx context.Context, date string, row models.Row) (models.OperationalRecord, error) {
	rec, err := s.reconciler.OperationalUpdate(date, row)
	if err != nil {
		return models.OperationalRecord{}, err
	}

	updated, err := s.store.UpdateOperational(ctx, rec)
	if errors.Is(err, models.ErrNotFound) {
		return models.OperationalRecord{}, err
	}
	if err != nil {
		return models.OperationalRecord{}, models.Persistence("update operational data", err)
	}

	s.logger.Info("operational record updated", zap.String("date", updated.Date))
	return updated, nil
}

// Delete removes the record stored under date.
func (s *Service) Delete(ctx context.Context, date string) error {
	normalized, ok := reconcile.NormalizeDate(date)
	if !ok {
		return models.Invalid("invalid date %q", date)
	}

	err := s.store.DeleteOperational(ctx, normalized)
	if errors.Is(err, models.ErrNotFound) {
		return err
	}
	if err != nil {
		return models.Persistence("delete operational data", err)
	}
	s.logger.Info("operational record deleted", zap.String("date", normalized))
	return nil
}

// DeleteAll clears the collection.
func (s *Service) DeleteAll(ctx context.Context) error {
	if err := s.store.DeleteAllOperational(ctx); err != nil {
		return models.Persistence("delete all operational data", err)
	}
	s.logger.Warn("all operational records deleted")
	return nil
}

// Import reconciles the table and hands the whole batch to the store in one
// call. Nothing is stored when any row is invalid.
func (s *Service) Import(ctx context.Context, table models.Table) ([]models.OperationalRecord, error) {
	records, err := s.reconciler.OperationalBatch(table)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.InsertOperational(ctx, records)
	if err != nil {
		return nil, models.Persistence("import operational data", err)
	}

	s.logger.Info("operational data imported", zap.Int("rows", len(records)))
	return stored, nil
}

// ImportWorkbook imports the first sheet of an uploaded .xlsx file.
func (s *Service) ImportWorkbook(ctx context.Context, r io.Reader) ([]models.OperationalRecord, error) {
	table, err := spreadsheet.ReadTable(r, spreadsheet.DateColumns...)
	if err != nil {
		return nil, models.Invalid("unreadable workbook: %v", err)
	}
	return s.Import(ctx, table)
}

// ImportSheet imports a tab of the configured Google spreadsheet.
func (s *Service) ImportSheet(ctx context.Context, sheet string) ([]models.OperationalRecord, error) {
	if s.sheets == nil {
		return nil, models.ErrSheetsDisabled
	}
	if sheet == "" {
		sheet = spreadsheet.SheetOperational
	}

	table, err := s.sheets.ReadTable(ctx, sheet)
	if err != nil {
		return nil, models.Persistence("read google sheet "+sheet, err)
	}
	return s.Import(ctx, table)
}
