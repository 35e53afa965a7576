package employees

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

// Service manages employee profiles.
type Service struct {
	store      repository.EmployeeStore
	reconciler *reconcile.Reconciler
	sheets     TableReader
	logger     *zap.Logger
}

// NewService wires the employee service. sheets may be nil.
func NewService(store repository.EmployeeStore, reconciler *reconcile.Reconciler, sheets TableReader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, reconciler: reconciler, sheets: sheets, logger: logger}
}

// List returns every employee ordered by name.
func (s *Service) List(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, models.Persistence("list employees", err)
	}
	return employees, nil
}

// Create reconciles a manually entered profile and stores it.
func (s *Service) Create(ctx context.Context, row models.Row) (models.Employee, error) {
	emp, err := s.reconciler.Employee(row)
	if err != nil {
		return models.Employee{}, err
	}

	stored, err := s.store.InsertEmployees(ctx, []models.Employee{emp})
	if err != nil {
		return models.Employee{}, models.Persistence("insert employee", err)
	}
	if len(stored) == 0 {
		return emp, nil
	}

	s.logger.Info("employee created", zap.Int64("id", stored[0].ID))
	return stored[0], nil
}

// Update replaces the profile stored under id. Fields missing from row fall
// back to their initial values, as for a new entry.
func (s *Service) Update(ctx context.Context, id int64, row models.Row) (models.Employee, error) {
	emp, err := s.reconciler.Employee(row)
	if err != nil {
		return models.Employee{}, err
	}
	emp.ID = id

	updated, err := s.store.UpdateEmployee(ctx, emp)
	if errors.Is(err, models.ErrNotFound) {
		return models.Employee{}, err
	}
	if err != nil {
		return models.Employee{}, models.Persistence("update employee", err)
	}

	s.logger.Info("employee updated", zap.Int64("id", id))
	return updated, nil
}

// Delete removes the profile stored under id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.store.DeleteEmployee(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return err
	}
	if err != nil {
		return models.Persistence("delete employee", err)
	}
	s.logger.Info("employee deleted", zap.Int64("id", id))
	return nil
}

// DeleteAll clears the collection.
func (s *Service) DeleteAll(ctx context.Context) error {
	if err := s.store.DeleteAllEmployees(ctx); err != nil {
		return models.Persistence("delete all employees", err)
	}
	s.logger.Warn("all employees deleted")
	return nil
}

// Import reconciles the table and stores the whole batch in one call.
func (s *Service) Import(ctx context.Context, table models.Table) ([]models.Employee, error) {
	employees, err := s.reconciler.EmployeeBatch(table)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.InsertEmployees(ctx, employees)
	if err != nil {
		return nil, models.Persistence("import employees", err)
	}

	s.logger.Info("employees imported", zap.Int("rows", len(employees)))
	return stored, nil
}

// ImportWorkbook imports the first sheet of an uploaded .xlsx file.
func (s *Service) ImportWorkbook(ctx context.Context, r io.Reader) ([]models.Employee, error) {
	table, err := spreadsheet.ReadTable(r, spreadsheet.DateColumns...)
	if err != nil {
		return nil, models.Invalid("unreadable workbook: %v", err)
	}
	return s.Import(ctx, table)
}

// ImportSheet imports a tab of the configured Google spreadsheet.
func (s *Service) ImportSheet(ctx context.Context, sheet string) ([]models.Employee, error) {
	if s.sheets == nil {
		return nil, models.ErrSheetsDisabled
	}
	if sheet == "" {
		sheet = spreadsheet.SheetEmployees
	}

	table, err := s.sheets.ReadTable(ctx, sheet)
	if err != nil {
		return nil, models.Persistence("read google sheet "+sheet, err)
	}
	return s.Import(ctx, table)
}
